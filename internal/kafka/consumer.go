package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/metrics"
	"github.com/Novip1906/tasks-notify/pkg/logging"
	"github.com/segmentio/kafka-go"
)

const maxRetries = 3

type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	readers  map[string]messageReader
	handlers map[string]MessageHandler
	config   config.Kafka
	backoff  func(attempt int) time.Duration
	wg       sync.WaitGroup
	log      *slog.Logger
}

func NewConsumer(kafkaCfg config.Kafka, mailer Mailer, directory Directory, workflowId string, log *slog.Logger) *Consumer {
	return &Consumer{
		readers: make(map[string]messageReader),
		handlers: map[string]MessageHandler{
			kafkaCfg.TriggerTopic: &triggerHandler{
				mailer:     mailer,
				directory:  directory,
				workflowId: workflowId,
				log:        log,
			},
			kafkaCfg.SubscriberTopic: &subscriberHandler{directory: directory, log: log},
		},
		config: kafkaCfg,
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
		log: log,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("Starting Kafka consumers")

	for topic, handler := range c.handlers {
		c.log.Debug("Creating reader for topic", "topic", topic)
		reader := c.createReader(topic)
		c.readers[topic] = reader

		c.wg.Add(1)
		go c.consumeTopic(ctx, topic, reader, handler)
	}

	c.log.Info("Kafka consumers started successfully")
	return nil
}

func (c *Consumer) createReader(topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.config.Brokers,
		GroupID:     c.config.GroupId,
		Topic:       topic,
		MaxAttempts: 3,
		MaxWait:     10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			c.log.Debug("[KAFKA] "+msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			c.log.Error("[KAFKA-ERROR] "+msg, args...)
		}),
	})
}

func (c *Consumer) consumeTopic(ctx context.Context, topic string, reader messageReader, handler MessageHandler) {
	defer c.wg.Done()

	c.log.Info("Starting consumer for topic", "topic", topic)
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.log.Info("Stopping consumer for topic", "topic", topic)
				return
			}

			c.log.Error("Error reading message from Kafka",
				"topic", topic,
				logging.Err(err))
			continue
		}

		c.handleMessageWithRetry(ctx, topic, msg, handler)
	}
}

func (c *Consumer) handleMessageWithRetry(ctx context.Context, topic string, msg kafka.Message, handler MessageHandler) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := handler.HandleMessage(ctx, msg.Value)
		if err == nil {
			metrics.MessagesConsumed.WithLabelValues(topic, "ok").Inc()
			c.log.Info("Successfully processed message",
				"topic", topic,
				"partition", msg.Partition,
				"offset", msg.Offset)
			return
		}

		lastErr = err
		if errors.Is(err, ErrDropMessage) {
			metrics.MessagesConsumed.WithLabelValues(topic, "dropped").Inc()
			c.log.Warn("Dropping message",
				"topic", topic,
				"offset", msg.Offset,
				logging.Err(err))
			return
		}

		c.log.Warn("Failed to process message, retrying",
			"topic", topic,
			"attempt", attempt,
			"maxRetries", maxRetries,
			logging.Err(err))

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	metrics.MessagesConsumed.WithLabelValues(topic, "failed").Inc()
	c.log.Error("Failed to process message after all retries",
		"topic", topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		logging.Err(lastErr))
}

func (c *Consumer) Stop() error {
	c.log.Info("Stopping Kafka consumers...")

	var lastErr error
	for topic, reader := range c.readers {
		if err := reader.Close(); err != nil {
			c.log.Error("Error closing Kafka reader",
				"topic", topic,
				logging.Err(err))
			lastErr = err
		}
	}

	c.wg.Wait()

	c.log.Info("Kafka consumers stopped")
	return lastErr
}
