package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/models"
)

// NotificationProducer hands provider calls to the notification worker
// over Kafka. Both topics are keyed by subscriber id so one subscriber's
// messages stay ordered.
type NotificationProducer struct {
	producer        *producer
	triggerTopic    string
	subscriberTopic string
}

func NewNotificationProducer(kafkaCfg *config.Kafka) *NotificationProducer {
	return &NotificationProducer{
		producer:        newProducer(kafkaCfg.Brokers),
		triggerTopic:    kafkaCfg.TriggerTopic,
		subscriberTopic: kafkaCfg.SubscriberTopic,
	}
}

func (p *NotificationProducer) Trigger(ctx context.Context, workflowId string, to models.Target, payload models.CompletionPayload) error {
	message := models.TriggerMessage{
		WorkflowId: workflowId,
		To:         to,
		Payload:    payload,
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger message: %w", err)
	}

	if err := p.producer.SendMessage(ctx, p.triggerTopic, []byte(to.SubscriberId), jsonData); err != nil {
		return fmt.Errorf("failed to send trigger message: %w", err)
	}
	return nil
}

func (p *NotificationProducer) UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error {
	message := models.SubscriberMessage{
		SubscriberId: subscriberId,
		Profile:      profile,
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal subscriber message: %w", err)
	}

	if err := p.producer.SendMessage(ctx, p.subscriberTopic, []byte(subscriberId), jsonData); err != nil {
		return fmt.Errorf("failed to send subscriber message: %w", err)
	}
	return nil
}

func (p *NotificationProducer) Close() error {
	return p.producer.Close()
}
