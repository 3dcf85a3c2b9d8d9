package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Novip1906/tasks-notify/internal/config"
	"github.com/Novip1906/tasks-notify/internal/email"
	"github.com/Novip1906/tasks-notify/internal/kafka"
	"github.com/Novip1906/tasks-notify/internal/storage"
	"github.com/Novip1906/tasks-notify/pkg/logging"
)

// NotifierServer is the notification worker: it consumes provider calls
// from Kafka and delivers completion e-mails.
type NotifierServer struct {
	log       *slog.Logger
	consumer  *kafka.Consumer
	directory *storage.RedisStorage
}

func NewNotifierServer(ctx context.Context, cfg *config.NotifierConfig, log *slog.Logger) (*NotifierServer, error) {
	directory, err := storage.NewRedisStorage(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		return nil, fmt.Errorf("subscriber directory: %w", err)
	}

	emailService := email.NewEmailSender(&cfg.SMTP, log)
	consumer := kafka.NewConsumer(cfg.Kafka, emailService, directory, cfg.WorkflowId, log)

	return &NotifierServer{log: log, consumer: consumer, directory: directory}, nil
}

func (s *NotifierServer) Run(ctx context.Context) error {
	defer func() {
		if err := s.directory.Close(); err != nil {
			s.log.Error("redis close error", logging.Err(err))
		}
	}()

	if err := s.consumer.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	s.log.Info("shutting down server, stopping consumer")
	return s.consumer.Stop()
}
