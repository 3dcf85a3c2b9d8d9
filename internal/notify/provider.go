package notify

import (
	"context"
	"log/slog"

	"github.com/Novip1906/tasks-notify/internal/models"
)

// Provider is the external notification service.
type Provider interface {
	Trigger(ctx context.Context, workflowId string, to models.Target, payload models.CompletionPayload) error
	UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error
}

// Inbox is implemented by providers that keep a per-subscriber feed.
type Inbox interface {
	Feed(ctx context.Context, subscriberId string, page, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, subscriberId, messageId string) error
}

// LogProvider only logs what it would send.
type LogProvider struct {
	log *slog.Logger
}

func NewLogProvider(log *slog.Logger) *LogProvider {
	return &LogProvider{log: log.With(slog.String("provider", "log"))}
}

func (p *LogProvider) Trigger(ctx context.Context, workflowId string, to models.Target, payload models.CompletionPayload) error {
	p.log.Info("trigger",
		slog.String("workflow", workflowId),
		slog.String("subscriber_id", to.SubscriberId),
		slog.String("task_id", payload.TaskId),
		slog.String("message", payload.Message),
	)
	return nil
}

func (p *LogProvider) UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error {
	p.log.Info("upsert subscriber",
		slog.String("subscriber_id", subscriberId),
		slog.String("email", profile.Email),
	)
	return nil
}
