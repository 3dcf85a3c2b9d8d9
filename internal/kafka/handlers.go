package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Novip1906/tasks-notify/internal/email"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/internal/storage"
)

// ErrDropMessage marks a message that can never be handled; it is not retried.
var ErrDropMessage = errors.New("message dropped")

type Mailer interface {
	SendCompletion(to string, msg models.TriggerMessage) error
}

// Directory is the worker's subscriber store.
type Directory interface {
	UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error
	GetSubscriber(ctx context.Context, subscriberId string) (models.SubscriberProfile, error)
}

type triggerHandler struct {
	mailer     Mailer
	directory  Directory
	workflowId string
	log        *slog.Logger
}

func (h *triggerHandler) HandleMessage(ctx context.Context, message []byte) error {
	var triggerMsg models.TriggerMessage
	if err := json.Unmarshal(message, &triggerMsg); err != nil {
		return fmt.Errorf("%w: unmarshal trigger message: %v", ErrDropMessage, err)
	}

	if triggerMsg.WorkflowId != h.workflowId {
		return fmt.Errorf("%w: unknown workflow %q", ErrDropMessage, triggerMsg.WorkflowId)
	}

	to := triggerMsg.To.Email
	if to == "" {
		profile, err := h.directory.GetSubscriber(ctx, triggerMsg.To.SubscriberId)
		if errors.Is(err, storage.ErrSubscriberNotFound) {
			return fmt.Errorf("%w: no e-mail for subscriber %q", ErrDropMessage, triggerMsg.To.SubscriberId)
		}
		if err != nil {
			return fmt.Errorf("resolve subscriber: %w", err)
		}
		to = profile.Email
	}
	if to == "" {
		return fmt.Errorf("%w: no e-mail for subscriber %q", ErrDropMessage, triggerMsg.To.SubscriberId)
	}

	h.log.Info("Received completion trigger",
		"task_id", triggerMsg.Payload.TaskId,
		"subscriber_id", triggerMsg.To.SubscriberId)
	err := h.mailer.SendCompletion(to, triggerMsg)
	if errors.Is(err, email.ErrRenderTemplate) {
		return fmt.Errorf("%w: %w", ErrDropMessage, err)
	}
	return err
}

type subscriberHandler struct {
	directory Directory
	log       *slog.Logger
}

func (h *subscriberHandler) HandleMessage(ctx context.Context, message []byte) error {
	var subscriberMsg models.SubscriberMessage
	if err := json.Unmarshal(message, &subscriberMsg); err != nil {
		return fmt.Errorf("%w: unmarshal subscriber message: %v", ErrDropMessage, err)
	}
	if subscriberMsg.SubscriberId == "" {
		return fmt.Errorf("%w: empty subscriber id", ErrDropMessage)
	}

	h.log.Info("Received subscriber upsert", "subscriber_id", subscriberMsg.SubscriberId)
	return h.directory.UpsertSubscriber(ctx, subscriberMsg.SubscriberId, subscriberMsg.Profile)
}
