// Package notify sends completion events and subscriber profiles to the
// notification provider without making callers wait for it.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Novip1906/tasks-notify/internal/metrics"
	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/Novip1906/tasks-notify/pkg/logging"
)

const (
	DefaultWorkflowId = "task-completed-notification"
	DefaultTimeout    = 5 * time.Second
)

type Kind string

const (
	KindTrigger    Kind = "trigger"
	KindSubscriber Kind = "subscriber"
)

// Result is the outcome of one provider call. Err is nil on success.
type Result struct {
	Kind         Kind
	TaskId       string
	SubscriberId string
	Err          error
}

func (r Result) OK() bool { return r.Err == nil }

type Option func(*Dispatcher)

func WithWorkflow(id string) Option {
	return func(d *Dispatcher) {
		if id != "" {
			d.workflowId = id
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

type Dispatcher struct {
	provider   Provider
	admin      models.Principal
	workflowId string
	timeout    time.Duration
	log        *slog.Logger
	wg         sync.WaitGroup
}

// NewDispatcher addresses every completion event to admin.
func NewDispatcher(provider Provider, admin models.Principal, log *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		provider:   provider,
		admin:      admin,
		workflowId: DefaultWorkflowId,
		timeout:    DefaultTimeout,
		log:        log.With(slog.String("component", "dispatcher")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TaskCompleted triggers the completion workflow for task on behalf of
// actor. It returns at once; the single attempt runs on its own goroutine
// and its Result is logged and then delivered on the returned channel.
func (d *Dispatcher) TaskCompleted(task models.Task, actor models.PublicPrincipal) <-chan Result {
	payload := BuildPayload(task, actor)
	to := models.Target{
		SubscriberId: d.admin.SubscriberId,
		Email:        d.admin.Email,
	}

	return d.run(KindTrigger, task.Id, to.SubscriberId, func(ctx context.Context) error {
		return d.provider.Trigger(ctx, d.workflowId, to, payload)
	})
}

// EnsureSubscriber upserts p into the provider's subscriber directory.
// Repeated calls are harmless.
func (d *Dispatcher) EnsureSubscriber(p models.PublicPrincipal) <-chan Result {
	profile := models.SubscriberProfile{
		Email:     p.Email,
		FirstName: p.Username,
		LastName:  string(p.Role),
		Data: map[string]string{
			"role":   string(p.Role),
			"userId": p.Id,
		},
	}

	return d.run(KindSubscriber, "", p.SubscriberId, func(ctx context.Context) error {
		return d.provider.UpsertSubscriber(ctx, p.SubscriberId, profile)
	})
}

// Wait blocks until every started call has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(kind Kind, taskId, subscriberId string, call func(ctx context.Context) error) <-chan Result {
	out := make(chan Result, 1)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(out)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		res := Result{Kind: kind, TaskId: taskId, SubscriberId: subscriberId}
		res.Err = call(ctx)
		d.report(res)
		out <- res
	}()

	return out
}

func (d *Dispatcher) report(res Result) {
	attr := logging.Dispatch(string(res.Kind), res.TaskId, res.SubscriberId)
	if res.Err != nil {
		metrics.DispatchesTotal.WithLabelValues(string(res.Kind), "error").Inc()
		d.log.Error("notification provider call failed", attr, logging.Err(res.Err))
		return
	}
	metrics.DispatchesTotal.WithLabelValues(string(res.Kind), "ok").Inc()
	d.log.Info("notification provider call succeeded", attr)
}

func BuildPayload(task models.Task, actor models.PublicPrincipal) models.CompletionPayload {
	completedAt := time.Now()
	if task.UpdatedAt != nil {
		completedAt = *task.UpdatedAt
	}

	return models.CompletionPayload{
		TaskId:          task.Id,
		TaskTitle:       task.Title,
		TaskDescription: task.Description,
		UserName:        actor.Username,
		UserId:          actor.Id,
		CompletedAt:     completedAt,
		Message:         fmt.Sprintf("%s has completed task: %s", actor.Username, task.Title),
	}
}
