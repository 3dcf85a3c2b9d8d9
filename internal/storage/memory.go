package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/Novip1906/tasks-notify/internal/models"
)

// OwnerChecker validates task owners when the repository is built.
type OwnerChecker interface {
	IsGuest(id string) bool
}

type taskEntry struct {
	mu   sync.Mutex
	task models.Task
}

func (e *taskEntry) snapshot() models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyTask(e.task)
}

// MemoryStorage holds the tasks of the process. The set of ids is fixed at
// construction, so the indexes are read without locking and every task is
// guarded by its own mutex.
type MemoryStorage struct {
	order   []*taskEntry
	byId    map[string]*taskEntry
	byOwner map[string][]*taskEntry
	now     func() time.Time
}

type MemoryOption func(*MemoryStorage)

func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStorage) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStorage(tasks []models.Task, owners OwnerChecker, opts ...MemoryOption) (*MemoryStorage, error) {
	s := &MemoryStorage{
		order:   make([]*taskEntry, 0, len(tasks)),
		byId:    make(map[string]*taskEntry, len(tasks)),
		byOwner: make(map[string][]*taskEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, task := range tasks {
		if !owners.IsGuest(task.OwnerId) {
			return nil, fmt.Errorf("%w: task %s owned by %q", ErrInvalidOwner, task.Id, task.OwnerId)
		}
		if _, err := models.ParseStatus(string(task.Status)); err != nil {
			return nil, fmt.Errorf("%w: task %s: %w", ErrInvalidStatus, task.Id, err)
		}
		if _, ok := s.byId[task.Id]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, task.Id)
		}

		e := &taskEntry{task: copyTask(task)}
		s.order = append(s.order, e)
		s.byId[task.Id] = e
		s.byOwner[task.OwnerId] = append(s.byOwner[task.OwnerId], e)
	}

	return s, nil
}

func (s *MemoryStorage) ListAll() []models.Task {
	return snapshotAll(s.order)
}

func (s *MemoryStorage) ListForOwner(ownerId string) []models.Task {
	return snapshotAll(s.byOwner[ownerId])
}

func (s *MemoryStorage) GetById(id string) (models.Task, error) {
	e, ok := s.byId[id]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return e.snapshot(), nil
}

// UpdateStatus sets the status of a task owned by requesterId and reports
// whether this write moved the task into completed. The read of the old
// status, the decision and the write happen under the task's lock, so
// concurrent completions of one task report true exactly once.
func (s *MemoryStorage) UpdateStatus(id string, newStatus models.Status, requesterId string) (models.Task, bool, error) {
	if _, err := models.ParseStatus(string(newStatus)); err != nil {
		return models.Task{}, false, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}

	e, ok := s.byId[id]
	if !ok {
		return models.Task{}, false, ErrTaskNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.task.OwnerId != requesterId {
		return models.Task{}, false, ErrNotTaskOwner
	}

	oldStatus := e.task.Status
	now := s.now()
	e.task.Status = newStatus
	e.task.UpdatedAt = &now

	completed := oldStatus != models.StatusCompleted && newStatus == models.StatusCompleted
	return copyTask(e.task), completed, nil
}

func snapshotAll(entries []*taskEntry) []models.Task {
	tasks := make([]models.Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, e.snapshot())
	}
	return tasks
}

func copyTask(t models.Task) models.Task {
	if t.UpdatedAt != nil {
		updated := *t.UpdatedAt
		t.UpdatedAt = &updated
	}
	return t
}
