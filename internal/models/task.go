package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownStatus = errors.New("unknown task status")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

type Task struct {
	Id          string
	OwnerId     string
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
