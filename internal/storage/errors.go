package storage

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotTaskOwner       = errors.New("user is not the task owner")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidOwner       = errors.New("task owner is not a guest principal")
	ErrDuplicateTask      = errors.New("duplicate task id")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)
