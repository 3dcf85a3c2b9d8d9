// Package guard decides whether verified claims may perform an operation.
package guard

import (
	"errors"
	"fmt"

	"github.com/Novip1906/tasks-notify/internal/models"
)

var ErrForbidden = errors.New("forbidden")

type Operation int

const (
	OpListTasks Operation = iota + 1
	OpGetTask
	OpUpdateStatus
	OpListPrincipals
)

func (o Operation) String() string {
	switch o {
	case OpListTasks:
		return "ListTasks"
	case OpGetTask:
		return "GetTask"
	case OpUpdateStatus:
		return "UpdateStatus"
	case OpListPrincipals:
		return "ListPrincipals"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Authorize returns nil when claims may perform op on task, ErrForbidden
// otherwise. task is only consulted by GetTask and UpdateStatus; a nil task
// is denied there. Anything not explicitly allowed is denied.
func Authorize(claims models.Claims, op Operation, task *models.Task) error {
	switch op {
	case OpListTasks:
		return nil

	case OpGetTask:
		switch claims.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleGuest:
			if owns(claims, task) {
				return nil
			}
			return fmt.Errorf("%w: not authorized to view this task", ErrForbidden)
		}

	case OpUpdateStatus:
		switch claims.Role {
		case models.RoleAdmin:
			return fmt.Errorf("%w: admin role is read-only", ErrForbidden)
		case models.RoleGuest:
			if owns(claims, task) {
				return nil
			}
			return fmt.Errorf("%w: not authorized to update this task", ErrForbidden)
		}

	case OpListPrincipals:
		switch claims.Role {
		case models.RoleAdmin:
			return nil
		case models.RoleGuest:
			return fmt.Errorf("%w: admin access required", ErrForbidden)
		}
	}

	return fmt.Errorf("%w: %s denied for role %q", ErrForbidden, op, claims.Role)
}

// TaskScope tells ListTasks which tasks the caller sees: every task for an
// admin, otherwise only those owned by ownerId.
func TaskScope(claims models.Claims) (ownerId string, all bool) {
	switch claims.Role {
	case models.RoleAdmin:
		return "", true
	case models.RoleGuest:
		return claims.PrincipalId, false
	}
	return claims.PrincipalId, false
}

func owns(claims models.Claims, task *models.Task) bool {
	return task != nil && claims.PrincipalId != "" && task.OwnerId == claims.PrincipalId
}
