package service

const (
	ErrInternalMessage           = "internal error"
	ErrInvalidCredentialsMessage = "invalid credentials"
	ErrInvalidStatusMessage      = "invalid status"
	ErrTaskNotFoundMessage       = "task not found"
	ErrNotTaskViewerMessage      = "not authorized to view this task"
	ErrNotTaskOwnerMessage       = "not authorized to update this task"
	ErrAdminRequiredMessage      = "admin access required"
	ErrInboxUnsupportedMessage   = "notification feed is not supported by the configured provider"
	ErrInboxUnavailableMessage   = "notification provider unavailable"
	ErrMissingMessageIdMessage   = "message id required"
)

const (
	taskCompletedMessage     = "Task completed and notification sent to admin"
	taskUpdatedMessage       = "Task status updated"
	subscriberSyncMessage    = "Subscriber sync started"
	notificationReadMessage  = "Notification marked as read"
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)
