package models

import "time"

// Target addresses a notification to a subscriber of the provider.
type Target struct {
	SubscriberId string `json:"subscriberId"`
	Email        string `json:"email,omitempty"`
}

type CompletionPayload struct {
	TaskId          string    `json:"taskId"`
	TaskTitle       string    `json:"taskTitle"`
	TaskDescription string    `json:"taskDescription"`
	UserName        string    `json:"userName"`
	UserId          string    `json:"userId"`
	CompletedAt     time.Time `json:"completedAt"`
	Message         string    `json:"message"`
}

type SubscriberProfile struct {
	Email     string            `json:"email"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Data      map[string]string `json:"data,omitempty"`
}

type TriggerMessage struct {
	WorkflowId string            `json:"workflowId"`
	To         Target            `json:"to"`
	Payload    CompletionPayload `json:"payload"`
}

type SubscriberMessage struct {
	SubscriberId string            `json:"subscriberId"`
	Profile      SubscriberProfile `json:"profile"`
}

// Notification is one delivered message in a subscriber's feed.
type Notification struct {
	Id        string
	Content   string
	Seen      bool
	Read      bool
	CreatedAt time.Time
}
