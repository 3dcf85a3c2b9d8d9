package tasksapi

import "time"

type Task struct {
	Id          string     `json:"id"`
	UserId      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Principal struct {
	Id           string `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	SubscriberId string `json:"subscriberId"`
}

type Notification struct {
	Id        string    `json:"id"`
	Content   string    `json:"content"`
	Seen      bool      `json:"seen"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

type MeRequest struct{}

type MeResponse struct {
	User Principal `json:"user"`
}

type ListTasksRequest struct{}

type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type GetTaskRequest struct {
	TaskId string `json:"taskId"`
}

type GetTaskResponse struct {
	Task Task `json:"task"`
}

type UpdateTaskStatusRequest struct {
	TaskId string `json:"taskId"`
	Status string `json:"status"`
}

type UpdateTaskStatusResponse struct {
	Task     Task   `json:"task"`
	Notified bool   `json:"notified"`
	Message  string `json:"message"`
}

type ListPrincipalsRequest struct{}

type ListPrincipalsResponse struct {
	Users []Principal `json:"users"`
}

type SyncSubscriberRequest struct{}

type SyncSubscriberResponse struct {
	Message string `json:"message"`
}

type ListNotificationsRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type ListNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type MarkNotificationReadRequest struct {
	MessageId string `json:"messageId"`
}

type MarkNotificationReadResponse struct {
	Message string `json:"message"`
}

func (x *LoginRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *LoginRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

func (x *GetTaskRequest) GetTaskId() string {
	if x != nil {
		return x.TaskId
	}
	return ""
}

func (x *UpdateTaskStatusRequest) GetTaskId() string {
	if x != nil {
		return x.TaskId
	}
	return ""
}

func (x *UpdateTaskStatusRequest) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *ListNotificationsRequest) GetPage() int {
	if x != nil {
		return x.Page
	}
	return 0
}

func (x *ListNotificationsRequest) GetLimit() int {
	if x != nil {
		return x.Limit
	}
	return 0
}

func (x *MarkNotificationReadRequest) GetMessageId() string {
	if x != nil {
		return x.MessageId
	}
	return ""
}
