package service

import (
	"github.com/Novip1906/tasks-notify/api/tasksapi"
	"github.com/Novip1906/tasks-notify/internal/models"
)

func toPbTask(task models.Task) tasksapi.Task {
	return tasksapi.Task{
		Id:          task.Id,
		UserId:      task.OwnerId,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toPbTasks(tasks []models.Task) []tasksapi.Task {
	pbTasks := make([]tasksapi.Task, 0, len(tasks))
	for _, task := range tasks {
		pbTasks = append(pbTasks, toPbTask(task))
	}
	return pbTasks
}

func toPbPrincipal(p models.PublicPrincipal) tasksapi.Principal {
	return tasksapi.Principal{
		Id:           p.Id,
		Username:     p.Username,
		Role:         string(p.Role),
		Email:        p.Email,
		SubscriberId: p.SubscriberId,
	}
}

func toPbNotifications(items []models.Notification) []tasksapi.Notification {
	out := make([]tasksapi.Notification, 0, len(items))
	for _, n := range items {
		out = append(out, tasksapi.Notification{
			Id:        n.Id,
			Content:   n.Content,
			Seen:      n.Seen,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
