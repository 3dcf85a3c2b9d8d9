package storage

import (
	"fmt"
	"time"

	"github.com/Novip1906/tasks-notify/internal/models"
)

// SeedTasks builds perGuest pending tasks for every guest.
func SeedTasks(guests []models.Principal, perGuest int, createdAt time.Time) []models.Task {
	tasks := make([]models.Task, 0, len(guests)*perGuest)
	for _, g := range guests {
		for i := 1; i <= perGuest; i++ {
			tasks = append(tasks, models.Task{
				Id:          fmt.Sprintf("%s-task-%d", g.Id, i),
				OwnerId:     g.Id,
				Title:       fmt.Sprintf("Task %d", i),
				Description: fmt.Sprintf("Description for task %d", i),
				Status:      models.StatusPending,
				CreatedAt:   createdAt,
			})
		}
	}
	return tasks
}
