package registry

import "github.com/Novip1906/tasks-notify/internal/models"

func DefaultSeed() []Seed {
	return []Seed{
		{
			Id:           "admin-001",
			Username:     "admin",
			Secret:       "admin123",
			Role:         models.RoleAdmin,
			Email:        "admin@example.com",
			SubscriberId: "admin-001",
		},
		{
			Id:           "user-001",
			Username:     "user1",
			Secret:       "user123",
			Role:         models.RoleGuest,
			Email:        "user1@example.com",
			SubscriberId: "user-001",
		},
		{
			Id:           "user-002",
			Username:     "user2",
			Secret:       "user123",
			Role:         models.RoleGuest,
			Email:        "user2@example.com",
			SubscriberId: "user-002",
		},
		{
			Id:           "user-003",
			Username:     "user3",
			Secret:       "user123",
			Role:         models.RoleGuest,
			Email:        "user3@example.com",
			SubscriberId: "user-003",
		},
	}
}
