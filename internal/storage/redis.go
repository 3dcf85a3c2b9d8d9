package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/redis/go-redis/v9"
)

var subscriberPrefix = "subscriber:"

// RedisStorage keeps the subscriber directory of the notification worker.
type RedisStorage struct {
	client *redis.Client
}

func NewRedisStorage(ctx context.Context, addr, password string, db int, log *slog.Logger) (*RedisStorage, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cannot connect to redis: %w", err)
	}
	log.Info("Connected to Redis successfully")

	return &RedisStorage{client: rdb}, nil
}

func (r *RedisStorage) UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error {
	data, err := json.Marshal(profile.Data)
	if err != nil {
		return fmt.Errorf("marshal subscriber data: %w", err)
	}

	return r.client.HSet(ctx, subscriberPrefix+subscriberId, map[string]interface{}{
		"email":      profile.Email,
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"data":       data,
	}).Err()
}

func (r *RedisStorage) GetSubscriber(ctx context.Context, subscriberId string) (models.SubscriberProfile, error) {
	res, err := r.client.HGetAll(ctx, subscriberPrefix+subscriberId).Result()
	if err != nil {
		return models.SubscriberProfile{}, err
	}

	if len(res) == 0 {
		return models.SubscriberProfile{}, ErrSubscriberNotFound
	}

	profile := models.SubscriberProfile{
		Email:     res["email"],
		FirstName: res["first_name"],
		LastName:  res["last_name"],
	}
	if raw := res["data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile.Data); err != nil {
			return models.SubscriberProfile{}, fmt.Errorf("subscriber data parse error: %w", err)
		}
	}

	return profile, nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
