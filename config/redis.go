package config

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis opens the listing cache. The service runs without it; the
// caller decides whether a failed ping is fatal.
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return client, nil
}
