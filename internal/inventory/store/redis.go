package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each document under prefix+key
type RedisBackend struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
}

// NewRedisBackend connects to Redis and verifies the connection
func NewRedisBackend(ctx context.Context, cfg *config.RedisConfig, log *logger.Logger) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisBackendWithClient(client, cfg.Prefix, log), nil
}

// NewRedisBackendWithClient wraps an existing client
func NewRedisBackendWithClient(client *redis.Client, prefix string, log *logger.Logger) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, logger: log}
}

// Client exposes the underlying client so locks can share the connection
func (r *RedisBackend) Client() *redis.Client {
	return r.client
}

// Key returns the namespaced Redis key for k
func (r *RedisBackend) Key(k string) string {
	return r.prefix + k
}

// Get reads one document
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set writes every entry inside one MULTI/EXEC block
func (r *RedisBackend) Set(ctx context.Context, entries map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, r.Key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes keys
func (r *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.Key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Health pings Redis
func (r *RedisBackend) Health(ctx context.Context) map[string]string {
	status := map[string]string{"status": "up", "backend": "redis"}
	if err := r.client.Ping(ctx).Err(); err != nil {
		status["status"] = "down"
		status["error"] = err.Error()
	}
	return status
}

// Close closes the client
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
