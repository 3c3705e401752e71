// Package store provides the key-value backends the inventory documents are
// persisted in.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/database"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

// Document keys
const (
	KeyItems        = "inventory_items"
	KeyTransactions = "inventory_transactions"
	KeyUser         = "inventory_user"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("store: key not found")

// Backend is a small key-value store holding whole JSON documents.
// Set must apply all entries or none of them.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Health(ctx context.Context) map[string]string
	Close() error
}

// Open builds the backend selected by cfg.Storage.Backend
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory, "":
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return NewMemoryBackend(), nil

	case config.BackendPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		pg := NewPostgresBackend(db, log)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info().Str("target", cfg.Database.RedactedURL()).Msg("connected to postgres storage")
		return pg, nil

	case config.BackendRedis:
		rb, err := NewRedisBackend(ctx, &cfg.Storage.Redis, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Storage.Redis.Addr).Msg("connected to redis storage")
		return rb, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
