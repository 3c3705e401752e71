package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/chemstock/chemstock-backend/pkg/database"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT kv_entries_key_not_empty CHECK (key <> '')
)`

const upsertQuery = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2::jsonb, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

// PostgresBackend stores documents in the kv_entries table
type PostgresBackend struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPostgresBackend creates a backend on an open connection
func NewPostgresBackend(db *database.DB, log *logger.Logger) *PostgresBackend {
	return &PostgresBackend{db: db, logger: log}
}

// Migrate creates the kv_entries table if needed
func (p *PostgresBackend) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return nil
}

// Get reads one document
func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.GetContext(ctx, &value, `SELECT value FROM kv_entries WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, p.mapError(err)
	}
	return value, nil
}

// Set upserts all entries inside a single SQL transaction
func (p *PostgresBackend) Set(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return p.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, upsertQuery, k, string(entries[k])); err != nil {
				return p.mapError(err)
			}
		}
		return nil
	})
}

// Delete removes keys
func (p *PostgresBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := p.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ANY($1)`, pq.Array(keys)); err != nil {
		return p.mapError(err)
	}
	return nil
}

// Health pings the database
func (p *PostgresBackend) Health(ctx context.Context) map[string]string {
	status := p.db.Health(ctx)
	status["backend"] = "postgres"
	return status
}

// Close closes the connection pool
func (p *PostgresBackend) Close() error {
	return p.db.Close()
}

func (p *PostgresBackend) mapError(err error) error {
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}
