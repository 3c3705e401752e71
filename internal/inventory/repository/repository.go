package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

// Repository owns the persisted catalog, transaction log and session user.
// All writes to the catalog and log go through a unit of work so the two
// documents never diverge.
type Repository struct {
	backend store.Backend
	locker  Locker
	seed    bool
	logger  *logger.Logger
}

// Option configures a Repository
type Option func(*Repository)

// WithSeeding makes Reset restore the starter catalog
func WithSeeding(enabled bool) Option {
	return func(r *Repository) { r.seed = enabled }
}

// New creates a repository on backend. A nil locker falls back to a process-local one.
func New(backend store.Backend, locker Locker, log *logger.Logger, opts ...Option) *Repository {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Repository{
		backend: backend,
		locker:  locker,
		logger:  log.WithComponent("repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backend returns the underlying store
func (r *Repository) Backend() store.Backend {
	return r.backend
}

// GetItems returns the catalog in insertion order; an absent document is an empty catalog
func (r *Repository) GetItems(ctx context.Context) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	if err := r.load(ctx, store.KeyItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetTransactions returns the log in append order
func (r *Repository) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	if err := r.load(ctx, store.KeyTransactions, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// AddItem appends one record to the catalog
func (r *Repository) AddItem(ctx context.Context, item domain.InventoryItem) error {
	return r.WithinUnitOfWork(ctx, func(u *UnitOfWork) error {
		return u.AddItem(item)
	})
}

// AddTransaction appends tx to the log and moves the referenced item's stock.
// No bounds check is made here; callers that must keep stock non-negative use
// the ledger service. A transaction for an unknown item is still appended and
// reported through Applied.Orphan.
func (r *Repository) AddTransaction(ctx context.Context, tx domain.Transaction) (Applied, error) {
	var applied Applied
	err := r.WithinUnitOfWork(ctx, func(u *UnitOfWork) error {
		applied = u.Apply(tx)
		return nil
	})
	if err != nil {
		return Applied{}, err
	}
	if applied.Orphan {
		r.logger.Warn().
			Str("transaction_id", tx.ID).
			Str("item_id", tx.ItemID).
			Msg("transaction references unknown item")
	}
	return applied, nil
}

// GetUser returns the logged-in employee, or nil when nobody is logged in
func (r *Repository) GetUser(ctx context.Context) (*domain.User, error) {
	raw, err := r.backend.Get(ctx, store.KeyUser)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode %s: %w", store.KeyUser, err)
	}
	return &u, nil
}

// SaveUser stores the logged-in employee
func (r *Repository) SaveUser(ctx context.Context, u domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.backend.Set(ctx, map[string][]byte{store.KeyUser: raw})
}

// ClearUser logs the current employee out
func (r *Repository) ClearUser(ctx context.Context) error {
	return r.backend.Delete(ctx, store.KeyUser)
}

// Seed writes the starter catalog and an empty log when they are absent
func (r *Repository) Seed(ctx context.Context) error {
	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	entries := make(map[string][]byte)

	if _, err := r.backend.Get(ctx, store.KeyItems); errors.Is(err, store.ErrNotFound) {
		raw, err := json.Marshal(domain.SeedItems())
		if err != nil {
			return err
		}
		entries[store.KeyItems] = raw
	} else if err != nil {
		return err
	}

	if _, err := r.backend.Get(ctx, store.KeyTransactions); errors.Is(err, store.ErrNotFound) {
		entries[store.KeyTransactions] = []byte("[]")
	} else if err != nil {
		return err
	}

	if len(entries) == 0 {
		return nil
	}

	r.logger.Info().Int("documents", len(entries)).Msg("seeding inventory store")
	return r.backend.Set(ctx, entries)
}

// Reset wipes catalog and log, reseeding when seeding is enabled
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.withLock(ctx, func() error {
		return r.backend.Delete(ctx, store.KeyItems, store.KeyTransactions)
	}); err != nil {
		return err
	}

	r.logger.Warn().Bool("reseed", r.seed).Msg("inventory store reset")

	if r.seed {
		return r.Seed(ctx)
	}
	return nil
}

func (r *Repository) withLock(ctx context.Context, fn func() error) error {
	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (r *Repository) load(ctx context.Context, key string, v interface{}) error {
	raw, err := r.backend.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
