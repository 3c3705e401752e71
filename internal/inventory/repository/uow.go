package repository

import (
	"context"
	"encoding/json"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Applied reports the outcome of appending one transaction
type Applied struct {
	Transaction domain.Transaction `json:"transaction"`
	// Orphan is set when no catalog item carries the transaction's item id
	Orphan     bool    `json:"orphan"`
	StockAfter float64 `json:"stock_after"`
}

// UnitOfWork is an in-memory working copy of the catalog and log.
// Changes become visible only if the surrounding WithinUnitOfWork commits.
type UnitOfWork struct {
	items []domain.InventoryItem
	txs   []domain.Transaction
	index map[string]int
	dirty bool
	// run after a successful write, before the lock is released
	onCommit []func()
}

func newUnitOfWork(items []domain.InventoryItem, txs []domain.Transaction) *UnitOfWork {
	u := &UnitOfWork{items: items, txs: txs, index: make(map[string]int, len(items))}
	for i, it := range items {
		// first occurrence wins, matching a linear search
		if _, ok := u.index[it.ID]; !ok {
			u.index[it.ID] = i
		}
	}
	return u
}

// Items returns a copy of the working catalog
func (u *UnitOfWork) Items() []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(u.items))
	copy(out, u.items)
	return out
}

// Item looks one record up by id
func (u *UnitOfWork) Item(id string) (domain.InventoryItem, bool) {
	i, ok := u.index[id]
	if !ok {
		return domain.InventoryItem{}, false
	}
	return u.items[i], true
}

// Transactions returns a copy of the working log
func (u *UnitOfWork) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, len(u.txs))
	copy(out, u.txs)
	return out
}

// OnCommit registers fn to run once the working copy has been written.
// Hooks run in registration order while the repository lock is still held,
// so they observe commits in the order they were made.
func (u *UnitOfWork) OnCommit(fn func()) {
	u.onCommit = append(u.onCommit, fn)
}

// AddItem appends a record; ids must be unique
func (u *UnitOfWork) AddItem(item domain.InventoryItem) error {
	if item.ID == "" {
		return errors.Validation(map[string]string{"id": "this field is required"})
	}
	if _, exists := u.index[item.ID]; exists {
		return errors.Conflict("an item with id " + item.ID + " already exists")
	}
	u.index[item.ID] = len(u.items)
	u.items = append(u.items, item)
	u.dirty = true
	return nil
}

// Apply appends tx and moves stock of the referenced item: IN adds, OUT subtracts.
// Stock is not bounds-checked.
func (u *UnitOfWork) Apply(tx domain.Transaction) Applied {
	u.txs = append(u.txs, tx)
	u.dirty = true

	i, ok := u.index[tx.ItemID]
	if !ok {
		return Applied{Transaction: tx, Orphan: true}
	}

	stock := decimal.NewFromFloat(u.items[i].StockIn).Add(decimal.NewFromFloat(tx.Signed()))
	u.items[i].StockIn = stock.InexactFloat64()

	return Applied{Transaction: tx, StockAfter: u.items[i].StockIn}
}

// WithinUnitOfWork runs fn against a working copy of the catalog and log while
// holding the repository lock. When fn returns nil both documents are written
// in one backend Set; otherwise nothing is written.
func (r *Repository) WithinUnitOfWork(ctx context.Context, fn func(*UnitOfWork) error) error {
	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	items, err := r.GetItems(ctx)
	if err != nil {
		return err
	}
	txs, err := r.GetTransactions(ctx)
	if err != nil {
		return err
	}

	u := newUnitOfWork(items, txs)
	if err := fn(u); err != nil {
		return err
	}
	if !u.dirty {
		return nil
	}

	rawItems, err := json.Marshal(u.items)
	if err != nil {
		return err
	}
	rawTxs, err := json.Marshal(u.txs)
	if err != nil {
		return err
	}

	if err := r.backend.Set(ctx, map[string][]byte{
		store.KeyItems:        rawItems,
		store.KeyTransactions: rawTxs,
	}); err != nil {
		return err
	}

	for _, hook := range u.onCommit {
		hook()
	}
	return nil
}
