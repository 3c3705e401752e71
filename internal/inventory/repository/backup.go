package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/errors"
)

// Backup is the whole-store document produced by ExportData
type Backup struct {
	Items        []domain.InventoryItem `json:"items"`
	Transactions []domain.Transaction   `json:"transactions"`
	User         *domain.User           `json:"user"`
	ExportDate   time.Time              `json:"exportDate"`
}

// backupShape is decoded first so missing arrays can be told apart from empty ones
type backupShape struct {
	Items        *json.RawMessage `json:"items"`
	Transactions *json.RawMessage `json:"transactions"`
}

// ExportData serialises catalog, log and session user
func (r *Repository) ExportData(ctx context.Context) ([]byte, error) {
	var doc Backup
	err := r.withLock(ctx, func() error {
		var err error
		if doc.Items, err = r.GetItems(ctx); err != nil {
			return err
		}
		if doc.Transactions, err = r.GetTransactions(ctx); err != nil {
			return err
		}
		doc.User, err = r.GetUser(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	doc.ExportDate = time.Now().UTC()
	return json.MarshalIndent(doc, "", "  ")
}

// ImportData replaces catalog and log with the contents of a backup document.
// The document is fully decoded before anything is written; the session user
// is left untouched.
func (r *Repository) ImportData(ctx context.Context, raw []byte) (*Backup, error) {
	var shape backupShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, invalidBackup("document is not valid JSON")
	}
	if shape.Items == nil || shape.Transactions == nil {
		return nil, invalidBackup("items and transactions are required")
	}

	var doc Backup
	if err := json.Unmarshal(*shape.Items, &doc.Items); err != nil || doc.Items == nil {
		return nil, invalidBackup("items must be an array of inventory items")
	}
	if err := json.Unmarshal(*shape.Transactions, &doc.Transactions); err != nil || doc.Transactions == nil {
		return nil, invalidBackup("transactions must be an array of transactions")
	}

	rawItems, err := json.Marshal(doc.Items)
	if err != nil {
		return nil, err
	}
	rawTxs, err := json.Marshal(doc.Transactions)
	if err != nil {
		return nil, err
	}

	err = r.withLock(ctx, func() error {
		return r.backend.Set(ctx, map[string][]byte{
			store.KeyItems:        rawItems,
			store.KeyTransactions: rawTxs,
		})
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Int("items", len(doc.Items)).
		Int("transactions", len(doc.Transactions)).
		Msg("inventory data imported")

	return &doc, nil
}

func invalidBackup(reason string) *errors.AppError {
	appErr := errors.BadRequest("invalid backup: " + reason)
	appErr.MessageKey = "errors.invalid_backup"
	return appErr
}
