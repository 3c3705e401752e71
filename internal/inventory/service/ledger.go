package service

import (
	"context"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementInput is a direct stock-in or stock-out against one item
type MovementInput struct {
	ItemID   string                 `json:"item_id" validate:"required"`
	Type     domain.TransactionType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity float64                `json:"quantity" validate:"gt=0"`
	Note     string                 `json:"note" validate:"max=500"`
}

// Apply validates tx and appends it to the ledger. Outbound movements may not
// exceed the item's stock. A transaction for an unknown item is recorded with
// the name "Unknown" and reported as orphaned rather than failing.
func (s *InventoryService) Apply(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if !tx.Type.Valid() {
		return domain.Transaction{}, errors.Validation(map[string]string{"type": "must be one of: IN OUT"})
	}
	if tx.Quantity <= 0 {
		return domain.Transaction{}, errors.Validation(map[string]string{"quantity": "must be greater than 0"})
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.Date.IsZero() {
		tx.Date = s.timestamp()
	}

	var (
		applied repository.Applied
		changed []domain.InventoryItem
	)
	err := s.repo.WithinUnitOfWork(ctx, func(u *repository.UnitOfWork) error {
		item, ok := u.Item(tx.ItemID)
		if tx.ItemName == "" {
			tx.ItemName = domain.UnknownItemName
			if ok {
				tx.ItemName = item.MaterialName
			}
		}
		if ok && tx.Type == domain.TransactionOut {
			if err := checkStock(item, tx.Quantity); err != nil {
				return err
			}
		}
		applied = u.Apply(tx)
		if current, ok := u.Item(tx.ItemID); ok {
			changed = append(changed, current)
		}
		s.refreshIndex(u, changed...)
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	if applied.Orphan {
		s.logger.Warn().
			Str("transaction_id", tx.ID).
			Str("item_id", tx.ItemID).
			Msg("transaction recorded for unknown item")
		s.publisher.PublishTransactionOrphaned(ctx, applied.Transaction)
	}
	s.publisher.PublishTransactionApplied(ctx, applied.Transaction, applied.StockAfter)

	return applied.Transaction, nil
}

// RecordMovement is the manual IN/OUT operation; the item must exist
func (s *InventoryService) RecordMovement(ctx context.Context, in MovementInput) (domain.Transaction, error) {
	if err := httputil.Validate(in); err != nil {
		return domain.Transaction{}, err
	}
	if _, err := s.GetItem(ctx, in.ItemID); err != nil {
		return domain.Transaction{}, err
	}

	tx, err := s.Apply(ctx, domain.Transaction{
		ItemID:   in.ItemID,
		Type:     in.Type,
		Quantity: in.Quantity,
		Note:     in.Note,
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	s.logger.Info().
		Str("transaction_id", tx.ID).
		Str("item_id", tx.ItemID).
		Str("type", string(tx.Type)).
		Float64("quantity", tx.Quantity).
		Msg("stock movement recorded")

	return tx, nil
}

// checkStock rejects drawing more than item holds
func checkStock(item domain.InventoryItem, qty float64) error {
	if decimal.NewFromFloat(qty).GreaterThan(decimal.NewFromFloat(item.StockIn)) {
		return errors.InsufficientStock(item.StockIn, qty, item.Unit)
	}
	return nil
}
