package service

import (
	"context"
	"fmt"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExportRequest ships quantity of a product group out of its warehouse
type ExportRequest struct {
	ItemCode    string  `json:"item_code" validate:"required"`
	FactoryCode string  `json:"factory_code"`
	Quantity    float64 `json:"quantity"`
	Note        string  `json:"note" validate:"max=500"`
}

// ExportResult carries the emitted transactions and the group as it stands afterwards
type ExportResult struct {
	Transactions []domain.Transaction   `json:"transactions"`
	Group        domain.AggregatedGroup `json:"group"`
}

// Draw is the amount taken from one batch
type Draw struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// PlanDistribution drains batches in the order given until qty is covered.
// Batches without stock are skipped; the plan falls short when the batches
// hold less than qty.
func PlanDistribution(batches []domain.InventoryItem, qty float64) []Draw {
	remaining := decimal.NewFromFloat(qty)
	var draws []Draw
	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		available := decimal.NewFromFloat(b.StockIn)
		if !available.IsPositive() {
			continue
		}
		deduct := decimal.Min(available, remaining)
		draws = append(draws, Draw{ItemID: b.ID, Quantity: deduct.InexactFloat64()})
		remaining = remaining.Sub(deduct)
	}
	return draws
}

// ExportFromGroup ships req.Quantity out of a product group, one OUT per batch
// drawn. The group is resolved and checked against the committed catalog
// while the repository lock is held.
func (s *InventoryService) ExportFromGroup(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if req.ItemCode == "" {
		return nil, errors.Validation(map[string]string{"item_code": "this field is required"})
	}

	at := s.timestamp()
	var (
		applied []repository.Applied
		changed []domain.InventoryItem
		after   domain.AggregatedGroup
	)
	err := s.repo.WithinUnitOfWork(ctx, func(u *repository.UnitOfWork) error {
		group, ok := findGroup(u.Items(), req.ItemCode, req.FactoryCode)
		if !ok {
			return errors.NotFound("product group")
		}
		if req.Quantity <= 0 || decimal.NewFromFloat(req.Quantity).GreaterThan(decimal.NewFromFloat(group.StockIn)) {
			return errors.InsufficientStock(group.StockIn, req.Quantity, group.Unit)
		}

		for _, d := range PlanDistribution(group.SubItems, req.Quantity) {
			item, _ := u.Item(d.ItemID)
			applied = append(applied, u.Apply(domain.Transaction{
				ID:       uuid.New().String(),
				ItemID:   item.ID,
				ItemName: item.MaterialName,
				Type:     domain.TransactionOut,
				Quantity: d.Quantity,
				Date:     at,
				Note:     fmt.Sprintf("EXPORT DISTRIBUTED: %s (Batch ID: %s...)", req.Note, shortID(item.ID)),
			}))
			item, _ = u.Item(d.ItemID)
			changed = append(changed, item)
		}

		after, _ = findGroup(u.Items(), req.ItemCode, req.FactoryCode)
		s.refreshIndex(u, changed...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(applied))
	for _, a := range applied {
		txs = append(txs, a.Transaction)
		s.publisher.PublishTransactionApplied(ctx, a.Transaction, a.StockAfter)
	}

	s.logger.Info().
		Str("item_code", req.ItemCode).
		Str("factory", req.FactoryCode).
		Float64("quantity", req.Quantity).
		Int("batches", len(txs)).
		Msg("export distributed")

	s.publisher.PublishExportDistributed(ctx, after, req.Quantity, req.Note, txs)

	return &ExportResult{Transactions: txs, Group: after}, nil
}

func findGroup(items []domain.InventoryItem, itemCode, factoryCode string) (domain.AggregatedGroup, bool) {
	key := domain.GroupKey(itemCode, factoryCode)
	for _, g := range GroupProducts(items) {
		if g.GroupKey() == key {
			return g, true
		}
	}
	return domain.AggregatedGroup{}, false
}

func shortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[:4]
}
