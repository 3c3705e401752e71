package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/i18n"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionRequest turns source materials into a new product batch.
// A nil Destination means the formula's own warehouse.
type ProductionRequest struct {
	FormulaID   string                   `json:"formula_id"`
	Sources     []domain.SourceSelection `json:"sources" validate:"dive"`
	Adjustment  float64                  `json:"adjustment"`
	Destination *string                  `json:"destination"`
}

// ProductionPreview is what the operator confirms before committing
type ProductionPreview struct {
	Formula     domain.Formula `json:"formula"`
	Quantity    float64        `json:"quantity"`
	Unit        string         `json:"unit"`
	ProductName string         `json:"product_name"`
	Destination string         `json:"destination"`
	SourceCount int            `json:"source_count"`
	Summary     string         `json:"summary"`
}

// ProductionResult describes a committed run
type ProductionResult struct {
	Product      domain.InventoryItem `json:"product"`
	Quantity     float64              `json:"quantity"`
	Unit         string               `json:"unit"`
	Transactions []domain.Transaction `json:"transactions"`
}

// FinalOutput is the produced quantity: the source total plus the
// adjustment, floored at zero
func FinalOutput(sources []domain.SourceSelection, adjustment float64) float64 {
	total := decimal.NewFromFloat(adjustment)
	for _, src := range sources {
		total = total.Add(decimal.NewFromFloat(src.Quantity))
	}
	if total.IsNegative() {
		return 0
	}
	return total.InexactFloat64()
}

// ValidateSource checks one selection against the current catalog
func (s *InventoryService) ValidateSource(ctx context.Context, sel domain.SourceSelection) (domain.InventoryItem, error) {
	if err := httputil.Validate(sel); err != nil {
		return domain.InventoryItem{}, err
	}
	item, err := s.GetItem(ctx, sel.ItemID)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if err := checkSource(item, sel.Quantity); err != nil {
		return domain.InventoryItem{}, err
	}
	return item, nil
}

// Preview validates req and returns the confirmation summary
func (s *InventoryService) Preview(ctx context.Context, req ProductionRequest) (*ProductionPreview, error) {
	formula, destination, qty, err := s.validateProduction(req)
	if err != nil {
		return nil, err
	}
	return &ProductionPreview{
		Formula:     formula,
		Quantity:    qty,
		Unit:        formula.Unit,
		ProductName: formula.Name,
		Destination: destination,
		SourceCount: len(req.Sources),
		Summary: i18n.TFromContext(ctx, "production.confirm", map[string]string{
			"qty":  formatQty(qty),
			"unit": formula.Unit,
			"name": formula.Name,
		}),
	}, nil
}

// Produce commits a production run: one OUT per source in request order, a
// new PRODUCT batch in the destination warehouse, and one IN for the output.
// Sources are checked again against the stock held at commit time, counting
// earlier selections of the same item. Either every write lands or none does.
func (s *InventoryService) Produce(ctx context.Context, req ProductionRequest) (*ProductionResult, error) {
	formula, destination, qty, err := s.validateProduction(req)
	if err != nil {
		return nil, err
	}

	at := s.timestamp()
	product := domain.InventoryItem{
		ID:           uuid.New().String(),
		MaterialName: formula.Name,
		ColorCode:    formula.ColorCode,
		ColorName:    formula.Color,
		ItemCode:     formula.Code,
		Unit:         formula.Unit,
		RequiredQty:  0,
		StockIn:      0,
		FactoryCode:  destination,
		Type:         domain.ItemTypeProduct,
	}

	var (
		applied []repository.Applied
		changed []domain.InventoryItem
	)
	err = s.repo.WithinUnitOfWork(ctx, func(u *repository.UnitOfWork) error {
		for _, src := range req.Sources {
			item, ok := u.Item(src.ItemID)
			if !ok {
				return errors.NotFound("item")
			}
			if err := checkSource(item, src.Quantity); err != nil {
				return err
			}
			applied = append(applied, u.Apply(domain.Transaction{
				ID:       uuid.New().String(),
				ItemID:   item.ID,
				ItemName: item.MaterialName,
				Type:     domain.TransactionOut,
				Quantity: src.Quantity,
				Date:     at,
				Note:     fmt.Sprintf("Used for producing: %s", formula.Code),
			}))
		}

		if err := u.AddItem(product); err != nil {
			return err
		}

		applied = append(applied, u.Apply(domain.Transaction{
			ID:       uuid.New().String(),
			ItemID:   product.ID,
			ItemName: product.MaterialName,
			Type:     domain.TransactionIn,
			Quantity: qty,
			Date:     at,
			Note:     fmt.Sprintf("Produced from %d sources. Adj: %skg", len(req.Sources), formatQty(req.Adjustment)),
		}))

		product, _ = u.Item(product.ID)
		changed = append(changed, product)
		for _, src := range req.Sources {
			if item, ok := u.Item(src.ItemID); ok {
				changed = append(changed, item)
			}
		}
		s.refreshIndex(u, changed...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("formula", formula.Code).
		Str("factory", destination).
		Float64("quantity", qty).
		Int("sources", len(req.Sources)).
		Msg("production committed")

	txs := make([]domain.Transaction, 0, len(applied))
	for _, a := range applied {
		txs = append(txs, a.Transaction)
		s.publisher.PublishTransactionApplied(ctx, a.Transaction, a.StockAfter)
	}
	s.publisher.PublishProductProduced(ctx, formula, product, qty, txs)

	return &ProductionResult{
		Product:      product,
		Quantity:     qty,
		Unit:         formula.Unit,
		Transactions: txs,
	}, nil
}

// validateProduction applies the checks in the order the operator sees them:
// missing input, then output, then destination
func (s *InventoryService) validateProduction(req ProductionRequest) (domain.Formula, string, float64, error) {
	formula, ok := s.formulas.Find(req.FormulaID)
	if !ok || len(req.Sources) == 0 {
		return domain.Formula{}, "", 0, errors.MissingInput()
	}
	if err := httputil.Validate(req); err != nil {
		return domain.Formula{}, "", 0, err
	}

	qty := FinalOutput(req.Sources, req.Adjustment)
	if qty <= 0 {
		return domain.Formula{}, "", 0, errors.InvalidOutput(qty)
	}

	destination := formula.Factory
	if req.Destination != nil {
		destination = *req.Destination
	}
	if destination == "" {
		return domain.Formula{}, "", 0, errors.MissingDestination()
	}

	return formula, destination, qty, nil
}

func checkSource(item domain.InventoryItem, qty float64) error {
	if item.IsProduct() {
		appErr := errors.BadRequest("only materials can be used as production sources")
		appErr.MessageKey = "errors.not_material"
		return appErr
	}
	if qty <= 0 {
		return errors.Validation(map[string]string{"quantity": "must be greater than 0"})
	}
	return checkStock(item, qty)
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
