package service

import (
	"context"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/google/uuid"
)

// CreateItemInput adds a batch to the catalog. Stock starts at StockIn
// without a ledger entry, the way seeded records do.
type CreateItemInput struct {
	ID           string          `json:"id"`
	MaterialName string          `json:"materialName" validate:"required,max=500"`
	ColorCode    string          `json:"colorCode"`
	ColorName    string          `json:"colorName"`
	ItemCode     string          `json:"itemCode" validate:"required,max=100"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	RequiredQty  float64         `json:"requiredQty" validate:"gte=0"`
	StockIn      float64         `json:"stockIn" validate:"gte=0"`
	FactoryCode  string          `json:"factoryCode" validate:"required"`
	Location     string          `json:"location"`
	Type         domain.ItemType `json:"type" validate:"omitempty,oneof=MATERIAL PRODUCT"`
}

// CreateItem appends a record to the catalog
func (s *InventoryService) CreateItem(ctx context.Context, in CreateItemInput) (domain.InventoryItem, error) {
	if err := httputil.Validate(in); err != nil {
		return domain.InventoryItem{}, err
	}

	item := domain.InventoryItem{
		ID:           in.ID,
		MaterialName: in.MaterialName,
		ColorCode:    in.ColorCode,
		ColorName:    in.ColorName,
		ItemCode:     in.ItemCode,
		Unit:         in.Unit,
		RequiredQty:  in.RequiredQty,
		StockIn:      in.StockIn,
		FactoryCode:  in.FactoryCode,
		Location:     in.Location,
		Type:         in.Type,
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Type == "" {
		item.Type = domain.ItemTypeMaterial
	}

	err := s.repo.WithinUnitOfWork(ctx, func(u *repository.UnitOfWork) error {
		if err := u.AddItem(item); err != nil {
			return err
		}
		s.refreshIndex(u, item)
		return nil
	})
	if err != nil {
		return domain.InventoryItem{}, err
	}

	s.logger.Info().
		Str("item_id", item.ID).
		Str("item_code", item.ItemCode).
		Str("factory", item.FactoryCode).
		Msg("catalog item created")

	return item, nil
}
