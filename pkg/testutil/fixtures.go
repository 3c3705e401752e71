package testutil

import (
	"fmt"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/google/uuid"
)

// FixtureFactory creates catalog records with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{}
}

func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// ItemOption customises a fixture item
type ItemOption func(*domain.InventoryItem)

// Material returns a MATERIAL batch in warehouse 514G
func (f *FixtureFactory) Material(opts ...ItemOption) domain.InventoryItem {
	seq := f.nextSeq()
	item := domain.InventoryItem{
		ID:           fmt.Sprintf("mat-%d", seq),
		MaterialName: fmt.Sprintf("Test Material %d", seq),
		ColorCode:    "00A",
		ColorName:    "BLACK(00A)",
		ItemCode:     fmt.Sprintf("MAT-%03d", seq),
		Unit:         "KG",
		RequiredQty:  10,
		StockIn:      10,
		FactoryCode:  domain.DefaultFactory,
		Type:         domain.ItemTypeMaterial,
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// Product returns a PRODUCT batch; use WithCode/WithFactory to place it in a group
func (f *FixtureFactory) Product(opts ...ItemOption) domain.InventoryItem {
	seq := f.nextSeq()
	item := domain.InventoryItem{
		ID:           uuid.NewString(),
		MaterialName: fmt.Sprintf("Test Product %d", seq),
		ColorCode:    "BLU",
		ColorName:    "Blue",
		ItemCode:     "MST-CHM-001",
		Unit:         "L",
		FactoryCode:  "KHO-A",
		Type:         domain.ItemTypeProduct,
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// WithID sets the item id
func WithID(id string) ItemOption {
	return func(i *domain.InventoryItem) { i.ID = id }
}

// WithStock sets the current stock
func WithStock(qty float64) ItemOption {
	return func(i *domain.InventoryItem) { i.StockIn = qty }
}

// WithCode sets the item code
func WithCode(code string) ItemOption {
	return func(i *domain.InventoryItem) { i.ItemCode = code }
}

// WithFactory sets the warehouse
func WithFactory(factory string) ItemOption {
	return func(i *domain.InventoryItem) { i.FactoryCode = factory }
}

// WithUnit sets the unit
func WithUnit(unit string) ItemOption {
	return func(i *domain.InventoryItem) { i.Unit = unit }
}

// WithName sets the material name
func WithName(name string) ItemOption {
	return func(i *domain.InventoryItem) { i.MaterialName = name }
}

// Transaction returns a movement against item dated at
func (f *FixtureFactory) Transaction(item domain.InventoryItem, typ domain.TransactionType, qty float64, at time.Time) domain.Transaction {
	return domain.Transaction{
		ID:       fmt.Sprintf("tx-%d", f.nextSeq()),
		ItemID:   item.ID,
		ItemName: item.MaterialName,
		Type:     typ,
		Quantity: qty,
		Date:     at.UTC(),
		Note:     "fixture",
	}
}

// Employee returns a directory profile
func (f *FixtureFactory) Employee(empID, name string) domain.User {
	return domain.User{
		ServiceID: "VJ",
		Company:   "VJ",
		EmpID:     empID,
		EmpName:   name,
		NameEng:   name,
		Dept:      "QC",
		DeptName:  "Quality Control",
	}
}
