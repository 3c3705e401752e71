// Package domain holds the inventory records shared by the store, the
// repository and the services. JSON names match the persisted documents.
package domain

import "time"

// ItemType classifies a catalog entry
type ItemType string

const (
	ItemTypeMaterial ItemType = "MATERIAL"
	ItemTypeProduct  ItemType = "PRODUCT"
)

// TransactionType is the direction of a stock movement
type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Valid reports whether t is IN or OUT
func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

// UnknownItemName is recorded for transactions whose item is not in the catalog
const UnknownItemName = "Unknown"

// InventoryItem is one physical batch of a material or product in one warehouse.
// Several items may share an ItemCode.
type InventoryItem struct {
	ID           string   `json:"id"`
	MaterialName string   `json:"materialName"`
	ColorCode    string   `json:"colorCode"`
	ColorName    string   `json:"colorName"`
	ItemCode     string   `json:"itemCode"`
	Unit         string   `json:"unit"`
	RequiredQty  float64  `json:"requiredQty"`
	StockIn      float64  `json:"stockIn"`
	FactoryCode  string   `json:"factoryCode"`
	Location     string   `json:"location,omitempty"`
	Type         ItemType `json:"type,omitempty"`
}

// EffectiveType treats an absent type as MATERIAL
func (i *InventoryItem) EffectiveType() ItemType {
	if i.Type == "" {
		return ItemTypeMaterial
	}
	return i.Type
}

// IsProduct reports whether the item was created by production
func (i *InventoryItem) IsProduct() bool {
	return i.EffectiveType() == ItemTypeProduct
}

// GroupKey is the aggregation key of a product batch
func (i *InventoryItem) GroupKey() string {
	return GroupKey(i.ItemCode, i.FactoryCode)
}

// GroupKey joins item code and factory code the way product groups are keyed
func GroupKey(itemCode, factoryCode string) string {
	return itemCode + "_" + factoryCode
}

// Transaction is an append-only stock movement. Quantity is always positive;
// Type carries the direction.
type Transaction struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"itemId"`
	ItemName string          `json:"itemName"`
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Date     time.Time       `json:"date"`
	Note     string          `json:"note"`
}

// Signed returns the quantity with its direction applied
func (t *Transaction) Signed() float64 {
	if t.Type == TransactionOut {
		return -t.Quantity
	}
	return t.Quantity
}

// SourceSelection is one material batch drawn into a production run
type SourceSelection struct {
	ItemID   string  `json:"item_id" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
}

// AggregatedGroup is the derived view of all PRODUCT batches sharing item code
// and warehouse. StockIn is the sum over members, SubItems are the members
// still holding stock in catalog order, BatchCount counts every member.
type AggregatedGroup struct {
	InventoryItem
	SubItems   []InventoryItem `json:"subItems"`
	BatchCount int             `json:"batchCount"`
}
