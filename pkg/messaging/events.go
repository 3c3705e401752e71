package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTransactionApplied  = "inventory.transaction.applied"
	EventTransactionOrphaned = "inventory.transaction.orphaned"
	EventProductProduced     = "inventory.product.produced"
	EventExportDistributed   = "inventory.export.distributed"
	EventInventoryImported   = "inventory.data.imported"
	EventInventoryReset      = "inventory.data.reset"
)

// ExchangeInventoryEvents is the topic exchange all inventory events go to
const ExchangeInventoryEvents = "inventory.events"

// Event is the envelope every published message uses
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// TransactionAppliedEvent is published for every transaction appended to the log
type TransactionAppliedEvent struct {
	TransactionID string    `json:"transaction_id"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Type          string    `json:"type"`
	Quantity      float64   `json:"quantity"`
	StockAfter    float64   `json:"stock_after"`
	Date          time.Time `json:"date"`
	PerformedBy   string    `json:"performed_by,omitempty"`
}

// TransactionOrphanedEvent is published when a transaction references no catalog item
type TransactionOrphanedEvent struct {
	TransactionID string  `json:"transaction_id"`
	ItemID        string  `json:"item_id"`
	Type          string  `json:"type"`
	Quantity      float64 `json:"quantity"`
}

// ProductProducedEvent is published after a production commit
type ProductProducedEvent struct {
	ProductID    string   `json:"product_id"`
	FormulaCode  string   `json:"formula_code"`
	FactoryCode  string   `json:"factory_code"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	SourceItems  []string `json:"source_items"`
	Transactions []string `json:"transactions"`
	PerformedBy  string   `json:"performed_by,omitempty"`
}

// ExportDistributedEvent is published after an export drained a product group
type ExportDistributedEvent struct {
	ItemCode     string   `json:"item_code"`
	FactoryCode  string   `json:"factory_code"`
	Quantity     float64  `json:"quantity"`
	Note         string   `json:"note"`
	Batches      []string `json:"batches"`
	RemainingQty float64  `json:"remaining_qty"`
	PerformedBy  string   `json:"performed_by,omitempty"`
}

// DataReplacedEvent is published when the whole store is imported or reset
type DataReplacedEvent struct {
	Items        int    `json:"items"`
	Transactions int    `json:"transactions"`
	PerformedBy  string `json:"performed_by,omitempty"`
}
