package events

import (
	"context"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/pkg/actor"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/chemstock/chemstock-backend/pkg/messaging"
)

// Sender is the part of messaging.Publisher the inventory publisher needs
type Sender interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// InventoryEventPublisher publishes ledger events. A nil publisher is valid and
// drops everything, which is how the service runs without a broker.
type InventoryEventPublisher struct {
	publisher Sender
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a publisher on the inventory exchange.
// source identifies this instance in every event it sends.
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, source string, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, source, log)
	if err != nil {
		return nil, err
	}
	return NewWithSender(publisher, log), nil
}

// NewWithSender wraps an existing sender
func NewWithSender(s Sender, log *logger.Logger) *InventoryEventPublisher {
	return &InventoryEventPublisher{
		publisher: s,
		logger:    log.WithComponent("events"),
	}
}

// PublishTransactionApplied publishes one appended transaction
func (p *InventoryEventPublisher) PublishTransactionApplied(ctx context.Context, tx domain.Transaction, stockAfter float64) {
	if p == nil {
		return
	}
	data := messaging.TransactionAppliedEvent{
		TransactionID: tx.ID,
		ItemID:        tx.ItemID,
		ItemName:      tx.ItemName,
		Type:          string(tx.Type),
		Quantity:      tx.Quantity,
		StockAfter:    stockAfter,
		Date:          tx.Date,
		PerformedBy:   actor.FromContext(ctx).ID(),
	}
	p.send(ctx, messaging.EventTransactionApplied, data, tx.ItemID)
}

// PublishTransactionOrphaned publishes a transaction whose item is not in the catalog
func (p *InventoryEventPublisher) PublishTransactionOrphaned(ctx context.Context, tx domain.Transaction) {
	if p == nil {
		return
	}
	data := messaging.TransactionOrphanedEvent{
		TransactionID: tx.ID,
		ItemID:        tx.ItemID,
		Type:          string(tx.Type),
		Quantity:      tx.Quantity,
	}
	p.send(ctx, messaging.EventTransactionOrphaned, data, tx.ItemID)
}

// PublishProductProduced publishes a committed production run
func (p *InventoryEventPublisher) PublishProductProduced(ctx context.Context, formula domain.Formula, product domain.InventoryItem, quantity float64, txs []domain.Transaction) {
	if p == nil {
		return
	}
	sources := make([]string, 0, len(txs))
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
		if tx.Type == domain.TransactionOut {
			sources = append(sources, tx.ItemID)
		}
	}
	data := messaging.ProductProducedEvent{
		ProductID:    product.ID,
		FormulaCode:  formula.Code,
		FactoryCode:  product.FactoryCode,
		Quantity:     quantity,
		Unit:         product.Unit,
		SourceItems:  sources,
		Transactions: ids,
		PerformedBy:  actor.FromContext(ctx).ID(),
	}
	p.send(ctx, messaging.EventProductProduced, data, product.ID)
}

// PublishExportDistributed publishes an export drained across product batches
func (p *InventoryEventPublisher) PublishExportDistributed(ctx context.Context, group domain.AggregatedGroup, quantity float64, note string, txs []domain.Transaction) {
	if p == nil {
		return
	}
	batches := make([]string, 0, len(txs))
	for _, tx := range txs {
		batches = append(batches, tx.ItemID)
	}
	data := messaging.ExportDistributedEvent{
		ItemCode:     group.ItemCode,
		FactoryCode:  group.FactoryCode,
		Quantity:     quantity,
		Note:         note,
		Batches:      batches,
		RemainingQty: group.StockIn,
		PerformedBy:  actor.FromContext(ctx).ID(),
	}
	p.send(ctx, messaging.EventExportDistributed, data, group.GroupKey())
}

// PublishDataReplaced publishes an import (eventType EventInventoryImported) or a reset
func (p *InventoryEventPublisher) PublishDataReplaced(ctx context.Context, eventType string, items, transactions int) {
	if p == nil {
		return
	}
	data := messaging.DataReplacedEvent{
		Items:        items,
		Transactions: transactions,
		PerformedBy:  actor.FromContext(ctx).ID(),
	}
	p.send(ctx, eventType, data, "")
}

func (p *InventoryEventPublisher) send(ctx context.Context, eventType string, data interface{}, subject string) {
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).
			Str("event_type", eventType).
			Str("subject", subject).
			Msg("failed to publish inventory event")
	}
}
