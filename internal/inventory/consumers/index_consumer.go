// Package consumers reacts to inventory events sent by other instances.
package consumers

import (
	"context"

	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/chemstock/chemstock-backend/pkg/messaging"
)

// IndexInvalidator drops cached read models
type IndexInvalidator interface {
	InvalidateProductIndex()
}

// IndexSyncConsumer invalidates the local product group index whenever
// another instance changes the shared store
type IndexSyncConsumer struct {
	consumer *messaging.Consumer
	index    IndexInvalidator
	source   string
	logger   *logger.Logger
}

// NewIndexSyncConsumer subscribes to every inventory event. Events whose
// source equals source were sent by this instance and are skipped.
func NewIndexSyncConsumer(rmq *messaging.RabbitMQ, source string, index IndexInvalidator, log *logger.Logger) (*IndexSyncConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeInventoryEvents, "inventory.#"); err != nil {
		return nil, err
	}

	c := newIndexSync(source, index, log)
	c.consumer = consumer

	for _, eventType := range []string{
		messaging.EventTransactionApplied,
		messaging.EventProductProduced,
		messaging.EventExportDistributed,
		messaging.EventInventoryImported,
		messaging.EventInventoryReset,
	} {
		consumer.RegisterHandler(eventType, c.Handle)
	}

	return c, nil
}

func newIndexSync(source string, index IndexInvalidator, log *logger.Logger) *IndexSyncConsumer {
	return &IndexSyncConsumer{
		index:  index,
		source: source,
		logger: log.WithComponent("index-sync"),
	}
}

// Start starts consuming messages
func (c *IndexSyncConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// Handle invalidates the index for events sent by other instances
func (c *IndexSyncConsumer) Handle(_ context.Context, event *messaging.Event) error {
	if event.Source == c.source {
		return nil
	}

	c.logger.Debug().
		Str("event_type", event.Type).
		Str("source", event.Source).
		Msg("remote change, invalidating product index")

	c.index.InvalidateProductIndex()
	return nil
}
