package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/pkg/actor"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/chemstock/chemstock-backend/pkg/messaging"
	"github.com/chemstock/chemstock-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilPublisherIsSafe(t *testing.T) {
	var p *InventoryEventPublisher
	assert.NotPanics(t, func() {
		p.PublishTransactionApplied(context.Background(), domain.Transaction{}, 0)
		p.PublishTransactionOrphaned(context.Background(), domain.Transaction{})
		p.PublishProductProduced(context.Background(), domain.Formula{}, domain.InventoryItem{}, 0, nil)
		p.PublishExportDistributed(context.Background(), domain.AggregatedGroup{}, 0, "", nil)
		p.PublishDataReplaced(context.Background(), messaging.EventInventoryReset, 0, 0)
	})
}

func TestPublishTransactionApplied(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := NewWithSender(mock, logger.Nop())

	ctx := actor.WithActor(context.Background(), &actor.Actor{EmpID: "E7"})
	tx := domain.Transaction{ID: "t1", ItemID: "1", ItemName: "thread", Type: domain.TransactionOut, Quantity: 2, Date: time.Now()}
	p.PublishTransactionApplied(ctx, tx, 16)

	events := mock.Events(messaging.EventTransactionApplied)
	require.Len(t, events, 1)
	data := events[0].Payload.(messaging.TransactionAppliedEvent)
	assert.Equal(t, "t1", data.TransactionID)
	assert.Equal(t, "OUT", data.Type)
	assert.Equal(t, 16.0, data.StockAfter)
	assert.Equal(t, "E7", data.PerformedBy)
}

func TestPublishProductProduced_ListsSources(t *testing.T) {
	mock := testutil.NewMockPublisher()
	p := NewWithSender(mock, logger.Nop())

	txs := []domain.Transaction{
		{ID: "a", ItemID: "1", Type: domain.TransactionOut},
		{ID: "b", ItemID: "2", Type: domain.TransactionOut},
		{ID: "c", ItemID: "p", Type: domain.TransactionIn},
	}
	product := domain.InventoryItem{ID: "p", FactoryCode: "KHO-A", Unit: "L"}
	p.PublishProductProduced(context.Background(), domain.Formula{Code: "MST-CHM-001"}, product, 6, txs)

	data := mock.Events(messaging.EventProductProduced)[0].Payload.(messaging.ProductProducedEvent)
	assert.Equal(t, []string{"1", "2"}, data.SourceItems)
	assert.Equal(t, []string{"a", "b", "c"}, data.Transactions)
	assert.Equal(t, actor.SystemID, data.PerformedBy)
}

func TestPublishFailureIsLogged(t *testing.T) {
	mock := testutil.NewMockPublisher()
	mock.Err = errors.New("channel closed")
	log, buf := testutil.CaptureLogger()
	p := NewWithSender(mock, log)

	p.PublishDataReplaced(context.Background(), messaging.EventInventoryImported, 3, 4)

	assert.True(t, strings.Contains(buf.String(), "failed to publish inventory event"))
	assert.Contains(t, buf.String(), messaging.EventInventoryImported)
}
