package service_test

import (
	"context"
	"testing"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/messaging"
	"github.com/chemstock/chemstock-backend/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_StockEqualsInitialPlusSignedSum(t *testing.T) {
	f := testutil.NewFixtureFactory()
	a := f.Material(testutil.WithStock(10))
	b := f.Material(testutil.WithStock(0.3))
	h := newHarness(t, a, b)
	ctx := context.Background()

	moves := []struct {
		id  string
		typ domain.TransactionType
		qty float64
	}{
		{a.ID, domain.TransactionOut, 2.5},
		{b.ID, domain.TransactionIn, 0.1},
		{a.ID, domain.TransactionIn, 0.2},
		{b.ID, domain.TransactionOut, 0.4},
		{a.ID, domain.TransactionOut, 7.7},
		{b.ID, domain.TransactionIn, 0.2},
	}
	for _, m := range moves {
		_, err := h.svc.Apply(ctx, domain.Transaction{ItemID: m.id, Type: m.typ, Quantity: m.qty})
		require.NoError(t, err)
	}

	txs, err := h.repo.GetTransactions(ctx)
	require.NoError(t, err)
	for _, item := range []domain.InventoryItem{a, b} {
		sum := decimal.NewFromFloat(item.StockIn)
		for _, tx := range txs {
			if tx.ItemID == item.ID {
				sum = sum.Add(decimal.NewFromFloat(tx.Signed()))
			}
		}
		assert.Equal(t, sum.InexactFloat64(), h.stock(t, item.ID), item.ID)
	}
	assert.Equal(t, 0.0, h.stock(t, a.ID))
	assert.Equal(t, 0.2, h.stock(t, b.ID))
}

func TestApply_FillsDefaults(t *testing.T) {
	f := testutil.NewFixtureFactory()
	item := f.Material(testutil.WithName("Ethanol 96%"))
	h := newHarness(t, item)

	tx, err := h.svc.Apply(context.Background(), domain.Transaction{ItemID: item.ID, Type: domain.TransactionIn, Quantity: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, fixedNow, tx.Date)
	assert.Equal(t, "Ethanol 96%", tx.ItemName)
	h.publisher.AssertEventPublished(t, messaging.EventTransactionApplied)
}

func TestApply_RejectsOverdraw(t *testing.T) {
	f := testutil.NewFixtureFactory()
	item := f.Material(testutil.WithStock(3), testutil.WithUnit("KG"))
	h := newHarness(t, item)

	_, err := h.svc.Apply(context.Background(), domain.Transaction{ItemID: item.ID, Type: domain.TransactionOut, Quantity: 3.5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientStock))

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "3", appErr.Params["current"])
	assert.Equal(t, "3.5", appErr.Params["request"])
	assert.Equal(t, "KG", appErr.Params["unit"])

	assert.Equal(t, 3.0, h.stock(t, item.ID))
	assert.Zero(t, h.txCount(t))
	h.publisher.AssertNoEventsPublished(t)
}

func TestApply_ExactDrawLeavesZero(t *testing.T) {
	f := testutil.NewFixtureFactory()
	item := f.Material(testutil.WithStock(0.3))
	h := newHarness(t, item)

	_, err := h.svc.Apply(context.Background(), domain.Transaction{ItemID: item.ID, Type: domain.TransactionOut, Quantity: 0.1})
	require.NoError(t, err)
	_, err = h.svc.Apply(context.Background(), domain.Transaction{ItemID: item.ID, Type: domain.TransactionOut, Quantity: 0.2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, h.stock(t, item.ID))
}

func TestApply_Validation(t *testing.T) {
	h := newHarness(t, testutil.NewFixtureFactory().Material())

	tests := []struct {
		name  string
		tx    domain.Transaction
		field string
	}{
		{"bad type", domain.Transaction{ItemID: "x", Type: "MOVE", Quantity: 1}, "type"},
		{"zero quantity", domain.Transaction{ItemID: "x", Type: domain.TransactionIn}, "quantity"},
		{"negative quantity", domain.Transaction{ItemID: "x", Type: domain.TransactionIn, Quantity: -1}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Apply(context.Background(), tt.tx)
			var appErr *errors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Contains(t, appErr.Details, tt.field)
		})
	}
}

func TestApply_OrphanIsRecordedAndSignalled(t *testing.T) {
	h := newHarness(t, testutil.NewFixtureFactory().Material())

	tx, err := h.svc.Apply(context.Background(), domain.Transaction{ItemID: "deleted", Type: domain.TransactionOut, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownItemName, tx.ItemName)
	assert.Equal(t, 1, h.txCount(t))

	orphaned := h.publisher.Events(messaging.EventTransactionOrphaned)
	require.Len(t, orphaned, 1)
	assert.Equal(t, "deleted", orphaned[0].Payload.(messaging.TransactionOrphanedEvent).ItemID)
}

func TestRecordMovement(t *testing.T) {
	f := testutil.NewFixtureFactory()
	item := f.Material(testutil.WithStock(5))
	h := newHarness(t, item)
	ctx := context.Background()

	tx, err := h.svc.RecordMovement(ctx, service.MovementInput{ItemID: item.ID, Type: domain.TransactionOut, Quantity: 2, Note: "line 3"})
	require.NoError(t, err)
	assert.Equal(t, "line 3", tx.Note)
	assert.Equal(t, 3.0, h.stock(t, item.ID))

	_, err = h.svc.RecordMovement(ctx, service.MovementInput{ItemID: "nope", Type: domain.TransactionIn, Quantity: 1})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = h.svc.RecordMovement(ctx, service.MovementInput{ItemID: item.ID, Type: "SIDEWAYS", Quantity: 1})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
