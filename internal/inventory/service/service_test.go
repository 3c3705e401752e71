package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/events"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/chemstock/chemstock-backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 12, 8, 30, 0, 0, time.UTC)

type harness struct {
	svc       *service.InventoryService
	repo      *repository.Repository
	publisher *testutil.MockPublisher
	fixtures  *testutil.FixtureFactory
}

func newHarness(t *testing.T, items ...domain.InventoryItem) *harness {
	t.Helper()
	return newHarnessOn(t, store.NewMemoryBackend(), items...)
}

func newHarnessOn(t *testing.T, backend store.Backend, items ...domain.InventoryItem) *harness {
	t.Helper()
	repo := repository.New(backend, nil, logger.Nop())
	for _, it := range items {
		require.NoError(t, repo.AddItem(context.Background(), it))
	}
	mock := testutil.NewMockPublisher()
	svc := service.NewInventoryService(
		repo,
		domain.NewFormulaCatalog(),
		events.NewWithSender(mock, logger.Nop()),
		logger.Nop(),
		service.WithClock(func() time.Time { return fixedNow }),
	)
	return &harness{svc: svc, repo: repo, publisher: mock, fixtures: testutil.NewFixtureFactory()}
}

func (h *harness) stock(t *testing.T, id string) float64 {
	t.Helper()
	item, err := h.svc.GetItem(context.Background(), id)
	require.NoError(t, err)
	return item.StockIn
}

func (h *harness) txCount(t *testing.T) int {
	t.Helper()
	txs, err := h.repo.GetTransactions(context.Background())
	require.NoError(t, err)
	return len(txs)
}
