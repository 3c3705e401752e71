package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/events"
	"github.com/chemstock/chemstock-backend/internal/inventory/handler"
	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/internal/inventory/store"
	"github.com/chemstock/chemstock-backend/pkg/actor"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/i18n"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/chemstock/chemstock-backend/pkg/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 12, 8, 30, 0, 0, time.UTC)

type fixedResolver struct{}

func (fixedResolver) ResolveActor(token string) (*actor.Actor, error) {
	if token != "good" {
		return nil, errors.TokenInvalid()
	}
	return &actor.Actor{EmpID: "E1001", Name: "Tester"}, nil
}

func newRouter(t *testing.T, guard func(http.Handler) http.Handler, items ...domain.InventoryItem) http.Handler {
	t.Helper()
	repo := repository.New(store.NewMemoryBackend(), nil, logger.Nop())
	for _, it := range items {
		require.NoError(t, repo.AddItem(context.Background(), it))
	}
	svc := service.NewInventoryService(repo, nil, events.NewWithSender(testutil.NewMockPublisher(), logger.Nop()), logger.Nop(),
		service.WithClock(func() time.Time { return fixedNow }))

	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	handler.NewHandlers(svc, logger.Nop()).Mount(r, guard)
	return r
}

func send(t *testing.T, h http.Handler, method, path string, body interface{}) (*http.Response, testutil.Envelope) {
	t.Helper()
	rr := testutil.ExecuteRequest(h, testutil.NewHTTPRequest(method, path, body))
	var env testutil.Envelope
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") == "application/json" {
		env = testutil.ParseEnvelope(t, rr, nil)
	}
	return rr.Result(), env
}

func material(id string, stock float64) domain.InventoryItem {
	return testutil.NewFixtureFactory().Material(testutil.WithID(id), testutil.WithStock(stock))
}

func TestItems_ListAndGet(t *testing.T) {
	h := newRouter(t, nil, material("m-1", 5), material("m-2", 0))

	resp, env := send(t, h, http.MethodGet, "/api/v1/inventory/items?type=MATERIAL", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []domain.InventoryItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), env.Meta.Total)

	resp, _ = send(t, h, http.MethodGet, "/api/v1/inventory/items/m-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = send(t, h, http.MethodGet, "/api/v1/inventory/items/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	resp, _ = send(t, h, http.MethodGet, "/api/v1/inventory/items?type=OTHER", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransactions_CreateAndList(t *testing.T) {
	h := newRouter(t, nil, material("m-1", 5))

	resp, env := send(t, h, http.MethodPost, "/api/v1/inventory/transactions", map[string]interface{}{
		"item_id": "m-1", "type": "OUT", "quantity": 2, "note": "line 3",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tx domain.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, domain.TransactionOut, tx.Type)
	assert.Equal(t, "m-1", tx.ItemID)

	resp, env = send(t, h, http.MethodPost, "/api/v1/inventory/transactions", map[string]interface{}{
		"item_id": "m-1", "type": "OUT", "quantity": 10,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
	assert.Equal(t, "3", env.Error.Details["current"])

	resp, env = send(t, h, http.MethodGet, "/api/v1/inventory/transactions?per_page=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), env.Meta.Total)

	resp, env = send(t, h, http.MethodGet, "/api/v1/inventory/transactions?page=9223372036854775807&per_page=500", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestTransactions_BadFilter(t *testing.T) {
	h := newRouter(t, nil)

	for _, q := range []string{"type=FOO", "from=yesterday", "to=12/06/2025"} {
		resp, env := send(t, h, http.MethodGet, "/api/v1/inventory/transactions?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code, q)
	}
}

func TestProduction_Errors(t *testing.T) {
	h := newRouter(t, nil, material("m-1", 5))

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{
			"no sources",
			map[string]interface{}{"formula_id": "m1", "sources": []interface{}{}},
			http.StatusBadRequest, "MISSING_INPUT",
		},
		{
			"non-positive output",
			map[string]interface{}{"formula_id": "m1", "sources": []interface{}{map[string]interface{}{"item_id": "m-1", "quantity": 1}}, "adjustment": -2},
			http.StatusUnprocessableEntity, "INVALID_OUTPUT",
		},
		{
			"blank destination",
			map[string]interface{}{"formula_id": "m1", "sources": []interface{}{map[string]interface{}{"item_id": "m-1", "quantity": 1}}, "destination": ""},
			http.StatusBadRequest, "MISSING_DESTINATION",
		},
		{
			"more than stock",
			map[string]interface{}{"formula_id": "m1", "sources": []interface{}{map[string]interface{}{"item_id": "m-1", "quantity": 6}}},
			http.StatusConflict, "INSUFFICIENT_STOCK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := send(t, h, http.MethodPost, "/api/v1/inventory/production", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestProduction_ProduceThenExport(t *testing.T) {
	h := newRouter(t, nil, material("m-1", 5))

	resp, env := send(t, h, http.MethodPost, "/api/v1/inventory/production", map[string]interface{}{
		"formula_id": "m1",
		"sources":    []interface{}{map[string]interface{}{"item_id": "m-1", "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result service.ProductionResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 4.0, result.Quantity)
	assert.Equal(t, "KHO-A", result.Product.FactoryCode)
	assert.Len(t, result.Transactions, 2)

	resp, env = send(t, h, http.MethodGet, "/api/v1/inventory/products/groups", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var groups []domain.AggregatedGroup
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, 4.0, groups[0].StockIn)

	resp, env = send(t, h, http.MethodPost, "/api/v1/inventory/products/groups/export", map[string]interface{}{
		"item_code": "MST-CHM-001", "factory_code": "KHO-A", "quantity": 10,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)

	resp, _ = send(t, h, http.MethodPost, "/api/v1/inventory/products/groups/export", map[string]interface{}{
		"item_code": "MST-CHM-001", "factory_code": "KHO-A", "quantity": 3, "note": "Shop 7",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = send(t, h, http.MethodPost, "/api/v1/inventory/products/groups/export", map[string]interface{}{
		"item_code": "MST-CHM-404", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBackup_ExportIsAttachment(t *testing.T) {
	h := newRouter(t, nil, material("m-1", 5))

	rr := testutil.ExecuteRequest(h, testutil.NewHTTPRequest(http.MethodGet, "/api/v1/inventory/backup", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, `attachment; filename="chemical_inventory_backup_2025-06-12.json"`, rr.Header().Get("Content-Disposition"))

	var doc map[string]json.RawMessage
	testutil.ParseJSONBody(t, rr, &doc)
	assert.Contains(t, doc, "items")
	assert.Contains(t, doc, "transactions")

	resp, env := send(t, h, http.MethodPost, "/api/v1/inventory/backup", []byte(`{"items":"nope"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotNil(t, env.Error)

	resp, _ = send(t, h, http.MethodPost, "/api/v1/inventory/reset", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestGuard_ProtectsMutations(t *testing.T) {
	h := newRouter(t, httputil.Authenticate(fixedResolver{}, true), material("m-1", 5))

	resp, _ := send(t, h, http.MethodGet, "/api/v1/inventory/items", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := send(t, h, http.MethodPost, "/api/v1/inventory/transactions", map[string]interface{}{
		"item_id": "m-1", "type": "IN", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	req := testutil.WithBearer(testutil.NewHTTPRequest(http.MethodPost, "/api/v1/inventory/transactions", map[string]interface{}{
		"item_id": "m-1", "type": "IN", "quantity": 1,
	}), "good")
	rr := testutil.ExecuteRequest(h, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
}
