package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

// TransactionHandler handles ledger endpoints
type TransactionHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc *service.InventoryService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: svc,
		logger:  log,
	}
}

// List returns the filtered history, newest first
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	// per_page=0 (or absent) returns every row
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 0 || perPage > 500 {
		perPage = 20
	}

	result, err := h.service.History(r.Context(), filter, page, perPage)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, result.Transactions, httputil.NewMeta(result.Page, result.PerPage, result.Total))
}

// Create records a manual stock movement
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MovementInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	tx, err := h.service.RecordMovement(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Created(w, tx)
}

func parseTransactionFilter(q url.Values) (service.TransactionFilter, error) {
	f := service.TransactionFilter{
		Type:     q.Get("type"),
		Factory:  q.Get("factory"),
		ItemCode: q.Get("item_code"),
		ItemID:   q.Get("item_id"),
	}
	switch f.Type {
	case "", service.FilterAll, service.FilterMaterial, service.FilterProduct:
	default:
		return f, errors.Validation(map[string]string{"type": "must be one of: ALL MATERIAL PRODUCT"})
	}

	var err error
	if f.From, err = parseDate(q.Get("from")); err != nil {
		return f, errors.Validation(map[string]string{"from": "must be a date (YYYY-MM-DD)"})
	}
	if f.To, err = parseDate(q.Get("to")); err != nil {
		return f, errors.Validation(map[string]string{"to": "must be a date (YYYY-MM-DD)"})
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
