package handler

import (
	"net/http"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ItemHandler handles catalog endpoints
type ItemHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(svc *service.InventoryService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		service: svc,
		logger:  log,
	}
}

// List lists catalog items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := parseItemType(q.Get("type"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	items, err := h.service.ListItems(r.Context(), service.ItemFilter{
		Type:     typ,
		Factory:  q.Get("factory"),
		ItemCode: q.Get("item_code"),
		Query:    q.Get("q"),
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, items, httputil.NewMeta(1, 0, len(items)))
}

// Get gets an item by ID
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Create adds an item to the catalog
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateItemInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Created(w, item)
}

// ItemCodes lists distinct item codes
func (h *ItemHandler) ItemCodes(w http.ResponseWriter, r *http.Request) {
	typ, err := parseItemType(r.URL.Query().Get("type"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	codes, err := h.service.ItemCodes(r.Context(), typ)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, codes)
}

// Factories lists known warehouses
func (h *ItemHandler) Factories(w http.ResponseWriter, r *http.Request) {
	factories, err := h.service.Factories(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, factories)
}

// Formulas lists the master product definitions
func (h *ItemHandler) Formulas(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.service.Formulas())
}

func parseItemType(v string) (domain.ItemType, error) {
	switch v {
	case "", "ALL":
		return "", nil
	case string(domain.ItemTypeMaterial), string(domain.ItemTypeProduct):
		return domain.ItemType(v), nil
	default:
		return "", errors.Validation(map[string]string{"type": "must be one of: MATERIAL PRODUCT"})
	}
}
