package handler

import (
	"net/http"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

// ProductionHandler handles production and product group endpoints
type ProductionHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewProductionHandler creates a new production handler
func NewProductionHandler(svc *service.InventoryService, log *logger.Logger) *ProductionHandler {
	return &ProductionHandler{
		service: svc,
		logger:  log,
	}
}

// ValidateSource checks one source selection before it is added to a run
func (h *ProductionHandler) ValidateSource(w http.ResponseWriter, r *http.Request) {
	var req domain.SourceSelection
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	item, err := h.service.ValidateSource(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, item)
}

// Preview returns the confirmation summary of a run without committing it
func (h *ProductionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req service.ProductionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	preview, err := h.service.Preview(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, preview)
}

// Produce commits a production run
func (h *ProductionHandler) Produce(w http.ResponseWriter, r *http.Request) {
	var req service.ProductionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	result, err := h.service.Produce(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Created(w, result)
}

// Groups lists aggregated product groups
func (h *ProductionHandler) Groups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	groups, err := h.service.ListProductGroups(r.Context(), service.GroupFilter{
		Factory:  q.Get("factory"),
		ItemCode: q.Get("item_code"),
		Query:    q.Get("q"),
	})
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, groups, httputil.NewMeta(1, 0, len(groups)))
}

// Export ships a quantity out of a product group
func (h *ProductionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req service.ExportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	result, err := h.service.ExportFromGroup(r.Context(), req)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}
