package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// StatisticsHandler handles statistics, report and insight endpoints
type StatisticsHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(svc *service.InventoryService, log *logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: svc,
		logger:  log,
	}
}

// Daily returns IN/OUT totals per day for the filtered ledger
func (h *StatisticsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	days, err := h.service.DailyMovements(r.Context(), filter)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, days)
}

// Overview returns the home screen counters
func (h *StatisticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Overview(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, o)
}

// StockPDF downloads the stock report
func (h *StatisticsHandler) StockPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.StockReportPDF(r.Context(), &buf); err != nil {
		h.logger.Error().Err(err).Msg("failed to render stock report")
		httputil.Error(w, r, err)
		return
	}

	httputil.Attachment(w, contentTypePDF, "stock_report.pdf", buf.Bytes())
}

// TransactionsXLSX downloads the filtered history as a spreadsheet
func (h *StatisticsHandler) TransactionsXLSX(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r.URL.Query())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.TransactionsXLSX(r.Context(), filter, &buf); err != nil {
		h.logger.Error().Err(err).Msg("failed to render transaction history")
		httputil.Error(w, r, err)
		return
	}

	httputil.Attachment(w, contentTypeXLSX, fmt.Sprintf("transactions_%s.xlsx", h.service.Today()), buf.Bytes())
}

// Insight returns a generated comment on the current stock
func (h *StatisticsHandler) Insight(w http.ResponseWriter, r *http.Request) {
	insight, err := h.service.Insight(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, insight)
}
