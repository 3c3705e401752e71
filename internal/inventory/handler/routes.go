package handler

import (
	"net/http"

	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// Handlers bundles the inventory endpoint handlers
type Handlers struct {
	Items        *ItemHandler
	Transactions *TransactionHandler
	Production   *ProductionHandler
	Statistics   *StatisticsHandler
	Backup       *BackupHandler
}

// NewHandlers creates every inventory handler on one service
func NewHandlers(svc *service.InventoryService, log *logger.Logger) *Handlers {
	return &Handlers{
		Items:        NewItemHandler(svc, log),
		Transactions: NewTransactionHandler(svc, log),
		Production:   NewProductionHandler(svc, log),
		Statistics:   NewStatisticsHandler(svc, log),
		Backup:       NewBackupHandler(svc, log),
	}
}

// Mount registers the inventory routes on r. Routes that change the store
// run behind guard.
func (h *Handlers) Mount(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/items", h.Items.List)
		r.Get("/items/{id}", h.Items.Get)
		r.Get("/item-codes", h.Items.ItemCodes)
		r.Get("/factories", h.Items.Factories)
		r.Get("/formulas", h.Items.Formulas)

		r.Get("/transactions", h.Transactions.List)
		r.Get("/products/groups", h.Production.Groups)

		r.Get("/statistics/daily", h.Statistics.Daily)
		r.Get("/statistics/overview", h.Statistics.Overview)
		r.Get("/reports/stock.pdf", h.Statistics.StockPDF)
		r.Get("/reports/transactions.xlsx", h.Statistics.TransactionsXLSX)
		r.Get("/insight", h.Statistics.Insight)

		r.Group(func(r chi.Router) {
			if guard != nil {
				r.Use(guard)
			}
			r.Post("/items", h.Items.Create)
			r.Post("/transactions", h.Transactions.Create)

			r.Post("/production/sources/validate", h.Production.ValidateSource)
			r.Post("/production/preview", h.Production.Preview)
			r.Post("/production", h.Production.Produce)
			r.Post("/products/groups/export", h.Production.Export)

			r.Get("/backup", h.Backup.Export)
			r.Post("/backup", h.Backup.Import)
			r.Post("/reset", h.Backup.Reset)
		})
	})
}
