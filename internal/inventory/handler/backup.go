package handler

import (
	"io"
	"net/http"

	"github.com/chemstock/chemstock-backend/internal/inventory/service"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/httputil"
	"github.com/chemstock/chemstock-backend/pkg/logger"
)

const maxBackupBytes = 32 << 20

// BackupHandler handles whole-store backup, restore and reset
type BackupHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(svc *service.InventoryService, log *logger.Logger) *BackupHandler {
	return &BackupHandler{
		service: svc,
		logger:  log,
	}
}

// Export downloads the backup document
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	raw, err := h.service.ExportBackup(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.Attachment(w, "application/json", h.service.BackupFilename(), raw)
}

// Import replaces the catalog and ledger with the uploaded document
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		httputil.Error(w, r, errors.BadRequest("backup too large or unreadable"))
		return
	}

	doc, err := h.service.ImportBackup(r.Context(), raw)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int{
		"items":        len(doc.Items),
		"transactions": len(doc.Transactions),
	})
}

// Reset wipes the catalog and ledger
func (h *BackupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		httputil.Error(w, r, err)
		return
	}

	httputil.NoContent(w)
}
