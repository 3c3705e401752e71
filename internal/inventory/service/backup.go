package service

import (
	"context"
	"fmt"

	"github.com/chemstock/chemstock-backend/internal/inventory/repository"
	"github.com/chemstock/chemstock-backend/pkg/messaging"
)

// Today is the service clock's UTC date, used in download names
func (s *InventoryService) Today() string {
	return s.timestamp().Format("2006-01-02")
}

// BackupFilename is the download name of a backup taken today
func (s *InventoryService) BackupFilename() string {
	return fmt.Sprintf("chemical_inventory_backup_%s.json", s.Today())
}

// ExportBackup returns the whole-store backup document
func (s *InventoryService) ExportBackup(ctx context.Context) ([]byte, error) {
	return s.repo.ExportData(ctx)
}

// ImportBackup replaces catalog and ledger with a backup document
func (s *InventoryService) ImportBackup(ctx context.Context, raw []byte) (*repository.Backup, error) {
	doc, err := s.repo.ImportData(ctx, raw)
	if err != nil {
		return nil, err
	}
	s.InvalidateProductIndex()
	s.publisher.PublishDataReplaced(ctx, messaging.EventInventoryImported, len(doc.Items), len(doc.Transactions))
	return doc, nil
}

// Reset wipes catalog and ledger
func (s *InventoryService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.InvalidateProductIndex()

	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return err
	}
	s.publisher.PublishDataReplaced(ctx, messaging.EventInventoryReset, len(items), 0)
	return nil
}
