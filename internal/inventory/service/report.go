package service

import (
	"context"
	"fmt"
	"io"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

const historySheet = "Transactions"

var stockColumns = []struct {
	title string
	width float64
}{
	{"Item code", 32},
	{"Name", 110},
	{"Color", 45},
	{"Factory", 25},
	{"Type", 25},
	{"Stock", 25},
	{"Unit", 15},
}

// StockReportPDF renders the current catalog as a landscape A4 table
func (s *InventoryService) StockReportPDF(ctx context.Context, w io.Writer) error {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Stock report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Stock report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s - %d batches", s.timestamp().Format("2006-01-02 15:04 MST"), len(items)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 240)
		for _, c := range stockColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, it := range items {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}
		row := []string{
			it.ItemCode,
			tr(truncate(it.MaterialName, 70)),
			tr(truncate(it.ColorName, 28)),
			it.FactoryCode,
			string(it.EffectiveType()),
			formatQty(it.StockIn),
			it.Unit,
		}
		for i, c := range stockColumns {
			align := "L"
			if i == 5 {
				align = "R"
			}
			pdf.CellFormat(c.width, 6, row[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// TransactionsXLSX writes the filtered history, newest first, as a spreadsheet
func (s *InventoryService) TransactionsXLSX(ctx context.Context, f TransactionFilter, w io.Writer) error {
	items, txs, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	page := Paginate(FilterTransactions(items, txs, f), 1, 0)

	byID := make(map[string]domain.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", historySheet); err != nil {
		return err
	}

	headers := []interface{}{"Date", "Type", "Item ID", "Item name", "Item code", "Factory", "Quantity", "Unit", "Note"}
	if err := book.SetSheetRow(historySheet, "A1", &headers); err != nil {
		return err
	}

	for i, tx := range page.Transactions {
		item := byID[tx.ItemID]
		row := []interface{}{
			tx.Date.UTC().Format("2006-01-02 15:04:05"),
			string(tx.Type),
			tx.ItemID,
			tx.ItemName,
			item.ItemCode,
			item.FactoryCode,
			tx.Quantity,
			item.Unit,
			tx.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(historySheet, cell, &row); err != nil {
			return err
		}
	}

	return book.Write(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
