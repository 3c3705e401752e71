package service

import (
	"context"
	"sort"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Transaction type filter values
const (
	FilterAll      = "ALL"
	FilterMaterial = "MATERIAL"
	FilterProduct  = "PRODUCT"
)

// TransactionFilter selects ledger entries. Zero values match everything.
// To is inclusive of the whole day it falls on.
type TransactionFilter struct {
	From     time.Time
	To       time.Time
	Type     string
	Factory  string
	ItemCode string
	ItemID   string
}

func (f TransactionFilter) needsItem() bool {
	return (f.Type != "" && f.Type != FilterAll) || f.Factory != "" || f.ItemCode != ""
}

// DailyMovement sums the quantities moved on one calendar day (UTC)
type DailyMovement struct {
	Date string  `json:"date"`
	In   float64 `json:"IN"`
	Out  float64 `json:"OUT"`
}

// HistoryPage is one page of the transaction history, newest first
type HistoryPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	PerPage      int                  `json:"per_page"`
	Total        int                  `json:"total"`
}

// Overview holds the home screen counters
type Overview struct {
	MaterialBatches   int `json:"material_batches"`
	ProductGroups     int `json:"product_groups"`
	ExhaustedBatches  int `json:"exhausted_batches"`
	TransactionsToday int `json:"transactions_today"`
	TotalItems        int `json:"total_items"`
}

// FilterTransactions applies f to txs. Entries whose item is no longer in the
// catalog are kept unless the filter depends on item attributes.
func FilterTransactions(items []domain.InventoryItem, txs []domain.Transaction, f TransactionFilter) []domain.Transaction {
	byID := make(map[string]domain.InventoryItem, len(items))
	for _, it := range items {
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = it
		}
	}

	var end time.Time
	if !f.To.IsZero() {
		y, m, d := f.To.Date()
		end = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), f.To.Location())
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !f.From.IsZero() && tx.Date.Before(f.From) {
			continue
		}
		if !end.IsZero() && tx.Date.After(end) {
			continue
		}
		if f.ItemID != "" && tx.ItemID != f.ItemID {
			continue
		}

		item, ok := byID[tx.ItemID]
		if !ok {
			if f.needsItem() {
				continue
			}
			out = append(out, tx)
			continue
		}

		switch f.Type {
		case FilterMaterial:
			if item.IsProduct() {
				continue
			}
		case FilterProduct:
			if !item.IsProduct() {
				continue
			}
		}
		if f.Factory != "" && item.FactoryCode != f.Factory {
			continue
		}
		if f.ItemCode != "" && item.ItemCode != f.ItemCode {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// GroupDaily sums IN and OUT per UTC day, oldest day first
func GroupDaily(txs []domain.Transaction) []DailyMovement {
	type sums struct{ in, out decimal.Decimal }
	days := make(map[string]*sums)
	for _, tx := range txs {
		day := tx.Date.UTC().Format("2006-01-02")
		s, ok := days[day]
		if !ok {
			s = &sums{in: decimal.Zero, out: decimal.Zero}
			days[day] = s
		}
		q := decimal.NewFromFloat(tx.Quantity)
		if tx.Type == domain.TransactionIn {
			s.in = s.in.Add(q)
		} else {
			s.out = s.out.Add(q)
		}
	}

	out := make([]DailyMovement, 0, len(days))
	for day, s := range days {
		out = append(out, DailyMovement{Date: day, In: s.in.InexactFloat64(), Out: s.out.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Paginate sorts txs newest first and cuts one page. perPage 0 returns everything.
func Paginate(txs []domain.Transaction, page, perPage int) HistoryPage {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	if page < 1 {
		page = 1
	}
	result := HistoryPage{Page: page, PerPage: perPage, Total: len(sorted)}
	if perPage <= 0 {
		result.PerPage = 0
		result.Transactions = sorted
		return result
	}

	// compare page counts rather than offsets so huge pages cannot overflow
	if len(sorted) == 0 || page-1 > (len(sorted)-1)/perPage {
		result.Transactions = []domain.Transaction{}
		return result
	}
	start := (page - 1) * perPage
	end := len(sorted)
	if perPage < end-start {
		end = start + perPage
	}
	result.Transactions = sorted[start:end]
	return result
}

// DailyMovements returns the per-day totals of the filtered ledger
func (s *InventoryService) DailyMovements(ctx context.Context, f TransactionFilter) ([]DailyMovement, error) {
	items, txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return GroupDaily(FilterTransactions(items, txs, f)), nil
}

// History returns one page of the filtered ledger
func (s *InventoryService) History(ctx context.Context, f TransactionFilter, page, perPage int) (HistoryPage, error) {
	items, txs, err := s.snapshot(ctx)
	if err != nil {
		return HistoryPage{}, err
	}
	return Paginate(FilterTransactions(items, txs, f), page, perPage), nil
}

// Overview counts what the home screen shows
func (s *InventoryService) Overview(ctx context.Context) (Overview, error) {
	items, txs, err := s.snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}

	var o Overview
	o.TotalItems = len(items)
	for _, it := range items {
		if !it.IsProduct() {
			o.MaterialBatches++
		}
		if it.StockIn <= 0 {
			o.ExhaustedBatches++
		}
	}
	o.ProductGroups = len(GroupProducts(items))

	today := s.now().UTC().Format("2006-01-02")
	for _, tx := range txs {
		if tx.Date.UTC().Format("2006-01-02") == today {
			o.TransactionsToday++
		}
	}
	return o, nil
}

// snapshot reads catalog and log concurrently
func (s *InventoryService) snapshot(ctx context.Context) ([]domain.InventoryItem, []domain.Transaction, error) {
	var (
		items []domain.InventoryItem
		txs   []domain.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.GetItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.repo.GetTransactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return items, txs, nil
}
