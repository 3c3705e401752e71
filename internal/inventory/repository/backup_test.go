package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_RoundTrip(t *testing.T) {
	f := testutil.NewFixtureFactory()
	a := f.Material(testutil.WithStock(7))
	b := f.Product(testutil.WithStock(0))
	src, _ := newRepo(t, a, b)
	ctx := context.Background()

	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	_, err := src.AddTransaction(ctx, f.Transaction(a, domain.TransactionOut, 2, at))
	require.NoError(t, err)
	_, err = src.AddTransaction(ctx, f.Transaction(b, domain.TransactionIn, 2, at))
	require.NoError(t, err)
	require.NoError(t, src.SaveUser(ctx, f.Employee("E1", "Vo E")))

	raw, err := src.ExportData(ctx)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "exportDate")
	assert.Contains(t, doc, "user")

	dst, _ := newRepo(t, f.Material())
	imported, err := dst.ImportData(ctx, raw)
	require.NoError(t, err)
	assert.Len(t, imported.Items, 2)

	srcItems, _ := src.GetItems(ctx)
	dstItems, _ := dst.GetItems(ctx)
	assert.Equal(t, srcItems, dstItems)

	srcTxs, _ := src.GetTransactions(ctx)
	dstTxs, _ := dst.GetTransactions(ctx)
	assert.Equal(t, srcTxs, dstTxs)

	user, err := dst.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user, "import leaves the session alone")
}

func TestImportData_RejectsBadDocuments(t *testing.T) {
	f := testutil.NewFixtureFactory()
	keep := f.Material()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing transactions", `{"items":[]}`},
		{"missing items", `{"transactions":[]}`},
		{"null items", `{"items":null,"transactions":[]}`},
		{"items not array", `{"items":{"id":"1"},"transactions":[]}`},
		{"bad transaction", `{"items":[],"transactions":[{"quantity":"lots"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newRepo(t, keep)
			_, err := repo.ImportData(context.Background(), []byte(tt.body))
			require.Error(t, err)

			var appErr *errors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "errors.invalid_backup", appErr.MessageKey)

			items, _ := repo.GetItems(context.Background())
			assert.Equal(t, []domain.InventoryItem{keep}, items)
		})
	}
}

func TestImportData_AcceptsEmptyArrays(t *testing.T) {
	repo, _ := newRepo(t, testutil.NewFixtureFactory().Material())
	_, err := repo.ImportData(context.Background(), []byte(`{"items":[],"transactions":[],"user":null}`))
	require.NoError(t, err)

	items, _ := repo.GetItems(context.Background())
	assert.Empty(t, items)
}
