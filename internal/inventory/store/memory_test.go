package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	_, err := m.Get(ctx, KeyItems)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, map[string][]byte{
		KeyItems:        []byte(`[]`),
		KeyTransactions: []byte(`[{"id":"t1"}]`),
	}))

	got, err := m.Get(ctx, KeyTransactions)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"t1"}]`, string(got))

	// callers mutating returned bytes must not affect the stored copy
	got[0] = 'X'
	again, err := m.Get(ctx, KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, byte('['), again[0])

	require.NoError(t, m.Delete(ctx, KeyItems, "missing"))
	_, err = m.Get(ctx, KeyItems)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "up", m.Health(ctx)["status"])
	assert.NoError(t, m.Close())
}
