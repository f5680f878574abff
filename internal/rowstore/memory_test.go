package rowstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAppendAndRows(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, TableLeads, []string{"a", "b"}))
	require.NoError(t, store.Append(ctx, TableLeads, []string{"c"}))

	rows, err := store.Rows(ctx, TableLeads)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b"}, rows[0])

	// Mutating the returned slice must not leak into the store.
	rows[0][0] = "mutated"
	again, err := store.Rows(ctx, TableLeads)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0][0])
}

func TestMemoryEmptyTable(t *testing.T) {
	store := NewMemory()
	rows, err := store.Rows(context.Background(), TableOptOuts)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCol(t *testing.T) {
	row := []string{"x", "y"}
	assert.Equal(t, "x", Col(row, 0))
	assert.Equal(t, "", Col(row, 2))
	assert.Equal(t, "", Col(row, -1))
	assert.Equal(t, "", Col(nil, 0))
}
