package rowstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store for tests and local development.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

// Rows returns a copy of the table so callers cannot mutate stored rows.
func (m *Memory) Rows(ctx context.Context, table string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.tables[table]
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// Append adds one row to the table.
func (m *Memory) Append(ctx context.Context, table string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[table] = append(m.tables[table], append([]string(nil), row...))
	return nil
}
