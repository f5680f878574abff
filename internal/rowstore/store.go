// Package rowstore abstracts the append-only tabular log the gateway
// records into. Consumers see ordered string tuples; the backing store is
// an external collaborator and may be swapped without touching callers.
package rowstore

import "context"

// Table names the gateway reads and writes.
const (
	TableLeads   = "leads"
	TableOptOuts = "optouts"
)

// Store reads and appends ordered rows. Append is at-least-once; retries
// are the caller's concern.
type Store interface {
	// Rows returns the full table in insertion order. Rows may be shorter
	// than the expected column count; use Col to read them safely.
	Rows(ctx context.Context, table string) ([][]string, error)

	// Append adds one row at the end of the table.
	Append(ctx context.Context, table string, row []string) error
}

// Col returns row[i], or the empty string when the row is too short.
// Absent and short rows are tolerated by contract.
func Col(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
