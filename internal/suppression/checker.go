// Package suppression decides whether a lead matches an existing opt-out
// record. Matching always runs over normalized values so formatting
// differences between the form and the do-not-sell page never hide a match.
package suppression

import (
	"context"
	"fmt"

	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/internal/normalize"
	"github.com/searchnrate/leadgate/internal/rowstore"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// Column layout of the optouts table: [createdAt, email, phone, requestType, notes].
const (
	colCreatedAt = iota
	colEmail
	colPhone
	colRequestType
	colNotes
)

// Checker tests leads against the opt-out table. When an Index is attached
// it answers from the cached snapshot and only falls back to a full table
// scan when the snapshot is unavailable.
type Checker struct {
	store       rowstore.Store
	index       *Index
	phoneDigits int
	logger      *logging.Logger
}

// NewChecker creates a checker reading the opt-out table through store.
// index may be nil, in which case every check scans the full table.
func NewChecker(store rowstore.Store, index *Index, phoneDigits int, logger *logging.Logger) *Checker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Checker{store: store, index: index, phoneDigits: phoneDigits, logger: logger}
}

// IsSuppressed reports whether the lead's normalized email or phone matches
// any opt-out record. Empty never matches empty. Data-access failures are
// returned to the caller; there is no business-logic failure path.
func (c *Checker) IsSuppressed(ctx context.Context, lead *leads.Lead) (bool, error) {
	email := lead.Contact.Email
	phone := lead.Contact.Phone

	if c.index != nil {
		if hit, ok := c.index.Lookup(ctx, email, phone); ok {
			return hit, nil
		}
	}
	return c.scan(ctx, email, phone)
}

func (c *Checker) scan(ctx context.Context, email, phone string) (bool, error) {
	rows, err := c.store.Rows(ctx, rowstore.TableOptOuts)
	if err != nil {
		return false, fmt.Errorf("suppression: read opt-outs: %w", err)
	}

	for _, row := range rows {
		optEmail := normalize.Email(rowstore.Col(row, colEmail))
		optPhone := normalize.PhoneNational(rowstore.Col(row, colPhone), c.phoneDigits)
		if email != "" && optEmail != "" && email == optEmail {
			return true, nil
		}
		if phone != "" && optPhone != "" && phone == optPhone {
			return true, nil
		}
	}
	return false, nil
}
