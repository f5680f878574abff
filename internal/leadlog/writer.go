// Package leadlog appends every processed submission to the durable lead
// table. Recording is unconditional: blocked leads are written with status
// "blocked" because the compliance obligation is to record every
// submission, not only accepted ones.
package leadlog

import (
	"context"
	"fmt"
	"time"

	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/internal/rowstore"
)

// Column layout, version 1. The order is an external compatibility
// contract: new fields are appended as new trailing columns, never
// inserted. Readers of older rows tolerate missing trailing columns.
const (
	ColCreatedAt = iota
	ColIP
	ColUserAgent
	ColFirstName
	ColLastName
	ColEmail
	ColPhone
	ColZip
	ColVertical
	ColConsentFlag
	ColConsentText
	ColSourceURL
	ColStatus

	columnCount
)

// Writer appends leads to the row store.
type Writer struct {
	store rowstore.Store
}

// NewWriter creates a lead log writer.
func NewWriter(store rowstore.Store) *Writer {
	return &Writer{store: store}
}

// Row builds the ordered column tuple for a lead.
func Row(lead *leads.Lead) []string {
	consentFlag := "false"
	if lead.Consent.Confirmed {
		consentFlag = "true"
	}

	row := make([]string, columnCount)
	row[ColCreatedAt] = lead.CreatedAt.UTC().Format(time.RFC3339)
	row[ColIP] = lead.Consent.IP
	row[ColUserAgent] = lead.Consent.UserAgent
	row[ColFirstName] = lead.Contact.FirstName
	row[ColLastName] = lead.Contact.LastName
	row[ColEmail] = lead.Contact.Email
	row[ColPhone] = lead.Contact.Phone
	row[ColZip] = lead.Zip
	row[ColVertical] = string(lead.Vertical)
	row[ColConsentFlag] = consentFlag
	row[ColConsentText] = lead.Consent.Text
	row[ColSourceURL] = lead.Consent.SourceURL
	row[ColStatus] = string(lead.Status)
	return row
}

// Append writes the lead (with its resolved status) as one row.
// At-least-once: the row store owns retries, the writer never re-derives them.
func (w *Writer) Append(ctx context.Context, lead *leads.Lead) error {
	if err := w.store.Append(ctx, rowstore.TableLeads, Row(lead)); err != nil {
		return fmt.Errorf("leadlog: append: %w", err)
	}
	return nil
}
