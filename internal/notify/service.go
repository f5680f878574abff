// Package notify tells operators about accepted leads. Notification is
// best-effort: failures are logged and never surface to the submitting
// client, whose lead is already durably recorded.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/searchnrate/leadgate/internal/buyers"
	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// Service emails an operator a summary of each accepted lead.
type Service struct {
	email  EmailSender
	to     string
	logger *logging.Logger
}

// NewService creates a notification service. Returns nil when the sender or
// recipient is unset; the intake pipeline treats a nil service as off.
func NewService(email EmailSender, to string, logger *logging.Logger) *Service {
	if email == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, to: to, logger: logger}
}

// LeadAccepted sends the summary email. Errors are logged, never returned.
func (s *Service) LeadAccepted(ctx context.Context, lead *leads.Lead, results []buyers.Result) {
	msg := EmailMessage{
		To:      s.to,
		Subject: fmt.Sprintf("New %s lead %s", lead.Vertical, lead.ID),
		Body:    leadSummary(lead, results),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("lead notification failed", "lead_id", lead.ID, "error", err)
		return
	}
	s.logger.Info("lead notification sent", "lead_id", lead.ID)
}

func leadSummary(lead *leads.Lead, results []buyers.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead %s (%s) accepted at %s\n", lead.ID, lead.Vertical, lead.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Contact: %s %s, %s, %s\n", lead.Contact.FirstName, lead.Contact.LastName, lead.Contact.Email, lead.Contact.Phone)
	fmt.Fprintf(&b, "Zip: %s\n", lead.Zip)

	if len(results) == 0 {
		b.WriteString("Buyer dispatch: none\n")
		return b.String()
	}
	b.WriteString("Buyer dispatch:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "  - %s (%s): %s", r.Buyer, r.Vertical, r.Status)
		if r.HTTPStatus != 0 {
			fmt.Fprintf(&b, " [%d]", r.HTTPStatus)
		}
		if r.Error != "" {
			fmt.Fprintf(&b, " %s", r.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}
