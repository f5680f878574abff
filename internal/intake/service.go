// Package intake sequences the lead pipeline for one request: build,
// suppression check, persist, route. The orchestration itself stays thin;
// all decisions live in the collaborating packages.
package intake

import (
	"context"
	"strings"
	"time"

	"github.com/searchnrate/leadgate/internal/buyers"
	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/internal/observability/metrics"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// SuppressionChecker decides whether a lead matches an opt-out record.
type SuppressionChecker interface {
	IsSuppressed(ctx context.Context, lead *leads.Lead) (bool, error)
}

// LeadWriter appends the lead (with resolved status) to the durable log.
type LeadWriter interface {
	Append(ctx context.Context, lead *leads.Lead) error
}

// BuyerRouter dispatches an accepted lead to eligible buyers.
type BuyerRouter interface {
	Route(ctx context.Context, lead *leads.Lead) []buyers.Result
}

// Notifier is told about accepted leads after routing. Implementations must
// not fail the request; errors stay inside the notifier.
type Notifier interface {
	LeadAccepted(ctx context.Context, lead *leads.Lead, results []buyers.Result)
}

// Receipt summarizes one processed submission for the HTTP response.
type Receipt struct {
	LeadID       string
	Status       leads.Status
	BuyerResults []buyers.Result
}

// Service owns the per-request pipeline. The lead is never shared across
// requests and has no identity beyond the row written for it.
type Service struct {
	builder  *leads.Builder
	checker  SuppressionChecker
	writer   LeadWriter
	router   BuyerRouter
	notifier Notifier
	logger   *logging.Logger
	metrics  *metrics.IntakeMetrics
}

// Config wires a Service. Notifier and Metrics are optional.
type Config struct {
	Builder  *leads.Builder
	Checker  SuppressionChecker
	Writer   LeadWriter
	Router   BuyerRouter
	Notifier Notifier
	Logger   *logging.Logger
	Metrics  *metrics.IntakeMetrics
}

// NewService creates the intake orchestrator.
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		builder:  cfg.Builder,
		checker:  cfg.Checker,
		writer:   cfg.Writer,
		router:   cfg.Router,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Process runs one submission through the pipeline. Validation failures
// surface as *leads.ValidationError before any side effect; suppression or
// persistence failures as *DependencyError after the point of no return for
// retrying the whole request. Buyer routing failures never fail the request:
// the lead is already durably recorded when routing starts.
func (s *Service) Process(ctx context.Context, sub *leads.Submission, meta leads.RequestMeta) (*Receipt, error) {
	if s.checker == nil || s.writer == nil {
		return nil, &ConfigurationError{Reason: "intake pipeline is not fully configured"}
	}

	start := time.Now()

	lead, err := s.builder.Build(sub, meta)
	if err != nil {
		return nil, err
	}

	if raw := rawVertical(sub); raw != "" && !leads.Vertical(strings.ToLower(raw)).Known() {
		s.logger.Info("unrecognized vertical clamped", "raw", raw, "vertical", lead.Vertical, "lead_id", lead.ID)
	}

	blocked, err := s.checker.IsSuppressed(ctx, lead)
	if err != nil {
		s.logger.Error("suppression check failed", "lead_id", lead.ID, "error", err)
		return nil, &DependencyError{Op: "suppression check", Err: err}
	}

	// Status is computed once and immutable for the rest of the request.
	if blocked {
		lead.Status = leads.StatusBlocked
	} else {
		lead.Status = leads.StatusAccepted
	}

	// Every submission is recorded, blocked ones included.
	if err := s.writer.Append(ctx, lead); err != nil {
		s.logger.Error("lead persistence failed", "lead_id", lead.ID, "error", err)
		return nil, &DependencyError{Op: "lead persistence", Err: err}
	}

	s.metrics.ObserveLead(string(lead.Status))
	s.logger.Info("lead recorded", "lead_id", lead.ID, "status", lead.Status, "vertical", lead.Vertical)

	receipt := &Receipt{LeadID: lead.ID, Status: lead.Status}
	if lead.Status == leads.StatusAccepted && s.router != nil {
		receipt.BuyerResults = s.router.Route(ctx, lead)
		if s.notifier != nil {
			s.notifier.LeadAccepted(ctx, lead, receipt.BuyerResults)
		}
	}

	s.metrics.ObserveRequest(time.Since(start).Seconds())
	return receipt, nil
}

func rawVertical(sub *leads.Submission) string {
	if raw := strings.TrimSpace(sub.LeadType); raw != "" {
		return raw
	}
	return strings.TrimSpace(sub.CoverageType)
}
