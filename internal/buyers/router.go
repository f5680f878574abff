package buyers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/internal/observability/metrics"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// DispatchStatus is the outcome of one buyer dispatch attempt.
type DispatchStatus string

const (
	StatusSent    DispatchStatus = "sent"
	StatusError   DispatchStatus = "error"
	StatusSkipped DispatchStatus = "skipped"
	StatusDryRun  DispatchStatus = "dry-run"
)

// Result records one dispatch attempt. The result set is informational
// output; it never alters the lead's accepted/blocked status.
type Result struct {
	Buyer      string         `json:"buyer"`
	Vertical   string         `json:"vertical"`
	Status     DispatchStatus `json:"status"`
	HTTPStatus int            `json:"http_status,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Router selects eligible targets for a lead and dispatches to each.
type Router struct {
	targets     []Target
	live        bool
	environment string
	client      *http.Client
	logger      *logging.Logger
	metrics     *metrics.IntakeMetrics
}

// Config wires a Router.
type Config struct {
	Targets []Target
	// Live performs real HTTP calls; otherwise every dispatch is a dry run.
	Live        bool
	Environment string
	// Timeout bounds each buyer call so one slow buyer cannot hold the
	// response past its own deadline.
	Timeout time.Duration
	Logger  *logging.Logger
	Metrics *metrics.IntakeMetrics
}

// NewRouter creates a router over the static target set.
func NewRouter(cfg Config) *Router {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	for i := range cfg.Targets {
		if !cfg.Targets[i].Routable() {
			cfg.Logger.Warn("buyer target matches no routed vertical and will never receive leads",
				"buyer", cfg.Targets[i].Name,
				"verticals", cfg.Targets[i].Verticals,
			)
		}
	}
	return &Router{
		targets:     cfg.Targets,
		live:        cfg.Live,
		environment: cfg.Environment,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// FanVerticals lists the verticals a lead routes under. Bundle fans out to
// the auto and home buyer sets with one payload each.
func FanVerticals(v leads.Vertical) []leads.Vertical {
	if v == leads.VerticalBundle {
		return []leads.Vertical{leads.VerticalAuto, leads.VerticalHome}
	}
	return []leads.Vertical{v}
}

type attempt struct {
	target   *Target
	vertical leads.Vertical
}

// Route dispatches the lead to every eligible target and returns one Result
// per attempt. Dispatches run concurrently and are joined with an
// all-complete barrier: one buyer's failure never cancels another's call.
// Callers must ensure suppressed leads never reach this method.
func (r *Router) Route(ctx context.Context, lead *leads.Lead) []Result {
	var attempts []attempt
	for _, v := range FanVerticals(lead.Vertical) {
		for i := range r.targets {
			if r.targets[i].Accepts(v) {
				attempts = append(attempts, attempt{target: &r.targets[i], vertical: v})
			}
		}
	}
	if len(attempts) == 0 {
		return nil
	}

	results := make([]Result, len(attempts))
	var wg sync.WaitGroup
	for i, a := range attempts {
		if !a.target.Dispatchable() {
			results[i] = Result{Buyer: a.target.Name, Vertical: string(a.vertical), Status: StatusSkipped}
			r.metrics.ObserveDispatch(a.target.Name, string(StatusSkipped))
			continue
		}

		wg.Add(1)
		go func(i int, a attempt) {
			defer wg.Done()
			results[i] = r.dispatch(ctx, lead, a)
			r.metrics.ObserveDispatch(a.target.Name, string(results[i].Status))
		}(i, a)
	}
	wg.Wait()
	return results
}

func (r *Router) dispatch(ctx context.Context, lead *leads.Lead, a attempt) Result {
	payload := BuildPayload(lead, a.vertical, r.environment)
	result := Result{Buyer: a.target.Name, Vertical: string(a.vertical)}

	body, err := json.Marshal(payload)
	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		return result
	}

	if !r.live {
		r.logger.Info("buyer payload dry run",
			"buyer", a.target.Name,
			"vertical", a.vertical,
			"lead_id", lead.ID,
			"payload", json.RawMessage(body),
		)
		result.Status = StatusDryRun
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.target.Endpoint, bytes.NewReader(body))
	if err != nil {
		result.Status = StatusError
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	if a.target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.target.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("buyer dispatch failed", "buyer", a.target.Name, "lead_id", lead.ID, "error", err)
		result.Status = StatusError
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	// Response bodies are captured for logging only, never parsed for
	// business decisions.
	result.HTTPStatus = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("buyer rejected lead", "buyer", a.target.Name, "lead_id", lead.ID, "http_status", resp.StatusCode)
		result.Status = StatusError
		result.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return result
	}

	r.logger.Info("lead dispatched", "buyer", a.target.Name, "vertical", a.vertical, "lead_id", lead.ID, "http_status", resp.StatusCode)
	result.Status = StatusSent
	return result
}
