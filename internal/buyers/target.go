// Package buyers routes accepted leads to downstream buyer endpoints.
package buyers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/searchnrate/leadgate/internal/leads"
)

// Target is one configured downstream buyer. Targets are loaded once at
// process start and immutable afterwards.
type Target struct {
	Name      string   `json:"name"`
	Verticals []string `json:"verticals"`
	Endpoint  string   `json:"endpoint"`
	Token     string   `json:"token"`
	Enabled   bool     `json:"enabled"`
}

// Accepts reports whether the target buys the given vertical.
func (t *Target) Accepts(v leads.Vertical) bool {
	for _, tv := range t.Verticals {
		if leads.Vertical(strings.ToLower(strings.TrimSpace(tv))) == v {
			return true
		}
	}
	return false
}

// Dispatchable reports whether the target can actually receive a call.
func (t *Target) Dispatchable() bool {
	return t.Enabled && strings.TrimSpace(t.Endpoint) != ""
}

// Routable reports whether any routed vertical can ever reach the target.
// Leads route under auto or home only; bundle fans out to those two, so a
// target listing nothing but "bundle" would never match.
func (t *Target) Routable() bool {
	return t.Accepts(leads.VerticalAuto) || t.Accepts(leads.VerticalHome)
}

// ParseTargets decodes the BUYERS_JSON configuration value. An empty value
// yields no targets; routing then records nothing and the pipeline still
// succeeds.
func ParseTargets(raw string) ([]Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var targets []Target
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, fmt.Errorf("buyers: parse targets: %w", err)
	}
	for i := range targets {
		if strings.TrimSpace(targets[i].Name) == "" {
			return nil, fmt.Errorf("buyers: target %d has no name", i)
		}
	}
	return targets, nil
}
