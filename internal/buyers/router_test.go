package buyers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchnrate/leadgate/internal/leads"
)

func acceptedLead(vertical leads.Vertical) *leads.Lead {
	return &leads.Lead{
		ID:        "lead-1",
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Vertical:  vertical,
		Status:    leads.StatusAccepted,
		Contact:   leads.Contact{FirstName: "Jane", Email: "a@b.com", Phone: "5551234567"},
		Zip:       "90210",
		Vehicle:   leads.Vehicle{Year: "2021", Make: "Honda", Model: "Civic"},
		Property:  leads.Property{HomeType: "condo", Ownership: "own"},
	}
}

func byBuyer(results []Result) map[string]Result {
	out := make(map[string]Result, len(results))
	for _, r := range results {
		out[r.Buyer+"/"+r.Vertical] = r
	}
	return out
}

func TestRouteBundleFansOut(t *testing.T) {
	var mu sync.Mutex
	var payloads []Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p Payload
		require.NoError(t, json.Unmarshal(body, &p))
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	router := NewRouter(Config{
		Targets: []Target{
			{Name: "acme-auto", Verticals: []string{"auto"}, Endpoint: srv.URL, Enabled: true},
			{Name: "homeco", Verticals: []string{"home"}, Endpoint: srv.URL, Enabled: true},
		},
		Live:        true,
		Environment: "test",
	})

	results := router.Route(context.Background(), acceptedLead(leads.VerticalBundle))
	require.Len(t, results, 2, "bundle with one auto and one home buyer yields exactly two attempts")

	for _, r := range results {
		assert.Equal(t, StatusSent, r.Status)
		assert.Equal(t, http.StatusOK, r.HTTPStatus)
	}

	require.Len(t, payloads, 2)
	sort.Slice(payloads, func(i, j int) bool { return payloads[i].Vertical < payloads[j].Vertical })

	// Each payload is scoped to its vertical: auto carries the vehicle and
	// an empty property, home the reverse.
	assert.Equal(t, "auto", payloads[0].Vertical)
	assert.Equal(t, "Honda", payloads[0].Vehicle.Make)
	assert.Equal(t, leads.Property{}, payloads[0].Property)

	assert.Equal(t, "home", payloads[1].Vertical)
	assert.Equal(t, "condo", payloads[1].Property.HomeType)
	assert.Equal(t, leads.Vehicle{}, payloads[1].Vehicle)
}

func TestRouteSkipsDisabledAndEndpointless(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	router := NewRouter(Config{
		Targets: []Target{
			{Name: "live-one", Verticals: []string{"auto"}, Endpoint: srv.URL, Enabled: true},
			{Name: "disabled", Verticals: []string{"auto"}, Endpoint: srv.URL, Enabled: false},
			{Name: "no-endpoint", Verticals: []string{"auto"}, Enabled: true},
			{Name: "wrong-vertical", Verticals: []string{"home"}, Endpoint: srv.URL, Enabled: true},
		},
		Live: true,
	})

	results := router.Route(context.Background(), acceptedLead(leads.VerticalAuto))
	require.Len(t, results, 3, "vertical-mismatched buyers are excluded entirely")

	got := byBuyer(results)
	assert.Equal(t, StatusSent, got["live-one/auto"].Status)
	assert.Equal(t, StatusSkipped, got["disabled/auto"].Status)
	assert.Equal(t, StatusSkipped, got["no-endpoint/auto"].Status)
	assert.Equal(t, int64(1), calls.Load())
}

func TestRouteFailureIsolation(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()

	router := NewRouter(Config{
		Targets: []Target{
			{Name: "good", Verticals: []string{"auto"}, Endpoint: good.URL, Enabled: true},
			{Name: "bad", Verticals: []string{"auto"}, Endpoint: bad.URL, Enabled: true},
			{Name: "unreachable", Verticals: []string{"auto"}, Endpoint: "http://127.0.0.1:1", Enabled: true},
		},
		Live:    true,
		Timeout: 2 * time.Second,
	})

	results := router.Route(context.Background(), acceptedLead(leads.VerticalAuto))
	require.Len(t, results, 3)

	got := byBuyer(results)
	assert.Equal(t, StatusSent, got["good/auto"].Status)
	assert.Equal(t, http.StatusCreated, got["good/auto"].HTTPStatus)

	assert.Equal(t, StatusError, got["bad/auto"].Status)
	assert.Equal(t, http.StatusBadGateway, got["bad/auto"].HTTPStatus)

	assert.Equal(t, StatusError, got["unreachable/auto"].Status)
	assert.NotEmpty(t, got["unreachable/auto"].Error)
}

func TestRouteDryRunMakesNoCalls(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	router := NewRouter(Config{
		Targets: []Target{
			{Name: "acme", Verticals: []string{"auto"}, Endpoint: srv.URL, Enabled: true},
		},
		Live: false,
	})

	results := router.Route(context.Background(), acceptedLead(leads.VerticalAuto))
	require.Len(t, results, 1)
	assert.Equal(t, StatusDryRun, results[0].Status)
	assert.Zero(t, results[0].HTTPStatus)
	assert.Equal(t, int64(0), calls.Load())
}

func TestRouteBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	router := NewRouter(Config{
		Targets: []Target{
			{Name: "acme", Verticals: []string{"auto"}, Endpoint: srv.URL, Token: "secret-token", Enabled: true},
		},
		Live: true,
	})

	router.Route(context.Background(), acceptedLead(leads.VerticalAuto))
	assert.Equal(t, "Bearer secret-token", auth)
}

func TestRouteNoTargets(t *testing.T) {
	router := NewRouter(Config{})
	assert.Nil(t, router.Route(context.Background(), acceptedLead(leads.VerticalAuto)))
}
