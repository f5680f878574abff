package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/searchnrate/leadgate/internal/rowstore"
	"github.com/searchnrate/leadgate/pkg/logging"
)

// HealthHandler answers liveness and dependency checks.
type HealthHandler struct {
	store  rowstore.Store
	redis  redis.UniversalClient
	logger *logging.Logger
}

// NewHealthHandler creates the health handler. redis may be nil when no
// suppression index is configured.
func NewHealthHandler(store rowstore.Store, rdb redis.UniversalClient, logger *logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HealthHandler{store: store, redis: rdb, logger: logger}
}

// Live handles GET /health.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Deps handles GET /health/deps: it probes the row store and Redis and
// reports per-dependency status. Credentials never appear in the response.
func (h *HealthHandler) Deps(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deps := map[string]string{}
	healthy := true

	if h.store != nil {
		if _, err := h.store.Rows(ctx, rowstore.TableOptOuts); err != nil {
			h.logger.Warn("health: row store unreachable", "error", err)
			deps["row_store"] = "error"
			healthy = false
		} else {
			deps["row_store"] = "ok"
		}
	} else {
		deps["row_store"] = "unconfigured"
		healthy = false
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.logger.Warn("health: redis unreachable", "error", err)
			deps["redis"] = "error"
		} else {
			deps["redis"] = "ok"
		}
	} else {
		deps["redis"] = "disabled"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": deps, "ok": healthy})
}
