package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/searchnrate/leadgate/internal/rowstore"
)

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(rowstore.NewMemory(), nil, nil)
	w := httptest.NewRecorder()
	h.Live(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthDepsAllOK(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	h := NewHealthHandler(rowstore.NewMemory(), rdb, nil)
	w := httptest.NewRecorder()
	h.Deps(w, httptest.NewRequest(http.MethodGet, "/health/deps", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"row_store":"ok"`)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestHealthDepsStoreMissing(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil)
	w := httptest.NewRecorder()
	h.Deps(w, httptest.NewRequest(http.MethodGet, "/health/deps", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthDepsRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	h := NewHealthHandler(rowstore.NewMemory(), rdb, nil)
	w := httptest.NewRecorder()
	h.Deps(w, httptest.NewRequest(http.MethodGet, "/health/deps", nil))
	// Redis is an optimization; its loss does not fail the health check.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"error"`)
}
