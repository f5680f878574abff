package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/searchnrate/leadgate/internal/http/handlers"
	"github.com/searchnrate/leadgate/internal/intake"
	"github.com/searchnrate/leadgate/internal/leadlog"
	"github.com/searchnrate/leadgate/internal/leads"
	"github.com/searchnrate/leadgate/internal/rowstore"
	"github.com/searchnrate/leadgate/internal/suppression"
)

func testRouter(t *testing.T, store rowstore.Store) http.Handler {
	t.Helper()
	svc := intake.NewService(intake.Config{
		Builder: leads.NewBuilder("auto", false, 10),
		Checker: suppression.NewChecker(store, nil, 10, nil),
		Writer:  leadlog.NewWriter(store),
	})
	return New(&Config{
		IntakeHandler: intake.NewHandler(svc, nil),
		OptOutHandler: suppression.NewHandler(store, nil, 10, nil),
		HealthHandler: handlers.NewHealthHandler(store, nil, nil),
	})
}

func TestRouterLeadRoute(t *testing.T) {
	store := rowstore.NewMemory()
	r := testRouter(t, store)

	body := `{"first_name":"Ada","email":"ada@example.com","zip":"30301"}`
	req := httptest.NewRequest(http.MethodPost, "/lead", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	rows, err := store.Rows(context.Background(), rowstore.TableLeads)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRouterOptOutRoute(t *testing.T) {
	store := rowstore.NewMemory()
	r := testRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/optout", strings.NewReader(`{"email":"Gone@Example.com"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	rows, err := store.Rows(context.Background(), rowstore.TableOptOuts)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRouterHealth(t *testing.T) {
	r := testRouter(t, rowstore.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	r := testRouter(t, rowstore.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":false,"error":"Not Found"}`, w.Body.String())
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := testRouter(t, rowstore.NewMemory())

	for _, path := range []string{"/lead", "/optout"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"), path)
		assert.JSONEq(t, `{"ok":false,"error":"Method Not Allowed"}`, w.Body.String(), path)
	}
}
