package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/billingledger/internal/adapter/http/handler"
)

func newTestRouter(checks ...handler.Check) http.Handler {
	h := handler.NewHealthHandler()
	for i, check := range checks {
		h.AddCheck([]string{"postgres", "redis"}[i], check)
	}
	return NewRouter(RouterConfig{HealthHandler: h, Logger: zerolog.Nop()})
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ReadinessFailsWhenDependencyDown(t *testing.T) {
	router := newTestRouter(
		func(context.Context) error { return nil },
		func(context.Context) error { return errors.New("dial tcp: refused") },
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "redis unhealthy") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestNewRouter_ServesMetrics(t *testing.T) {
	router := newTestRouter()

	// Generate at least one observation first.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "billingledger_http_requests_total") {
		t.Fatalf("expected http metrics in exposition")
	}
}

func TestNewRouter_RegistersOnlyOperationalRoutes(t *testing.T) {
	router := newTestRouter()

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{"GET /health", "GET /ready", "GET /metrics"}
	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d routes, got %v", len(expected), seen)
	}
}

func TestNewRouter_UnknownRouteIs404(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
