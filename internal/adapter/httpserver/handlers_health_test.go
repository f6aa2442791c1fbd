package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

func readiness(t *testing.T, srv *Server) (int, readinessResponse) {
	t.Helper()
	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var resp readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t, loadingCatalog())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp livenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.GreaterOrEqual(t, resp.Uptime, 0.0)
	assert.Equal(t, "dev", resp.Version)
}

func TestHandleReadiness_Loaded(t *testing.T) {
	srv := newTestServer(t, loadedCatalog(t),
		withHealthChecks(HealthCheck{Name: "catalog", Check: healthOK}),
	)

	code, resp := readiness(t, srv)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, readinessResponse{
		Status:       "ready",
		CatalogState: "loaded",
		Entities:     3,
		Checks:       map[string]string{"catalog": "ok"},
	}, resp)
}

func TestHandleReadiness_CatalogFailed(t *testing.T) {
	srv := newTestServer(t, &mockCatalog{state: domain.LoadFailed},
		withHealthChecks(HealthCheck{Name: "catalog", Check: healthErr("catalog not loaded: state failed")}),
	)

	code, resp := readiness(t, srv)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "failed", resp.CatalogState)
	assert.Zero(t, resp.Entities)
	assert.Equal(t, "catalog not loaded: state failed", resp.Checks["catalog"])
}

func TestHandleReadiness_ReportsEveryCheck(t *testing.T) {
	srv := newTestServer(t, loadingCatalog(),
		withHealthChecks(
			HealthCheck{Name: "catalog", Check: healthErr("catalog not loaded: state loading")},
			HealthCheck{Name: "templates", Check: healthOK},
		),
	)

	code, resp := readiness(t, srv)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "loading", resp.CatalogState)
	assert.Equal(t, map[string]string{
		"catalog":   "catalog not loaded: state loading",
		"templates": "ok",
	}, resp.Checks)
}

func TestHandleReadiness_NoChecks(t *testing.T) {
	srv := newTestServer(t, loadingCatalog())

	code, resp := readiness(t, srv)

	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Checks)
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, loadingCatalog())

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"dev"`)
	assert.Contains(t, rec.Body.String(), `"go_version"`)
}
