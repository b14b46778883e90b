package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc := newTestServerContext(t, validLookup, &countingFlow{})
	h := NewHealthChecker(sc)

	get := func() (*httptest.ResponseRecorder, HealthResponse) {
		rec := httptest.NewRecorder()
		h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return rec, resp
	}

	rec, resp := get()
	assert.Equal(t, http.StatusOK, rec.Code, "unauthenticated server is ready")
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "unauthenticated", resp.Checks["session"])

	h.SetReady(false)
	rec, resp = get()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", resp.Checks["ready"])

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec, resp = get()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting down", resp.Checks["shutdown"])
}

func TestHealthChecker_DetailedReportsSession(t *testing.T) {
	sc := newTestServerContext(t, validLookup, &countingFlow{})
	h := NewHealthChecker(sc, WithVersion("1.2.3"))

	detailed := func() DetailedHealthResponse {
		rec := httptest.NewRecorder()
		h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp DetailedHealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	resp := detailed()
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "unauthenticated", resp.Checks["session"])
	require.NotNil(t, resp.Session)
	assert.Equal(t, "unauthenticated", resp.Session.State)

	_, err := sc.Mailbox(context.Background())
	require.NoError(t, err)

	resp = detailed()
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "authenticated", resp.Checks["session"])
	require.NotNil(t, resp.Session)
	assert.Equal(t, "authenticated", resp.Session.State)
	assert.NotContains(t, resp.Session.ClientID, testClientID, "identifiers are redacted")
}

func TestHealthChecker_DetailedShuttingDown(t *testing.T) {
	sc := newTestServerContext(t, validLookup, &countingFlow{})
	h := NewHealthChecker(sc)
	require.NoError(t, sc.Shutdown())

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "shutting down", resp.Status)
}

func TestRegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker(nil).RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
