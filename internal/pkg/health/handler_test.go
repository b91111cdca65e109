package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestPingReportsServiceInfo(t *testing.T) {
	h := NewHandler("escrow-edge", "test")

	rec := get(t, h.Ping, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)

	var info Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "escrow-edge", info.Service)
	assert.Equal(t, "test", info.Environment)
	assert.NotEmpty(t, info.GoVersion)
	assert.False(t, info.ServerTime.IsZero())
}

func TestReadyReflectsDependencyChecks(t *testing.T) {
	h := NewHandler("escrow-edge", "test")

	rec := get(t, h.Ready, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code, "no checks means ready")

	h.AddCheck("redis", func() error { return errors.New("connection refused") })
	rec = get(t, h.Ready, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")

	h.AddCheck("redis", func() error { return nil })
	rec = get(t, h.Ready, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Liveness stays OK regardless of dependency state.
	rec = get(t, h.Live, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
