package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/cache"
)

func TestHealth_DegradedWithoutDatabases(t *testing.T) {
	h := newTestServer(t).Routes()

	w := do(h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "disconnected", body["database"])
	assert.Equal(t, "disconnected", body["tescoDb"])
	assert.Equal(t, "disabled", body["redis"])

	w = do(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth_RedisState(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newTestServer(t)
	s.cache = cache.New(cache.Options{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(func() { _ = s.cache.Close() })
	h := s.Routes()

	w := do(h, http.MethodGet, "/api/status", nil)
	var body struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Status)
	assert.Equal(t, "connected", body.Services["redis"])
	assert.True(t, s.cache.Connected())

	mr.Close()
	w = do(h, http.MethodGet, "/health", nil)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "disconnected", health["redis"])
	assert.False(t, s.cache.Connected())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t).Routes()
	w := do(h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
