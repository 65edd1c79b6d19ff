package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellsense/internal/services"
	"cellsense/internal/shared/testutil"
	"cellsense/internal/store"
)

func TestHealthHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	tests := []struct {
		name           string
		store          store.DatasetStore
		call           func(h *HealthHandler) http.HandlerFunc
		expectedStatus int
		expectedField  string
		expectedValue  any
	}{
		{
			name:           "health",
			store:          store.NewMemoryStore(2),
			call:           func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ok",
		},
		{
			name:           "ready",
			store:          store.NewMemoryStore(2),
			call:           func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "ready",
		},
		{
			name:           "not ready without store",
			call:           func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck },
			expectedStatus: http.StatusServiceUnavailable,
			expectedField:  "status",
			expectedValue:  "not_ready",
		},
		{
			name:           "live",
			store:          store.NewMemoryStore(2),
			call:           func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck },
			expectedStatus: http.StatusOK,
			expectedField:  "status",
			expectedValue:  "alive",
		},
		{
			name:           "version",
			store:          store.NewMemoryStore(2),
			call:           func(h *HealthHandler) http.HandlerFunc { return h.Version },
			expectedStatus: http.StatusOK,
			expectedField:  "version",
			expectedValue:  "9.9.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(services.NewHealthService("9.9.9", tt.store, 2, logger), logger)
			rec := httptest.NewRecorder()

			tt.call(h)(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedValue, body[tt.expectedField])
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exposition := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("uploads_total 1\n"))
	})
	rec = httptest.NewRecorder()
	NewMetricsHandler(exposition).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "uploads_total 1\n", rec.Body.String())
}
