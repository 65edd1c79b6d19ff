package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellsense/internal/store"
)

func TestHealthService_HealthAndLiveness(t *testing.T) {
	hs := NewHealthService("1.2.3", store.NewMemoryStore(0), 0, nil)

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)
	assert.False(t, health.Timestamp.IsZero())

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
	assert.Contains(t, live.Runtime, "go_version")
}

func TestHealthService_Readiness(t *testing.T) {
	failing := new(MockDatasetStore)
	failing.On("List", ctxMatcher).Return(nil, errors.New("store offline"))

	tests := []struct {
		name        string
		store       store.DatasetStore
		capacity    int
		wantStatus  string
		wantMessage string
	}{
		{
			name:        "bounded store",
			store:       store.NewMemoryStore(8),
			capacity:    8,
			wantStatus:  "ready",
			wantMessage: "0 of 8 datasets stored",
		},
		{
			name:        "unbounded store",
			store:       store.NewMemoryStore(0),
			wantStatus:  "ready",
			wantMessage: "0 datasets stored",
		},
		{
			name:        "nil store",
			wantStatus:  "not_ready",
			wantMessage: "dataset store not initialized",
		},
		{
			name:        "failing store",
			store:       failing,
			wantStatus:  "not_ready",
			wantMessage: "store offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.2.3", tt.store, tt.capacity, nil)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			require.Contains(t, status.Services, "store")
			assert.Equal(t, tt.wantMessage, status.Services["store"].Message)
		})
	}
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.2.3", nil, 0, nil)
	v := hs.Version()

	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "v1", v["api_version"])
	for _, key := range []string{"build_time", "git_commit", "go_version", "uptime", "start_time"} {
		assert.Contains(t, v, key)
	}
}
