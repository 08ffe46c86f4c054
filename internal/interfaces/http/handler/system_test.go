package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler(t *testing.T) {
	f := newFixture(t)
	var dbErr error
	h := NewSystemHandler("booking-console", "1.2.3", map[string]HealthCheck{
		"database": func(context.Context) error { return dbErr },
		"state":    func(context.Context) error { return nil },
	})
	f.engine.GET("/health", h.Health)
	f.engine.GET("/ready", h.Ready)
	f.api.GET("/system/info", h.GetSystemInfo)

	t.Run("health", func(t *testing.T) {
		w := f.do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("info", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/system/info", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var info SystemInfoResponse
		decode(t, w, &info)
		assert.Equal(t, "booking-console", info.Name)
		assert.Equal(t, "1.2.3", info.Version)
		assert.NotEmpty(t, info.GoVersion)
	})

	t.Run("ready", func(t *testing.T) {
		w := f.do(http.MethodGet, "/ready", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var ready ReadyResponse
		decode(t, w, &ready)
		assert.Equal(t, "ready", ready.Status)
		assert.Equal(t, map[string]string{"database": "ok", "state": "ok"}, ready.Checks)
	})

	t.Run("not ready when a check fails", func(t *testing.T) {
		dbErr = errors.New("connection refused")
		w := f.do(http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var ready ReadyResponse
		decode(t, w, &ready)
		assert.Equal(t, "unavailable", ready.Status)
		assert.Equal(t, "error", ready.Checks["database"])
	})
}
