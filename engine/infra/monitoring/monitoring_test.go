package monitoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	t.Run("Should use no-op instruments when disabled", func(t *testing.T) {
		service, err := NewService(context.Background(), nil)
		require.NoError(t, err)
		assert.False(t, service.IsInitialized())
		assert.Equal(t, "/metrics", service.Path())
		service.Tools().RecordCall(context.Background(), "ping", "success", time.Millisecond)
		w := httptest.NewRecorder()
		service.ExporterHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
	t.Run("Should reject invalid paths", func(t *testing.T) {
		for _, path := range []string{"", "metrics", "/mcp", "/metrics?x=1"} {
			_, err := NewService(context.Background(), &Config{Enabled: true, Path: path})
			assert.Error(t, err, path)
		}
	})
	t.Run("Should expose tool metrics on the scrape endpoint", func(t *testing.T) {
		service, err := NewService(context.Background(), &Config{Enabled: true, Path: "/metrics"})
		require.NoError(t, err)
		defer service.Shutdown(context.Background())
		require.True(t, service.IsInitialized())
		ctx := context.Background()
		service.Tools().RecordCall(ctx, "create_execution", "success", 12*time.Millisecond)
		service.Tools().RecordCall(ctx, "prepare_job", "remote_rejected", time.Second)
		service.Tools().RecordPrepare(ctx, "remote_rejected")
		w := httptest.NewRecorder()
		service.ExporterHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		body, err := io.ReadAll(w.Body)
		require.NoError(t, err)
		text := string(body)
		assert.Contains(t, text, "orca_tool_calls_total")
		assert.Contains(t, text, `tool="create_execution"`)
		assert.Contains(t, text, `outcome="remote_rejected"`)
		assert.Contains(t, text, "orca_tool_call_duration_seconds")
		assert.Contains(t, text, "orca_prepare_dispatch_total")
	})
}

func TestNewServiceWithFallback(t *testing.T) {
	t.Run("Should degrade to a disabled service on invalid config", func(t *testing.T) {
		service := NewServiceWithFallback(context.Background(), &Config{Enabled: true, Path: ""})
		require.NotNil(t, service)
		assert.False(t, service.IsInitialized())
		assert.Error(t, service.InitializationError())
	})
}
