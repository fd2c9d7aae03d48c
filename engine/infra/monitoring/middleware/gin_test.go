package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	t.Run("Should record request count with route attributes", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(HTTPMetrics(context.Background(), provider.Meter("test")))
		router.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		found := false
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name != "orca_http_requests_total" {
					continue
				}
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				require.Len(t, sum.DataPoints, 1)
				attrs := sum.DataPoints[0].Attributes.ToSlice()
				assert.Contains(t, attrs, attribute.String("path", "/healthz"))
				assert.Contains(t, attrs, attribute.String("status_code", "200"))
				assert.Equal(t, int64(1), sum.DataPoints[0].Value)
				found = true
			}
		}
		assert.True(t, found)
	})
	t.Run("Should label unknown routes as unmatched", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(HTTPMetrics(context.Background(), provider.Meter("test")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
		assert.Equal(t, http.StatusNotFound, w.Code)
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		var attrs []attribute.KeyValue
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == "orca_http_requests_total" {
					attrs = sum.DataPoints[0].Attributes.ToSlice()
				}
			}
		}
		assert.Contains(t, attrs, attribute.String("path", "unmatched"))
	})
}
