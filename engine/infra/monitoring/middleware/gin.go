package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orca-network/orca/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var HTTPDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

type httpInstruments struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(ctx context.Context, meter metric.Meter) *httpInstruments {
	log := logger.FromContext(ctx)
	total, err := meter.Int64Counter(
		"orca_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		log.Error("Failed to create http requests total counter", "error", err)
		return nil
	}
	duration, err := meter.Float64Histogram(
		"orca_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(HTTPDurationBuckets...),
	)
	if err != nil {
		log.Error("Failed to create http request duration histogram", "error", err)
		return nil
	}
	inFlight, err := meter.Int64UpDownCounter(
		"orca_http_requests_in_flight",
		metric.WithDescription("Currently active HTTP requests"),
	)
	if err != nil {
		log.Error("Failed to create http requests in flight counter", "error", err)
		return nil
	}
	return &httpInstruments{total: total, duration: duration, inFlight: inFlight}
}

// HTTPMetrics returns a Gin middleware that collects request metrics.
func HTTPMetrics(ctx context.Context, meter metric.Meter) gin.HandlerFunc {
	var inst *httpInstruments
	if meter != nil {
		inst = newHTTPInstruments(ctx, meter)
	}
	return func(c *gin.Context) {
		if inst == nil {
			c.Next()
			return
		}
		start := time.Now()
		reqCtx := c.Request.Context()
		inst.inFlight.Add(reqCtx, 1)
		defer inst.inFlight.Add(reqCtx, -1)
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		inst.total.Add(reqCtx, 1, attrs)
		inst.duration.Record(reqCtx, time.Since(start).Seconds(), attrs)
	}
}
