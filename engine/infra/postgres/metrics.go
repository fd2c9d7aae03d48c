package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "orca.postgres"

type poolMetrics struct {
	registration metric.Registration
}

// registerPoolMetrics exposes pool statistics as observable gauges on the
// global meter provider.
func registerPoolMetrics(pool *pgxpool.Pool) (*poolMetrics, error) {
	meter := otel.Meter(meterName)
	total, err := meter.Int64ObservableGauge(
		"orca_db_connections_total",
		metric.WithDescription("Open connections in the Postgres pool"),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: create total gauge: %w", err)
	}
	inUse, err := meter.Int64ObservableGauge(
		"orca_db_connections_in_use",
		metric.WithDescription("Connections currently acquired from the pool"),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: create in-use gauge: %w", err)
	}
	maxConns, err := meter.Int64ObservableGauge(
		"orca_db_connections_max",
		metric.WithDescription("Configured pool size"),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: create max gauge: %w", err)
	}
	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stat := pool.Stat()
		o.ObserveInt64(total, int64(stat.TotalConns()))
		o.ObserveInt64(inUse, int64(stat.AcquiredConns()))
		o.ObserveInt64(maxConns, int64(stat.MaxConns()))
		return nil
	}, total, inUse, maxConns)
	if err != nil {
		return nil, fmt.Errorf("postgres: register pool callback: %w", err)
	}
	return &poolMetrics{registration: reg}, nil
}

func (m *poolMetrics) unregister() {
	if m.registration != nil {
		_ = m.registration.Unregister()
	}
}
