package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/sethvargo/go-retry"
)

const (
	defaultMaxConns           = 10
	defaultPingTimeout        = 3 * time.Second
	defaultHealthCheckTimeout = time.Second
	defaultRetryBase          = 500 * time.Millisecond
	defaultRetryCap           = 5 * time.Second
)

// DB is the subset of pgxpool.Pool the repositories need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store owns the pgx pool backing the record store.
type Store struct {
	pool    *pgxpool.Pool
	metrics *poolMetrics
}

// NewStore opens the pool and waits for the database to answer, retrying
// with capped exponential backoff up to cfg.ConnectRetries times.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres: config is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolCfg.MaxConns {
		poolCfg.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}
	if err := waitForDatabase(ctx, pool, cfg); err != nil {
		pool.Close()
		return nil, err
	}
	metrics, err := registerPoolMetrics(pool)
	if err != nil {
		logger.FromContext(ctx).Warn("Postgres pool metrics not registered", "error", err)
	}
	logger.FromContext(ctx).Info("Store initialized",
		"store_driver", "postgres",
		"host", poolCfg.ConnConfig.Host,
		"db_name", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns,
	)
	return &Store{pool: pool, metrics: metrics}, nil
}

func waitForDatabase(ctx context.Context, pool *pgxpool.Pool, cfg *Config) error {
	log := logger.FromContext(ctx)
	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	retries := cfg.ConnectRetries
	if retries < 0 {
		retries = 0
	}
	backoff := retry.WithCappedDuration(defaultRetryCap, retry.NewExponential(defaultRetryBase))
	backoff = retry.WithMaxRetries(uint64(retries), backoff)
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			log.Warn("Database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// DB returns the pool as the repository query interface.
func (s *Store) DB() DB {
	return s.pool
}

func (s *Store) HealthCheck(ctx context.Context) error {
	hctx, cancel := context.WithTimeout(ctx, defaultHealthCheckTimeout)
	defer cancel()
	if err := s.pool.Ping(hctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.metrics != nil {
		s.metrics.unregister()
	}
	s.pool.Close()
	logger.FromContext(ctx).Info("Postgres store closed")
	return nil
}
