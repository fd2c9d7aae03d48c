package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/engine/infra/cache"
	"github.com/orca-network/orca/engine/infra/memory"
	"github.com/orca-network/orca/engine/infra/postgres"
	"github.com/orca-network/orca/engine/wallet"
	"github.com/orca-network/orca/pkg/config"
	"github.com/orca-network/orca/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	CacheNone  = "none"
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

// Provider exposes the repositories backed by the configured store driver.
// It returns interfaces rather than driver-specific types.
type Provider struct {
	agents     agent.Repository
	executions execution.Repository
	profiles   wallet.Repository
	health     func(ctx context.Context) error
	closers    []func(ctx context.Context) error
}

func NewProvider(ctx context.Context, cfg *config.Config) (*Provider, error) {
	p := &Provider{}
	var err error
	switch cfg.Store.Driver {
	case DriverPostgres:
		err = p.openPostgres(ctx, cfg)
	case DriverMemory:
		err = p.openMemory(ctx, cfg)
	default:
		err = fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := p.wrapAgentCache(ctx, cfg); err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	return p, nil
}

// PostgresConfig maps the database section onto the driver config.
func PostgresConfig(cfg *config.Config) *postgres.Config {
	db := cfg.Database
	return &postgres.Config{
		ConnString:     db.ConnString.Value(),
		Host:           db.Host,
		Port:           db.Port,
		User:           db.User,
		Password:       db.Password.Value(),
		DBName:         db.Name,
		SSLMode:        db.SSLMode,
		MaxConns:       db.MaxConns,
		MinConns:       db.MinConns,
		ConnectRetries: db.ConnectRetries,
	}
}

func (p *Provider) openPostgres(ctx context.Context, cfg *config.Config) error {
	pgCfg := PostgresConfig(cfg)
	if cfg.Database.AutoMigrate {
		if err := postgres.ApplyMigrations(ctx, pgCfg.DSN()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}
	store, err := postgres.NewStore(ctx, pgCfg)
	if err != nil {
		return err
	}
	db := store.DB()
	p.agents = postgres.NewAgentRepo(db)
	p.executions = postgres.NewExecutionRepo(db)
	p.profiles = postgres.NewProfileRepo(db)
	p.health = store.HealthCheck
	p.closers = append(p.closers, store.Close)
	return nil
}

func (p *Provider) openMemory(ctx context.Context, cfg *config.Config) error {
	store := memory.NewStore()
	if cfg.Store.SeedFile != "" {
		if err := store.LoadSeedFile(ctx, cfg.Store.SeedFile); err != nil {
			return err
		}
	}
	logger.FromContext(ctx).Info("Store initialized", "store_driver", DriverMemory)
	p.agents = store.Agents()
	p.executions = store.Executions()
	p.profiles = store.Profiles()
	p.health = store.HealthCheck
	p.closers = append(p.closers, store.Close)
	return nil
}

func (p *Provider) wrapAgentCache(ctx context.Context, cfg *config.Config) error {
	switch cfg.Cache.Driver {
	case "", CacheNone:
		return nil
	case CacheLRU:
		p.agents = cache.NewLRUAgentRepository(p.agents, cfg.Cache.Size, cfg.Cache.TTL)
	case CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL.Value())
		if err != nil {
			return err
		}
		p.agents = cache.NewRedisAgentRepository(p.agents, client, cfg.Cache.TTL, cfg.Cache.Prefix)
		p.closers = append(p.closers, func(context.Context) error { return client.Close() })
	default:
		return fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
	logger.FromContext(ctx).Info("Agent cache enabled", "cache_driver", cfg.Cache.Driver, "ttl", cfg.Cache.TTL)
	return nil
}

func (p *Provider) Agents() agent.Repository { return p.agents }

func (p *Provider) Executions() execution.Repository { return p.executions }

func (p *Provider) Profiles() wallet.Repository { return p.profiles }

func (p *Provider) HealthCheck(ctx context.Context) error {
	if p.health == nil {
		return nil
	}
	return p.health(ctx)
}

// Close releases resources in reverse order of acquisition.
func (p *Provider) Close(ctx context.Context) error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
