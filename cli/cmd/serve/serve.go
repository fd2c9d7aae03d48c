package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/orca-network/orca/engine/infra/agentclient"
	"github.com/orca-network/orca/engine/infra/monitoring"
	"github.com/orca-network/orca/engine/infra/repo"
	"github.com/orca-network/orca/engine/infra/server"
	"github.com/orca-network/orca/engine/toolserver"
	"github.com/orca-network/orca/pkg/config"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/orca-network/orca/pkg/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"
)

// NewServeCommand creates the command that runs the MCP tool server.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Orca MCP tool server",
		Long: `Run the orchestrator tools over MCP.

The stdio transport reads JSON-RPC frames from stdin and writes them to stdout;
logs always go to stderr. The http transport serves the streamable HTTP
transport at /mcp next to /healthz and the metrics endpoint.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
	cmd.Flags().String("transport", "", "MCP transport: stdio or http")
	cmd.Flags().String("host", "", "HTTP listen host")
	cmd.Flags().Int("port", 0, "HTTP listen port")
	cmd.Flags().String("store", "", "Record store driver: postgres or memory")
	cmd.Flags().String("seed-file", "", "JSON seed file for the memory store")
	cmd.Flags().String("db-conn-string", "", "Postgres connection string")
	cmd.Flags().Bool("auto-migrate", false, "Apply database migrations on startup")
	cmd.Flags().Duration("prepare-timeout", 0, "Timeout for agent prepare calls")
	cmd.Flags().String("cache", "", "Agent cache driver: none, lru or redis")
	cmd.Flags().String("redis-url", "", "Redis URL for the agent cache")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics")
	return cmd
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx)
	log.Info("Starting Orca orchestrator",
		"version", version.Get().Version,
		"transport", cfg.Server.Transport,
		"store", cfg.Store.Driver,
	)
	mon := monitoring.NewServiceWithFallback(ctx, &monitoring.Config{
		Enabled: cfg.Monitoring.Enabled,
		Path:    cfg.Monitoring.Path,
	})
	mon.SetAsGlobal()
	defer func() {
		if err := mon.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to shut down monitoring", "error", err)
		}
	}()
	provider, err := repo.NewProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer func() {
		if err := provider.Close(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to close record store", "error", err)
		}
	}()
	tools := toolserver.New(ctx, &toolserver.Deps{
		Agents:     provider.Agents(),
		Executions: provider.Executions(),
		Profiles:   provider.Profiles(),
		Dispatcher: agentclient.New(agentclient.Config{
			Timeout:   cfg.Agent.PrepareTimeout,
			UserAgent: cfg.Agent.UserAgent,
		}),
		HistoryDefaultLimit: cfg.History.DefaultLimit,
		HistoryMaxLimit:     cfg.History.MaxLimit,
		Metrics:             mon.Tools(),
	})
	switch cfg.Server.Transport {
	case transportHTTP:
		return newHTTPServer(ctx, cfg, provider, mon, tools).Run(ctx)
	case transportStdio:
		return serveStdio(ctx, cfg, provider, mon, tools)
	default:
		return fmt.Errorf("unsupported transport %q", cfg.Server.Transport)
	}
}

func newHTTPServer(
	ctx context.Context,
	cfg *config.Config,
	provider *repo.Provider,
	mon *monitoring.Service,
	tools *toolserver.Server,
) *server.Server {
	opts := server.Options{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Health:          provider,
		Monitoring:      mon,
	}
	if tools != nil {
		opts.MCP = tools.HTTPHandler()
	}
	return server.New(ctx, opts)
}

// serveStdio runs the stdio transport. With monitoring enabled an HTTP
// server without the MCP route exposes health and metrics alongside.
func serveStdio(
	ctx context.Context,
	cfg *config.Config,
	provider *repo.Provider,
	mon *monitoring.Service,
	tools *toolserver.Server,
) error {
	if !mon.IsInitialized() {
		return tools.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()
	g.Go(func() error {
		defer cancel()
		return tools.ServeStdio(gctx, os.Stdin, os.Stdout)
	})
	g.Go(func() error {
		return newHTTPServer(gctx, cfg, provider, mon, nil).Run(gctx)
	})
	return g.Wait()
}
