package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orca-network/orca/engine/infra/monitoring"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/orca-network/orca/pkg/version"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	MCPPath                = "/mcp"
)

// HealthChecker reports whether the record store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Options struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	Health          HealthChecker
	Monitoring      *monitoring.Service
	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

// Server is the HTTP surface: health, metrics and optionally the MCP
// streamable HTTP transport.
type Server struct {
	opts   Options
	router *gin.Engine
}

func New(ctx context.Context, opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(logger.FromContext(ctx)))
	if opts.Monitoring != nil {
		r.Use(opts.Monitoring.GinMiddleware(ctx))
	}
	s := &Server{opts: opts, router: r}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", CreateHealthHandler(s.opts.Health, version.Get().Version))
	if s.opts.Monitoring != nil && s.opts.Monitoring.IsInitialized() {
		s.router.GET(s.opts.Monitoring.Path(), gin.WrapH(s.opts.Monitoring.ExporterHandler()))
	}
	if s.opts.MCP != nil {
		h := gin.WrapH(s.opts.MCP)
		s.router.Any(MCPPath, h)
	}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Address() string {
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	srv := &http.Server{
		Addr:              s.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", fmt.Sprintf("http://%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Debug("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("HTTP server stopped")
	return nil
}
