package toolserver

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/orca-network/orca/engine/agent"
	agentuc "github.com/orca-network/orca/engine/agent/uc"
	"github.com/orca-network/orca/engine/execution"
	execuc "github.com/orca-network/orca/engine/execution/uc"
	"github.com/orca-network/orca/engine/infra/monitoring"
	"github.com/orca-network/orca/engine/wallet"
	walletuc "github.com/orca-network/orca/engine/wallet/uc"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/orca-network/orca/pkg/version"
)

const ServerName = "Orca Orchestrator"

// Deps are the collaborators the tools run against.
type Deps struct {
	Agents              agent.Repository
	Executions          execution.Repository
	Profiles            wallet.Repository
	Dispatcher          execution.Dispatcher
	HistoryDefaultLimit int
	HistoryMaxLimit     int
	// Metrics may be nil.
	Metrics *monitoring.ToolMetrics
}

// Server exposes the orchestrator operations as MCP tools.
type Server struct {
	mcp      *server.MCPServer
	log      logger.Logger
	metrics  *monitoring.ToolMetrics
	handlers map[string]server.ToolHandlerFunc

	listAgents *agentuc.List
	create     *execuc.Create
	getStatus  *execuc.GetStatus
	history    *execuc.ListHistory
	getWallet  *walletuc.Get
	prepare    *execuc.Prepare
}

func New(ctx context.Context, deps *Deps) *Server {
	s := &Server{
		log:        logger.FromContext(ctx),
		handlers:   make(map[string]server.ToolHandlerFunc),
		metrics:    deps.Metrics,
		listAgents: agentuc.NewList(deps.Agents),
		create:     execuc.NewCreate(deps.Agents, deps.Executions),
		getStatus:  execuc.NewGetStatus(deps.Executions),
		history:    execuc.NewListHistory(deps.Executions, deps.HistoryDefaultLimit, deps.HistoryMaxLimit),
		getWallet:  walletuc.NewGet(deps.Profiles),
		prepare:    execuc.NewPrepare(deps.Executions, deps.Agents, deps.Dispatcher),
	}
	s.mcp = server.NewMCPServer(
		ServerName,
		version.Get().Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// CallTool invokes a registered tool directly, bypassing the transport.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return handler(ctx, req)
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithStateLess(true))
}

// ServeStdio serves the tools over newline-delimited JSON-RPC until ctx is
// canceled or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Info("Serving MCP tools over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}
