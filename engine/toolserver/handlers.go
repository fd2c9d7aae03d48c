package toolserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	agentuc "github.com/orca-network/orca/engine/agent/uc"
	"github.com/orca-network/orca/engine/core"
	execuc "github.com/orca-network/orca/engine/execution/uc"
	walletuc "github.com/orca-network/orca/engine/wallet/uc"
	"github.com/orca-network/orca/pkg/logger"
)

const pingReply = "Pong from Orca Orchestrator MCP Server! "

type handlerFunc func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// instrument turns every handler error into an error envelope and records
// the call outcome. Handlers never surface a JSON-RPC error.
func (s *Server) instrument(name string, fn handlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := s.log.With("tool", name)
		ctx = logger.ContextWithLogger(ctx, log)
		start := time.Now()
		res, err := fn(ctx, req.GetArguments())
		outcome := statusSuccess
		if err != nil {
			kind := core.KindOf(err)
			outcome = string(kind)
			logToolError(log, kind, err)
			res = errorResult(err)
		}
		s.metrics.RecordCall(ctx, name, outcome, time.Since(start))
		return res, nil
	}
}

func logToolError(log logger.Logger, kind core.Kind, err error) {
	switch kind {
	case core.KindStore, core.KindInternal:
		log.Error("Tool call failed", "kind", kind, "error", err)
	case core.KindRemoteRejected, core.KindRemoteUnreachable, core.KindConflict:
		log.Warn("Tool call failed", "kind", kind, "error", err)
	default:
		log.Debug("Tool call rejected", "kind", kind, "error", err)
	}
}

func (s *Server) handleGetRegistry(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	status, err := stringArg(args, "status")
	if err != nil {
		return nil, err
	}
	category, err := stringArg(args, "category")
	if err != nil {
		return nil, err
	}
	out, err := s.listAgents.Execute(ctx, &agentuc.ListInput{Status: status, Category: category})
	if err != nil {
		return nil, err
	}
	views := make([]agentView, 0, len(out.Agents))
	for i := range out.Agents {
		views = append(views, newAgentView(&out.Agents[i]))
	}
	return jsonResult(registryResponse{Status: statusSuccess, Agents: views, Count: len(views)})
}

func (s *Server) handleCreateExecution(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	in := &execuc.CreateInput{}
	var err error
	if in.AgentID, err = stringArg(args, "agent_id"); err != nil {
		return nil, err
	}
	if in.UserID, err = stringArg(args, "user_id"); err != nil {
		return nil, err
	}
	if in.Goal, err = stringArg(args, "goal"); err != nil {
		return nil, err
	}
	if in.Parameters, err = mapArg(args, "parameters"); err != nil {
		return nil, err
	}
	out, err := s.create.Execute(ctx, in)
	if err != nil {
		return nil, err
	}
	return jsonResult(createResponse{
		Status:        statusCreated,
		ExecutionID:   out.Execution.ID,
		EstimatedCost: money(out.Execution.TotalCost),
		TokenCost:     out.Execution.TokenCost,
		AgentName:     out.AgentName,
		Message:       "Execution created successfully",
	})
}

func (s *Server) handleGetExecutionStatus(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	id, err := stringArg(args, "execution_id")
	if err != nil {
		return nil, err
	}
	detail, err := s.getStatus.Execute(ctx, &execuc.GetStatusInput{ExecutionID: id})
	if err != nil {
		return nil, err
	}
	return jsonResult(statusResponse{Status: statusSuccess, Execution: newExecutionView(detail)})
}

func (s *Server) handleGetExecutionHistory(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	in := &execuc.ListHistoryInput{}
	var err error
	if in.UserID, err = stringArg(args, "user_id"); err != nil {
		return nil, err
	}
	if in.Limit, err = intArg(args, "limit"); err != nil {
		return nil, err
	}
	if in.Status, err = stringArg(args, "status"); err != nil {
		return nil, err
	}
	details, err := s.history.Execute(ctx, in)
	if err != nil {
		return nil, err
	}
	views := make([]executionView, 0, len(details))
	for i := range details {
		views = append(views, newExecutionView(&details[i]))
	}
	return jsonResult(historyResponse{Status: statusSuccess, Executions: views, Count: len(views)})
}

func (s *Server) handleGetWalletBalance(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	userID, err := stringArg(args, "user_id")
	if err != nil {
		return nil, err
	}
	out, err := s.getWallet.Execute(ctx, &walletuc.GetInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	return jsonResult(walletResponse{
		Status:        statusSuccess,
		UserID:        out.UserID,
		WalletBalance: money(out.WalletBalance),
		MonthlyBudget: nullableMoney(out.MonthlyBudget),
	})
}

// handlePrepareJob returns the agent's response body verbatim.
func (s *Server) handlePrepareJob(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	id, err := stringArg(args, "execution_id")
	if err != nil {
		return nil, err
	}
	out, err := s.prepare.Execute(ctx, &execuc.PrepareInput{ExecutionID: id})
	if err != nil {
		s.metrics.RecordPrepare(ctx, string(core.KindOf(err)))
		return nil, err
	}
	s.metrics.RecordPrepare(ctx, statusSuccess)
	return mcp.NewToolResultText(string(out.Body)), nil
}

func (s *Server) handlePing(_ context.Context, args map[string]any) (*mcp.CallToolResult, error) {
	message, err := stringArg(args, "message")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(pingReply + message), nil
}
