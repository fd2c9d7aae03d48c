package toolserver

import "github.com/mark3labs/mcp-go/mcp"

const (
	ToolGetRegistry         = "get_registry"
	ToolCreateExecution     = "create_execution"
	ToolGetExecutionStatus  = "get_execution_status"
	ToolGetExecutionHistory = "get_execution_history"
	ToolGetWalletBalance    = "get_wallet_balance"
	ToolPrepareJob          = "prepare_job"
	ToolPing                = "ping"
)

func (s *Server) addTool(tool mcp.Tool, fn handlerFunc) {
	handler := s.instrument(tool.Name, fn)
	s.handlers[tool.Name] = handler
	s.mcp.AddTool(tool, handler)
}

func (s *Server) registerTools() {
	s.addTool(mcp.NewTool(ToolGetRegistry,
		mcp.WithDescription("Get the list of available agents from the registry."),
		mcp.WithString("status",
			mcp.Description("Filter agents by status (active by default, all for no filter)"),
			mcp.DefaultString("active"),
		),
		mcp.WithString("category", mcp.Description("Filter agents by category")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetRegistry)

	s.addTool(mcp.NewTool(ToolCreateExecution,
		mcp.WithDescription("Create a new pending execution job for an agent."),
		mcp.WithString("agent_id", mcp.Required(), mcp.Description("The ID of the agent to execute")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The ID of the user creating the execution")),
		mcp.WithString("goal", mcp.Required(), mcp.Description("The goal or task description for the execution")),
		mcp.WithObject("parameters", mcp.Description("Additional parameters stored as the job input")),
	), s.handleCreateExecution)

	s.addTool(mcp.NewTool(ToolGetExecutionStatus,
		mcp.WithDescription("Get execution status and results."),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The ID of the execution to check")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetExecutionStatus)

	s.addTool(mcp.NewTool(ToolGetExecutionHistory,
		mcp.WithDescription("Get a user's execution history, newest first."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The ID of the user")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of executions to return"),
			mcp.DefaultNumber(10),
		),
		mcp.WithString("status",
			mcp.Description("Filter by execution status or all"),
			mcp.DefaultString("all"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetExecutionHistory)

	s.addTool(mcp.NewTool(ToolGetWalletBalance,
		mcp.WithDescription("Get user wallet balance and budget information."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The ID of the user")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetWalletBalance)

	s.addTool(mcp.NewTool(ToolPrepareJob,
		mcp.WithDescription("Prepare a pending job by calling the agent's prepare endpoint."),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("The ID of the execution to prepare")),
		mcp.WithOpenWorldHintAnnotation(true),
	), s.handlePrepareJob)

	s.addTool(mcp.NewTool(ToolPing,
		mcp.WithDescription("Ping the server to check if it's running."),
		mcp.WithString("message", mcp.Description("Optional text echoed back")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handlePing)
}
