package toolserver

import (
	"encoding/json"
	"time"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/shopspring/decimal"
)

// money renders amounts as JSON numbers with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func nullableMoney(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	m := money(d.Decimal)
	return &m
}

type agentView struct {
	ID                    core.ID      `json:"id"`
	CreatorID             core.ID      `json:"creator_id"`
	Name                  string       `json:"name"`
	Description           string       `json:"description"`
	Category              string       `json:"category"`
	Status                agent.Status `json:"status"`
	PricingType           string       `json:"pricing_type"`
	PriceDetails          core.Map     `json:"price_details"`
	APIEndpoint           string       `json:"api_endpoint"`
	MaxConcurrentRequests int          `json:"max_concurrent_requests"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func newAgentView(a *agent.Agent) agentView {
	return agentView{
		ID:                    a.ID,
		CreatorID:             a.CreatorID,
		Name:                  a.Name,
		Description:           a.Description,
		Category:              a.Category,
		Status:                a.Status,
		PricingType:           a.PricingType,
		PriceDetails:          a.PriceDetails,
		APIEndpoint:           a.APIEndpoint,
		MaxConcurrentRequests: a.MaxConcurrentRequests,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
}

type executionView struct {
	ID             core.ID                 `json:"id"`
	UserID         core.ID                 `json:"user_id"`
	AgentID        core.ID                 `json:"agent_id"`
	Goal           string                  `json:"goal"`
	Status         execution.Status        `json:"status"`
	TokenCost      int64                   `json:"token_cost"`
	TotalCost      json.Number             `json:"total_cost"`
	TimeTakenMS    int64                   `json:"time_taken_ms"`
	Results        core.Map                `json:"results"`
	DecisionHashes execution.DecisionHashes `json:"decision_hashes"`
	CreatedAt      time.Time               `json:"created_at"`
	Agent          execution.AgentSummary  `json:"agents"`
}

func newExecutionView(d *execution.Detail) executionView {
	hashes := d.DecisionHashes
	if hashes == nil {
		hashes = execution.DecisionHashes{}
	}
	return executionView{
		ID:             d.ID,
		UserID:         d.UserID,
		AgentID:        d.AgentID,
		Goal:           d.Goal,
		Status:         d.Status,
		TokenCost:      d.TokenCost,
		TotalCost:      money(d.TotalCost),
		TimeTakenMS:    d.TimeTakenMS,
		Results:        d.Results,
		DecisionHashes: hashes,
		CreatedAt:      d.CreatedAt,
		Agent:          d.Agent,
	}
}

type registryResponse struct {
	Status string      `json:"status"`
	Agents []agentView `json:"agents"`
	Count  int         `json:"count"`
}

type createResponse struct {
	Status        string      `json:"status"`
	ExecutionID   core.ID     `json:"execution_id"`
	EstimatedCost json.Number `json:"estimated_cost"`
	TokenCost     int64       `json:"token_cost"`
	AgentName     string      `json:"agent_name"`
	Message       string      `json:"message"`
}

type statusResponse struct {
	Status    string        `json:"status"`
	Execution executionView `json:"execution"`
}

type historyResponse struct {
	Status     string          `json:"status"`
	Executions []executionView `json:"executions"`
	Count      int             `json:"count"`
}

type walletResponse struct {
	Status        string       `json:"status"`
	UserID        core.ID      `json:"user_id"`
	WalletBalance json.Number  `json:"wallet_balance"`
	MonthlyBudget *json.Number `json:"monthly_budget"`
}
