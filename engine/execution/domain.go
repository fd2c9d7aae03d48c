package execution

import (
	"strings"
	"time"

	"github.com/orca-network/orca/engine/core"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPrepared  Status = "prepared"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// statusAll disables status filtering in history queries.
const statusAll = "all"

var statuses = []Status{StatusPending, StatusPrepared, StatusRunning, StatusCompleted, StatusFailed}

func (s Status) IsValid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatusFilter returns the status to filter on; empty means no filter.
func ParseStatusFilter(raw string) (Status, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == statusAll {
		return "", nil
	}
	status := Status(value)
	if !status.IsValid() {
		return "", core.ValidationError(
			"status must be one of pending, prepared, running, completed, failed, all; got %q", raw,
		)
	}
	return status, nil
}

// DecisionHashes maps a hash purpose to its hex digest.
type DecisionHashes map[string]string

// Execution is a billable job run against an agent on behalf of a user.
type Execution struct {
	ID             core.ID         `json:"id"`
	UserID         core.ID         `json:"user_id"`
	AgentID        core.ID         `json:"agent_id"`
	Goal           string          `json:"goal"`
	Status         Status          `json:"status"`
	TokenCost      int64           `json:"token_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TimeTakenMS    int64           `json:"time_taken_ms"`
	Results        core.Map        `json:"results"`
	DecisionHashes DecisionHashes  `json:"decision_hashes"`
	CreatedAt      time.Time       `json:"created_at"`
}

// JobInputHash returns the hash recorded at prepare time, if any.
func (e *Execution) JobInputHash() (string, bool) {
	h, ok := e.DecisionHashes[core.JobInputHashKey]
	return h, ok
}

// AgentSummary is the agent information joined into execution reads.
type AgentSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Detail is an execution together with its agent summary.
type Detail struct {
	Execution
	Agent AgentSummary `json:"agents"`
}

// HistoryQuery selects a user's executions, newest first.
type HistoryQuery struct {
	UserID core.ID
	Limit  int
	Status Status
}
