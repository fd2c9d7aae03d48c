package uc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/cost"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/pkg/logger"
)

type CreateInput struct {
	AgentID    string
	UserID     string
	Goal       string
	Parameters core.Map
}

type CreateOutput struct {
	Execution *execution.Execution
	AgentName string
}

type Create struct {
	agents     agent.Repository
	executions execution.Repository
	now        func() time.Time
}

func NewCreate(agents agent.Repository, executions execution.Repository) *Create {
	return &Create{
		agents:     agents,
		executions: executions,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *Create) Execute(ctx context.Context, in *CreateInput) (*CreateOutput, error) {
	if in == nil {
		return nil, core.ValidationError("input is required")
	}
	agentID, err := core.ParseID("agent_id", in.AgentID)
	if err != nil {
		return nil, err
	}
	userID, err := core.ParseID("user_id", in.UserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Goal) == "" {
		return nil, core.ValidationError("goal is required")
	}
	log := logger.FromContext(ctx).With("agent_id", agentID, "user_id", userID)
	ag, err := uc.agents.Get(ctx, agentID)
	if err != nil {
		return nil, err
	}
	estimate := cost.EstimateGoal(in.Goal)
	results := in.Parameters
	if results == nil {
		results = core.Map{}
	}
	exec := &execution.Execution{
		ID:             core.NewID(),
		UserID:         userID,
		AgentID:        ag.ID,
		Goal:           in.Goal,
		Status:         execution.StatusPending,
		TokenCost:      estimate.TokenCost,
		TotalCost:      estimate.TotalCost,
		TimeTakenMS:    0,
		Results:        results,
		DecisionHashes: execution.DecisionHashes{},
		CreatedAt:      uc.now(),
	}
	saved, err := uc.executions.Create(ctx, exec)
	if err != nil {
		return nil, err
	}
	if err := verifyCreated(exec, saved); err != nil {
		log.Error("Execution insert could not be verified", "execution_id", exec.ID, "error", err)
		return nil, err
	}
	log.Info("Execution created", "execution_id", saved.ID, "token_cost", saved.TokenCost)
	return &CreateOutput{Execution: saved, AgentName: ag.Name}, nil
}

func verifyCreated(want, got *execution.Execution) error {
	switch {
	case got == nil:
		return core.StoreError("insert execution", fmt.Errorf("no row returned"))
	case got.ID != want.ID:
		return core.StoreError("insert execution", fmt.Errorf("returned id %s, expected %s", got.ID, want.ID))
	case got.Status != execution.StatusPending:
		return core.StoreError("insert execution", fmt.Errorf("returned status %s, expected pending", got.Status))
	}
	return nil
}
