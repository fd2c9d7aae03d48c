package uc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/pkg/logger"
)

type PrepareInput struct {
	ExecutionID string
}

type PrepareOutput struct {
	// Body is the agent's response, unmodified.
	Body         json.RawMessage
	JobInputHash string
}

// Prepare hands a pending execution to its agent. Only pending executions
// are dispatched; the status moves to prepared after a 2xx JSON reply.
// The call is not deduplicated on the wire: two callers racing on the same
// execution may both reach the agent, but only one transition is recorded.
type Prepare struct {
	executions execution.Repository
	agents     agent.Repository
	dispatcher execution.Dispatcher
}

func NewPrepare(
	executions execution.Repository,
	agents agent.Repository,
	dispatcher execution.Dispatcher,
) *Prepare {
	return &Prepare{executions: executions, agents: agents, dispatcher: dispatcher}
}

func (uc *Prepare) Execute(ctx context.Context, in *PrepareInput) (*PrepareOutput, error) {
	if in == nil {
		in = &PrepareInput{}
	}
	id, err := core.ParseID("execution_id", in.ExecutionID)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With("execution_id", id)
	detail, err := uc.executions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.Status != execution.StatusPending {
		return nil, fmt.Errorf("%w: execution %s is %s, only pending executions can be prepared",
			core.ErrConflict, id, detail.Status)
	}
	ag, err := uc.agents.Get(ctx, detail.AgentID)
	if err != nil {
		return nil, err
	}
	prepareURL, err := execution.PrepareURL(ag.APIEndpoint)
	if err != nil {
		return nil, err
	}
	payload, err := execution.BuildPreparePayload(&detail.Execution)
	if err != nil {
		return nil, err
	}
	log.Debug("Dispatching prepare request", "agent_id", ag.ID, "url", prepareURL)
	resp, err := uc.dispatcher.Prepare(ctx, prepareURL, payload)
	if err != nil {
		logRemoteFailure(log, err)
		return nil, err
	}
	if !json.Valid(resp.Body) {
		log.Warn("Agent returned a non-JSON prepare response", "status_code", resp.StatusCode)
		return nil, &core.RemoteRejectedError{
			StatusCode: resp.StatusCode,
			Body:       string(resp.Body),
			Reason:     "response body is not valid JSON",
		}
	}
	if err := uc.executions.MarkPrepared(ctx, id, payload.JobInputHash); err != nil {
		log.Warn("Failed to record prepared execution", "error", err)
		return nil, err
	}
	log.Info("Execution prepared", "job_input_hash", payload.JobInputHash)
	return &PrepareOutput{Body: json.RawMessage(resp.Body), JobInputHash: payload.JobInputHash}, nil
}

func logRemoteFailure(log logger.Logger, err error) {
	var rejected *core.RemoteRejectedError
	if errors.As(err, &rejected) {
		log.Warn("Agent rejected prepare request", "status_code", rejected.StatusCode)
		return
	}
	log.Warn("Agent prepare request failed", "error", err)
}
