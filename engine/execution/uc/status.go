package uc

import (
	"context"

	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
)

type GetStatusInput struct {
	ExecutionID string
}

type GetStatus struct {
	executions execution.Repository
}

func NewGetStatus(executions execution.Repository) *GetStatus {
	return &GetStatus{executions: executions}
}

func (uc *GetStatus) Execute(ctx context.Context, in *GetStatusInput) (*execution.Detail, error) {
	if in == nil {
		in = &GetStatusInput{}
	}
	id, err := core.ParseID("execution_id", in.ExecutionID)
	if err != nil {
		return nil, err
	}
	return uc.executions.Get(ctx, id)
}
