package uc

import (
	"context"

	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/pkg/logger"
)

type ListHistoryInput struct {
	UserID string
	// Limit is optional; nil selects the default limit.
	Limit  *int
	Status string
}

// ListHistory returns a user's executions, newest first.
type ListHistory struct {
	executions   execution.Repository
	defaultLimit int
	maxLimit     int
}

func NewListHistory(executions execution.Repository, defaultLimit, maxLimit int) *ListHistory {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &ListHistory{executions: executions, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (uc *ListHistory) Execute(ctx context.Context, in *ListHistoryInput) ([]execution.Detail, error) {
	if in == nil {
		in = &ListHistoryInput{}
	}
	userID, err := core.ParseID("user_id", in.UserID)
	if err != nil {
		return nil, err
	}
	limit := uc.defaultLimit
	if in.Limit != nil {
		limit = *in.Limit
	}
	if limit <= 0 {
		return nil, core.ValidationError("limit must be a positive integer, got %d", limit)
	}
	if limit > uc.maxLimit {
		logger.FromContext(ctx).Debug("Clamping history limit", "requested", limit, "max", uc.maxLimit)
		limit = uc.maxLimit
	}
	status, err := execution.ParseStatusFilter(in.Status)
	if err != nil {
		return nil, err
	}
	items, err := uc.executions.ListByUser(ctx, execution.HistoryQuery{
		UserID: userID,
		Limit:  limit,
		Status: status,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []execution.Detail{}
	}
	return items, nil
}
