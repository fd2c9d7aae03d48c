package uc

import (
	"context"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/stretchr/testify/mock"
)

const (
	agentID     = "0b9f3c8e-2a51-4c8e-8f0e-3f6d7a1b2c01"
	userID      = "5a1d2c3b-4e5f-4a6b-8c7d-9e0f1a2b3c02"
	executionID = "9c8b7a6d-5e4f-4321-8fed-cba987654303"
)

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) List(ctx context.Context, filter agent.Filter) ([]agent.Agent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) Get(ctx context.Context, id core.ID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Create(ctx context.Context, exec *execution.Execution) (*execution.Execution, error) {
	args := m.Called(ctx, exec)
	if fn, ok := args.Get(0).(func(context.Context, *execution.Execution) (*execution.Execution, error)); ok {
		return fn(ctx, exec)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*execution.Execution), args.Error(1)
}

func (m *MockExecutionRepository) Get(ctx context.Context, id core.ID) (*execution.Detail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*execution.Detail), args.Error(1)
}

func (m *MockExecutionRepository) ListByUser(
	ctx context.Context,
	query execution.HistoryQuery,
) ([]execution.Detail, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]execution.Detail), args.Error(1)
}

func (m *MockExecutionRepository) MarkPrepared(ctx context.Context, id core.ID, jobInputHash string) error {
	args := m.Called(ctx, id, jobInputHash)
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Prepare(
	ctx context.Context,
	prepareURL string,
	payload *execution.PreparePayload,
) (*execution.PrepareResponse, error) {
	args := m.Called(ctx, prepareURL, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*execution.PrepareResponse), args.Error(1)
}

func testAgent() *agent.Agent {
	return &agent.Agent{
		ID:          agentID,
		Name:        "Report Summarizer",
		Description: "Summarizes documents",
		Category:    "research",
		Status:      agent.StatusActive,
		APIEndpoint: "https://agent.example.com",
	}
}
