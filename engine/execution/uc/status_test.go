package uc

import (
	"context"
	"testing"

	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetStatus_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the execution with its agent summary", func(t *testing.T) {
		execs := &MockExecutionRepository{}
		execs.On("Get", ctx, core.ID(executionID)).Return(&execution.Detail{
			Execution: execution.Execution{ID: executionID, Status: execution.StatusPending},
			Agent:     execution.AgentSummary{Name: "Report Summarizer", Category: "research"},
		}, nil)
		got, err := NewGetStatus(execs).Execute(ctx, &GetStatusInput{ExecutionID: executionID})
		require.NoError(t, err)
		assert.Equal(t, execution.StatusPending, got.Status)
		assert.Equal(t, "Report Summarizer", got.Agent.Name)
	})

	t.Run("Should report unknown executions as not found", func(t *testing.T) {
		execs := &MockExecutionRepository{}
		execs.On("Get", ctx, core.ID(executionID)).Return(nil, core.NotFoundError("execution", executionID))
		_, err := NewGetStatus(execs).Execute(ctx, &GetStatusInput{ExecutionID: executionID})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("Should reject a missing execution id", func(t *testing.T) {
		execs := &MockExecutionRepository{}
		_, err := NewGetStatus(execs).Execute(ctx, nil)
		assert.ErrorIs(t, err, core.ErrValidation)
		execs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
