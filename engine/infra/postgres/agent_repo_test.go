package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAgentID   = "0b9f3c8e-2a51-4c8e-8f0e-3f6d7a1b2c01"
	testCreatorID = "7e6d5c4b-3a29-4817-a6b5-c4d3e2f1a004"
	testUserID    = "5a1d2c3b-4e5f-4a6b-8c7d-9e0f1a2b3c02"
	testExecID    = "9c8b7a6d-5e4f-4321-8fed-cba987654303"
)

func agentRows(mock pgxmock.PgxPoolIface, now time.Time) *pgxmock.Rows {
	return mock.NewRows(agentColumns).
		AddRow(
			core.ID(testAgentID), core.ID(testCreatorID), "Report Summarizer", "Summarizes documents",
			"research", "active", "per_token", []byte(`{"per_token":0.001}`),
			"https://agent.example.com", 4, now, now,
		)
}

func TestAgentRepo_List(t *testing.T) {
	t.Run("Should list agents filtered by status and category", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM agents WHERE status = \$1 AND category = \$2 ORDER BY name ASC, id ASC`).
			WithArgs("active", "research").
			WillReturnRows(agentRows(mock, now))
		repo := NewAgentRepo(mock)
		agents, err := repo.List(context.Background(), agent.Filter{Status: agent.StatusActive, Category: "research"})
		require.NoError(t, err)
		require.Len(t, agents, 1)
		assert.Equal(t, core.ID(testAgentID), agents[0].ID)
		assert.Equal(t, agent.StatusActive, agents[0].Status)
		assert.Equal(t, core.Float(0.001), agents[0].PriceDetails["per_token"])
		assert.Equal(t, 4, agents[0].MaxConcurrentRequests)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should omit the WHERE clause without filters", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectQuery(`SELECT (.+) FROM agents ORDER BY name ASC, id ASC`).
			WillReturnRows(mock.NewRows(agentColumns))
		repo := NewAgentRepo(mock)
		agents, err := repo.List(context.Background(), agent.Filter{})
		require.NoError(t, err)
		assert.Empty(t, agents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should wrap query failures as store errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectQuery(`SELECT (.+) FROM agents`).WillReturnError(errors.New("connection reset"))
		repo := NewAgentRepo(mock)
		_, err = repo.List(context.Background(), agent.Filter{})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrStore)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestAgentRepo_Get(t *testing.T) {
	t.Run("Should return the agent by id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM agents WHERE id = \$1`).
			WithArgs(testAgentID).
			WillReturnRows(agentRows(mock, now))
		repo := NewAgentRepo(mock)
		a, err := repo.Get(context.Background(), core.ID(testAgentID))
		require.NoError(t, err)
		assert.Equal(t, "Report Summarizer", a.Name)
		assert.Equal(t, "https://agent.example.com", a.APIEndpoint)
		assert.Equal(t, now, a.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should return not found for unknown agents", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectQuery(`SELECT (.+) FROM agents WHERE id = \$1`).
			WithArgs(testAgentID).
			WillReturnRows(mock.NewRows(agentColumns))
		repo := NewAgentRepo(mock)
		_, err = repo.Get(context.Background(), core.ID(testAgentID))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
