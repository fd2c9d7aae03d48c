package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/orca-network/orca/engine/core"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileColumns = []string{"id", "role", "wallet_balance", "monthly_budget", "created_at", "updated_at"}

func TestProfileRepo_GetProfile(t *testing.T) {
	t.Run("Should read balance and budget", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		budget := decimal.NewNullDecimal(decimal.RequireFromString("200.00"))
		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
			WithArgs(testUserID).
			WillReturnRows(mock.NewRows(profileColumns).AddRow(
				core.ID(testUserID), "user", decimal.RequireFromString("42.50"), budget, now, now,
			))
		repo := NewProfileRepo(mock)
		profile, err := repo.GetProfile(context.Background(), core.ID(testUserID))
		require.NoError(t, err)
		assert.Equal(t, "42.5", profile.WalletBalance.String())
		require.True(t, profile.MonthlyBudget.Valid)
		assert.Equal(t, "200", profile.MonthlyBudget.Decimal.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	t.Run("Should return not found for unknown users", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
			WithArgs(testUserID).
			WillReturnRows(mock.NewRows(profileColumns))
		repo := NewProfileRepo(mock)
		_, err = repo.GetProfile(context.Background(), core.ID(testUserID))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
