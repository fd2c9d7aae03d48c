package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/wallet"
)

type ProfileRepo struct {
	db DB
}

var _ wallet.Repository = (*ProfileRepo)(nil)

func NewProfileRepo(db DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetProfile(ctx context.Context, userID core.ID) (*wallet.Profile, error) {
	query, args, err := psql.Select("id", "role", "wallet_balance", "monthly_budget", "created_at", "updated_at").
		From("profiles").
		Where(squirrel.Eq{"id": string(userID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile query: %w", err)
	}
	var profile wallet.Profile
	if err := pgxscan.Get(ctx, r.db, &profile, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, core.NotFoundError("profile", userID.String())
		}
		return nil, core.StoreError("get profile", err)
	}
	return &profile, nil
}
