package uc

import (
	"context"

	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/wallet"
	"github.com/orca-network/orca/pkg/logger"
	"github.com/shopspring/decimal"
)

type GetInput struct {
	UserID string
}

type GetOutput struct {
	UserID        core.ID
	WalletBalance decimal.Decimal
	MonthlyBudget decimal.NullDecimal
}

type Get struct {
	repo wallet.Repository
}

func NewGet(repo wallet.Repository) *Get {
	return &Get{repo: repo}
}

func (uc *Get) Execute(ctx context.Context, in *GetInput) (*GetOutput, error) {
	if in == nil {
		in = &GetInput{}
	}
	userID, err := core.ParseID("user_id", in.UserID)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("Fetching wallet", "user_id", userID)
	profile, err := uc.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{
		UserID:        profile.ID,
		WalletBalance: profile.WalletBalance,
		MonthlyBudget: profile.MonthlyBudget,
	}, nil
}
