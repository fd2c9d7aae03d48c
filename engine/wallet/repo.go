package wallet

import (
	"context"

	"github.com/orca-network/orca/engine/core"
)

type Repository interface {
	GetProfile(ctx context.Context, userID core.ID) (*Profile, error)
}
