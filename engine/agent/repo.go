package agent

import (
	"context"

	"github.com/orca-network/orca/engine/core"
)

// Repository reads the agent registry. Get returns core.ErrNotFound for
// unknown ids.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Agent, error)
	Get(ctx context.Context, id core.ID) (*Agent, error)
}
