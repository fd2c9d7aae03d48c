package execution

import (
	"context"

	"github.com/orca-network/orca/engine/core"
)

// Repository persists executions. Single-row writes are atomic.
type Repository interface {
	// Create inserts exec and returns the row as persisted.
	Create(ctx context.Context, exec *Execution) (*Execution, error)
	// Get returns core.ErrNotFound for unknown ids.
	Get(ctx context.Context, id core.ID) (*Detail, error)
	ListByUser(ctx context.Context, query HistoryQuery) ([]Detail, error)
	// MarkPrepared moves a pending execution to prepared and records the job
	// input hash. It returns core.ErrConflict when the execution is no longer
	// pending and core.ErrNotFound when it does not exist.
	MarkPrepared(ctx context.Context, id core.ID, jobInputHash string) error
}
