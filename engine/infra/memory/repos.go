package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/engine/wallet"
)

type AgentRepo struct {
	store *Store
}

var _ agent.Repository = (*AgentRepo)(nil)

func (r *AgentRepo) List(ctx context.Context, filter agent.Filter) ([]agent.Agent, error) {
	if err := r.store.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.store.mu.RUnlock()
	out := make([]agent.Agent, 0, len(r.store.agents))
	for _, a := range r.store.agents {
		if filter.Matches(&a) {
			a.PriceDetails = maps.Clone(a.PriceDetails)
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b agent.Agent) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *AgentRepo) Get(ctx context.Context, id core.ID) (*agent.Agent, error) {
	if err := r.store.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.store.mu.RUnlock()
	a, ok := r.store.agents[id]
	if !ok {
		return nil, core.NotFoundError("agent", id.String())
	}
	a.PriceDetails = maps.Clone(a.PriceDetails)
	return &a, nil
}

type ProfileRepo struct {
	store *Store
}

var _ wallet.Repository = (*ProfileRepo)(nil)

func (r *ProfileRepo) GetProfile(ctx context.Context, userID core.ID) (*wallet.Profile, error) {
	if err := r.store.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.store.mu.RUnlock()
	p, ok := r.store.profiles[userID]
	if !ok {
		return nil, core.NotFoundError("profile", userID.String())
	}
	return &p, nil
}

type ExecutionRepo struct {
	store *Store
}

var _ execution.Repository = (*ExecutionRepo)(nil)

func (r *ExecutionRepo) Create(ctx context.Context, exec *execution.Execution) (*execution.Execution, error) {
	if err := r.store.writeLock(ctx); err != nil {
		return nil, err
	}
	defer r.store.mu.Unlock()
	if _, exists := r.store.executions[exec.ID]; exists {
		return nil, core.StoreError("insert execution", fmt.Errorf("duplicate id %s", exec.ID))
	}
	if _, ok := r.store.agents[exec.AgentID]; !ok {
		return nil, core.StoreError("insert execution", fmt.Errorf("agent %s does not exist", exec.AgentID))
	}
	r.store.executions[exec.ID] = cloneExecution(exec)
	saved := cloneExecution(exec)
	return &saved, nil
}

func (r *ExecutionRepo) Get(ctx context.Context, id core.ID) (*execution.Detail, error) {
	if err := r.store.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.store.mu.RUnlock()
	e, ok := r.store.executions[id]
	if !ok {
		return nil, core.NotFoundError("execution", id.String())
	}
	detail := r.detail(&e)
	return &detail, nil
}

func (r *ExecutionRepo) ListByUser(ctx context.Context, q execution.HistoryQuery) ([]execution.Detail, error) {
	if q.Limit <= 0 {
		return nil, core.ValidationError("limit must be a positive integer, got %d", q.Limit)
	}
	if err := r.store.readLock(ctx); err != nil {
		return nil, err
	}
	defer r.store.mu.RUnlock()
	matched := make([]*execution.Execution, 0)
	for id := range r.store.executions {
		e := r.store.executions[id]
		if e.UserID != q.UserID {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		matched = append(matched, &e)
	}
	slices.SortFunc(matched, func(a, b *execution.Execution) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	out := make([]execution.Detail, 0, len(matched))
	for _, e := range matched {
		out = append(out, r.detail(e))
	}
	return out, nil
}

func (r *ExecutionRepo) MarkPrepared(ctx context.Context, id core.ID, jobInputHash string) error {
	if err := r.store.writeLock(ctx); err != nil {
		return err
	}
	defer r.store.mu.Unlock()
	e, ok := r.store.executions[id]
	if !ok {
		return core.NotFoundError("execution", id.String())
	}
	if e.Status != execution.StatusPending {
		return fmt.Errorf("%w: execution %s is %s, expected pending", core.ErrConflict, id, e.Status)
	}
	updated := cloneExecution(&e)
	updated.Status = execution.StatusPrepared
	updated.DecisionHashes[core.JobInputHashKey] = jobInputHash
	r.store.executions[id] = updated
	return nil
}

// detail must be called with the store lock held.
func (r *ExecutionRepo) detail(e *execution.Execution) execution.Detail {
	a := r.store.agents[e.AgentID]
	return execution.Detail{
		Execution: cloneExecution(e),
		Agent: execution.AgentSummary{
			Name:        a.Name,
			Description: a.Description,
			Category:    a.Category,
		},
	}
}
