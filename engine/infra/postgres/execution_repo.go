package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/shopspring/decimal"
)

var executionColumns = []string{
	"id", "user_id", "agent_id", "goal", "status", "token_cost", "total_cost",
	"time_taken_ms", "results", "decision_hashes", "created_at",
}

var executionDetailColumns = []string{
	"e.id", "e.user_id", "e.agent_id", "e.goal", "e.status", "e.token_cost", "e.total_cost",
	"e.time_taken_ms", "e.results", "e.decision_hashes", "e.created_at",
	"a.name AS agent_name", "a.description AS agent_description", "a.category AS agent_category",
}

type executionRow struct {
	ID               core.ID         `db:"id"`
	UserID           core.ID         `db:"user_id"`
	AgentID          core.ID         `db:"agent_id"`
	Goal             string          `db:"goal"`
	Status           string          `db:"status"`
	TokenCost        int64           `db:"token_cost"`
	TotalCost        decimal.Decimal `db:"total_cost"`
	TimeTakenMS      int64           `db:"time_taken_ms"`
	Results          []byte          `db:"results"`
	DecisionHashes   []byte          `db:"decision_hashes"`
	CreatedAt        time.Time       `db:"created_at"`
	AgentName        string          `db:"agent_name"`
	AgentDescription string          `db:"agent_description"`
	AgentCategory    string          `db:"agent_category"`
}

func (r *executionRow) toExecution() (*execution.Execution, error) {
	results, err := decodeMap(r.Results)
	if err != nil {
		return nil, fmt.Errorf("decode results of execution %s: %w", r.ID, err)
	}
	hashes := execution.DecisionHashes{}
	if len(r.DecisionHashes) > 0 {
		if err := json.Unmarshal(r.DecisionHashes, &hashes); err != nil {
			return nil, fmt.Errorf("decode decision_hashes of execution %s: %w", r.ID, err)
		}
		if hashes == nil {
			hashes = execution.DecisionHashes{}
		}
	}
	return &execution.Execution{
		ID:             r.ID,
		UserID:         r.UserID,
		AgentID:        r.AgentID,
		Goal:           r.Goal,
		Status:         execution.Status(r.Status),
		TokenCost:      r.TokenCost,
		TotalCost:      r.TotalCost,
		TimeTakenMS:    r.TimeTakenMS,
		Results:        results,
		DecisionHashes: hashes,
		CreatedAt:      r.CreatedAt.UTC(),
	}, nil
}

func (r *executionRow) toDetail() (*execution.Detail, error) {
	exec, err := r.toExecution()
	if err != nil {
		return nil, err
	}
	return &execution.Detail{
		Execution: *exec,
		Agent: execution.AgentSummary{
			Name:        r.AgentName,
			Description: r.AgentDescription,
			Category:    r.AgentCategory,
		},
	}, nil
}

// ExecutionRepo persists executions in Postgres.
type ExecutionRepo struct {
	db DB
}

var _ execution.Repository = (*ExecutionRepo)(nil)

func NewExecutionRepo(db DB) *ExecutionRepo {
	return &ExecutionRepo{db: db}
}

func (r *ExecutionRepo) Create(ctx context.Context, exec *execution.Execution) (*execution.Execution, error) {
	results, err := json.Marshal(exec.Results)
	if err != nil {
		return nil, core.ValidationError("parameters cannot be encoded: %s", err)
	}
	decisionHashes := exec.DecisionHashes
	if decisionHashes == nil {
		decisionHashes = execution.DecisionHashes{}
	}
	hashes, err := json.Marshal(decisionHashes)
	if err != nil {
		return nil, fmt.Errorf("encode decision hashes: %w", err)
	}
	query, args, err := psql.Insert("executions").
		Columns(executionColumns...).
		Values(
			string(exec.ID), string(exec.UserID), string(exec.AgentID), exec.Goal, string(exec.Status),
			exec.TokenCost, exec.TotalCost, exec.TimeTakenMS, results, hashes, exec.CreatedAt,
		).
		Suffix("RETURNING " + strings.Join(executionColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert execution query: %w", err)
	}
	var row executionRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		return nil, core.StoreError("insert execution", err)
	}
	saved, err := row.toExecution()
	if err != nil {
		return nil, core.StoreError("insert execution", err)
	}
	return saved, nil
}

func (r *ExecutionRepo) detailQuery() squirrel.SelectBuilder {
	return psql.Select(executionDetailColumns...).
		From("executions e").
		Join("agents a ON a.id = e.agent_id")
}

func (r *ExecutionRepo) Get(ctx context.Context, id core.ID) (*execution.Detail, error) {
	query, args, err := r.detailQuery().Where(squirrel.Eq{"e.id": string(id)}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get execution query: %w", err)
	}
	var row executionRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, core.NotFoundError("execution", id.String())
		}
		return nil, core.StoreError("get execution", err)
	}
	detail, err := row.toDetail()
	if err != nil {
		return nil, core.StoreError("get execution", err)
	}
	return detail, nil
}

func (r *ExecutionRepo) ListByUser(ctx context.Context, q execution.HistoryQuery) ([]execution.Detail, error) {
	sb := r.detailQuery().Where(squirrel.Eq{"e.user_id": string(q.UserID)})
	if q.Status != "" {
		sb = sb.Where(squirrel.Eq{"e.status": string(q.Status)})
	}
	if q.Limit <= 0 {
		return nil, core.ValidationError("limit must be a positive integer, got %d", q.Limit)
	}
	query, args, err := sb.OrderBy("e.created_at DESC", "e.id DESC").Limit(uint64(q.Limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list executions query: %w", err)
	}
	var rows []executionRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, core.StoreError("list executions", err)
	}
	out := make([]execution.Detail, 0, len(rows))
	for i := range rows {
		detail, err := rows[i].toDetail()
		if err != nil {
			return nil, core.StoreError("list executions", err)
		}
		out = append(out, *detail)
	}
	return out, nil
}

func (r *ExecutionRepo) MarkPrepared(ctx context.Context, id core.ID, jobInputHash string) error {
	query, args, err := psql.Update("executions").
		Set("status", string(execution.StatusPrepared)).
		Set("decision_hashes", squirrel.Expr(
			"decision_hashes || jsonb_build_object(?::text, ?::text)", core.JobInputHashKey, jobInputHash,
		)).
		Where(squirrel.Eq{"id": string(id)}).
		Where(squirrel.Eq{"status": string(execution.StatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark prepared query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return core.StoreError("mark execution prepared", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.explainMissedTransition(ctx, id)
}

// explainMissedTransition distinguishes a missing execution from one that
// already left the pending state.
func (r *ExecutionRepo) explainMissedTransition(ctx context.Context, id core.ID) error {
	query, args, err := psql.Select("status").From("executions").Where(squirrel.Eq{"id": string(id)}).ToSql()
	if err != nil {
		return fmt.Errorf("build execution status query: %w", err)
	}
	var status string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&status); err != nil {
		if pgxscan.NotFound(err) {
			return core.NotFoundError("execution", id.String())
		}
		return core.StoreError("read execution status", err)
	}
	return fmt.Errorf("%w: execution %s is %s, expected pending", core.ErrConflict, id, status)
}

