package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var agentColumns = []string{
	"id", "creator_id", "name", "description", "category", "status", "pricing_type",
	"price_details", "api_endpoint", "max_concurrent_requests", "created_at", "updated_at",
}

type agentRow struct {
	ID                    core.ID   `db:"id"`
	CreatorID             core.ID   `db:"creator_id"`
	Name                  string    `db:"name"`
	Description           string    `db:"description"`
	Category              string    `db:"category"`
	Status                string    `db:"status"`
	PricingType           string    `db:"pricing_type"`
	PriceDetails          []byte    `db:"price_details"`
	APIEndpoint           string    `db:"api_endpoint"`
	MaxConcurrentRequests int       `db:"max_concurrent_requests"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func (r *agentRow) toDomain() (*agent.Agent, error) {
	details, err := decodeMap(r.PriceDetails)
	if err != nil {
		return nil, fmt.Errorf("decode price_details of agent %s: %w", r.ID, err)
	}
	return &agent.Agent{
		ID:                    r.ID,
		CreatorID:             r.CreatorID,
		Name:                  r.Name,
		Description:           r.Description,
		Category:              r.Category,
		Status:                agent.Status(r.Status),
		PricingType:           r.PricingType,
		PriceDetails:          details,
		APIEndpoint:           r.APIEndpoint,
		MaxConcurrentRequests: r.MaxConcurrentRequests,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}, nil
}

// AgentRepo reads the agent registry table.
type AgentRepo struct {
	db DB
}

var _ agent.Repository = (*AgentRepo)(nil)

func NewAgentRepo(db DB) *AgentRepo {
	return &AgentRepo{db: db}
}

func (r *AgentRepo) List(ctx context.Context, filter agent.Filter) ([]agent.Agent, error) {
	q := psql.Select(agentColumns...).From("agents").OrderBy("name ASC", "id ASC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list agents query: %w", err)
	}
	var rows []agentRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, core.StoreError("list agents", err)
	}
	agents := make([]agent.Agent, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			return nil, core.StoreError("list agents", err)
		}
		agents = append(agents, *a)
	}
	return agents, nil
}

func (r *AgentRepo) Get(ctx context.Context, id core.ID) (*agent.Agent, error) {
	query, args, err := psql.Select(agentColumns...).
		From("agents").
		Where(squirrel.Eq{"id": string(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get agent query: %w", err)
	}
	var row agentRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, core.NotFoundError("agent", id.String())
		}
		return nil, core.StoreError("get agent", err)
	}
	a, err := row.toDomain()
	if err != nil {
		return nil, core.StoreError("get agent", err)
	}
	return a, nil
}

func decodeMap(data []byte) (core.Map, error) {
	var m core.Map
	if len(data) == 0 {
		return core.Map{}, nil
	}
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}
