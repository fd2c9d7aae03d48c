package uc

import (
	"context"
	"strings"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/pkg/logger"
)

const statusAll = "all"

type ListInput struct {
	Status   string
	Category string
}

type ListOutput struct {
	Agents []agent.Agent
}

// List returns registry agents. Status defaults to active; "all" disables
// the status filter and any other value is matched exactly.
type List struct {
	repo agent.Repository
}

func NewList(repo agent.Repository) *List {
	return &List{repo: repo}
}

func (uc *List) Execute(ctx context.Context, in *ListInput) (*ListOutput, error) {
	if in == nil {
		in = &ListInput{}
	}
	filter := buildFilter(in)
	logger.FromContext(ctx).Debug("Listing agents", "status", filter.Status, "category", filter.Category)
	agents, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if agents == nil {
		agents = []agent.Agent{}
	}
	return &ListOutput{Agents: agents}, nil
}

func buildFilter(in *ListInput) agent.Filter {
	status := strings.TrimSpace(in.Status)
	filter := agent.Filter{Category: strings.TrimSpace(in.Category)}
	switch strings.ToLower(status) {
	case "":
		filter.Status = agent.StatusActive
	case statusAll:
	case string(agent.StatusActive), string(agent.StatusInactive):
		filter.Status = agent.Status(strings.ToLower(status))
	default:
		filter.Status = agent.Status(status)
	}
	return filter
}
