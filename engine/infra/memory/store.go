package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sync"

	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/orca-network/orca/engine/wallet"
	"github.com/orca-network/orca/pkg/logger"
)

// Store is an in-memory record store. It is safe for concurrent use and
// intended for local development and tests.
type Store struct {
	mu         sync.RWMutex
	agents     map[core.ID]agent.Agent
	profiles   map[core.ID]wallet.Profile
	executions map[core.ID]execution.Execution
	closed     bool
}

// Seed is the document accepted by LoadSeedFile.
type Seed struct {
	Agents   []agent.Agent    `json:"agents"`
	Profiles []wallet.Profile `json:"profiles"`
}

func NewStore() *Store {
	return &Store{
		agents:     make(map[core.ID]agent.Agent),
		profiles:   make(map[core.ID]wallet.Profile),
		executions: make(map[core.ID]execution.Execution),
	}
}

// LoadSeedFile reads a JSON seed document and adds its records to the store.
func (s *Store) LoadSeedFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}
	s.Seed(&seed)
	logger.FromContext(ctx).Info("Memory store seeded",
		"path", path,
		"agents", len(seed.Agents),
		"profiles", len(seed.Profiles),
	)
	return nil
}

// Seed replaces registry and profile records with the ones in seed.
func (s *Store) Seed(seed *Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range seed.Agents {
		a := seed.Agents[i]
		if a.PriceDetails == nil {
			a.PriceDetails = core.Map{}
		}
		s.agents[a.ID] = a
	}
	for i := range seed.Profiles {
		p := seed.Profiles[i]
		s.profiles[p.ID] = p
	}
}

func (s *Store) Agents() *AgentRepo {
	return &AgentRepo{store: s}
}

func (s *Store) Executions() *ExecutionRepo {
	return &ExecutionRepo{store: s}
}

func (s *Store) Profiles() *ProfileRepo {
	return &ProfileRepo{store: s}
}

func (s *Store) HealthCheck(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

var errClosed = fmt.Errorf("%w: memory store is closed", core.ErrStore)

func (s *Store) readLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return errClosed
	}
	return nil
}

func (s *Store) writeLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errClosed
	}
	return nil
}

func cloneExecution(e *execution.Execution) execution.Execution {
	out := *e
	out.Results = maps.Clone(e.Results)
	if out.Results == nil {
		out.Results = core.Map{}
	}
	out.DecisionHashes = maps.Clone(e.DecisionHashes)
	if out.DecisionHashes == nil {
		out.DecisionHashes = execution.DecisionHashes{}
	}
	return out
}
