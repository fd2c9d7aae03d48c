package cache

import (
	"context"
	"encoding/json"
	"maps"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/pkg/logger"
)

const (
	DefaultTTL    = time.Minute
	DefaultSize   = 512
	DefaultPrefix = "orca:agent:"
)

// RedisAgentRepository caches agent lookups by id in Redis. Listings and
// failed lookups always go to the wrapped repository.
type RedisAgentRepository struct {
	repo   agent.Repository
	client Interface
	ttl    time.Duration
	prefix string
}

var _ agent.Repository = (*RedisAgentRepository)(nil)

func NewRedisAgentRepository(
	repo agent.Repository,
	client Interface,
	ttl time.Duration,
	prefix string,
) *RedisAgentRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisAgentRepository{repo: repo, client: client, ttl: ttl, prefix: prefix}
}

func (c *RedisAgentRepository) cacheKey(id core.ID) string {
	return c.prefix + id.String()
}

func (c *RedisAgentRepository) List(ctx context.Context, filter agent.Filter) ([]agent.Agent, error) {
	return c.repo.List(ctx, filter)
}

func (c *RedisAgentRepository) Get(ctx context.Context, id core.ID) (*agent.Agent, error) {
	log := logger.FromContext(ctx)
	key := c.cacheKey(id)
	cached := c.client.Get(ctx, key)
	if cached.Err() == nil {
		var a agent.Agent
		if err := json.Unmarshal([]byte(cached.Val()), &a); err == nil {
			log.Debug("Agent cache hit", "cache_key", key)
			return &a, nil
		}
		log.Debug("Discarding unreadable cached agent", "cache_key", key)
	}
	a, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(a)
	if err != nil {
		log.Warn("Failed to marshal agent for cache", "error", err)
		return a, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn("Failed to cache agent", "cache_key", key, "error", err)
	}
	return a, nil
}

// Invalidate drops the cached entry for id.
func (c *RedisAgentRepository) Invalidate(ctx context.Context, id core.ID) error {
	return c.client.Del(ctx, c.cacheKey(id)).Err()
}

// LRUAgentRepository keeps recently used agents in process memory.
type LRUAgentRepository struct {
	repo  agent.Repository
	cache *expirable.LRU[core.ID, agent.Agent]
}

var _ agent.Repository = (*LRUAgentRepository)(nil)

func NewLRUAgentRepository(repo agent.Repository, size int, ttl time.Duration) *LRUAgentRepository {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRUAgentRepository{
		repo:  repo,
		cache: expirable.NewLRU[core.ID, agent.Agent](size, nil, ttl),
	}
}

func (c *LRUAgentRepository) List(ctx context.Context, filter agent.Filter) ([]agent.Agent, error) {
	return c.repo.List(ctx, filter)
}

func (c *LRUAgentRepository) Get(ctx context.Context, id core.ID) (*agent.Agent, error) {
	if a, ok := c.cache.Get(id); ok {
		a.PriceDetails = maps.Clone(a.PriceDetails)
		return &a, nil
	}
	a, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := *a
	entry.PriceDetails = maps.Clone(a.PriceDetails)
	c.cache.Add(id, entry)
	return a, nil
}

func (c *LRUAgentRepository) Invalidate(_ context.Context, id core.ID) error {
	c.cache.Remove(id)
	return nil
}
