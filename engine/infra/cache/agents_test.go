package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/orca-network/orca/engine/agent"
	"github.com/orca-network/orca/engine/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const agentID = core.ID("0b9f3c8e-2a51-4c8e-8f0e-3f6d7a1b2c01")

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) List(ctx context.Context, filter agent.Filter) ([]agent.Agent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) Get(ctx context.Context, id core.ID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func testAgent() *agent.Agent {
	return &agent.Agent{
		ID:           agentID,
		Name:         "Report Summarizer",
		Status:       agent.StatusActive,
		PriceDetails: core.Map{"per_token": core.Float(0.001)},
		APIEndpoint:  "https://agent.example.com",
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisAgentRepository_Get(t *testing.T) {
	t.Run("Should serve repeated lookups from redis", func(t *testing.T) {
		mr, client := setupRedis(t)
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(testAgent(), nil).Once()
		cached := NewRedisAgentRepository(repo, client, time.Minute, "")
		ctx := context.Background()
		first, err := cached.Get(ctx, agentID)
		require.NoError(t, err)
		second, err := cached.Get(ctx, agentID)
		require.NoError(t, err)
		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.PriceDetails, second.PriceDetails)
		assert.True(t, mr.Exists(DefaultPrefix+agentID.String()))
		assert.Equal(t, time.Minute, mr.TTL(DefaultPrefix+agentID.String()))
		repo.AssertExpectations(t)
	})
	t.Run("Should not cache lookup failures", func(t *testing.T) {
		mr, client := setupRedis(t)
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(nil, core.NotFoundError("agent", agentID.String())).Twice()
		cached := NewRedisAgentRepository(repo, client, time.Minute, "test:")
		for range 2 {
			_, err := cached.Get(context.Background(), agentID)
			assert.ErrorIs(t, err, core.ErrNotFound)
		}
		assert.False(t, mr.Exists("test:"+agentID.String()))
		repo.AssertExpectations(t)
	})
	t.Run("Should fall back to the repository when redis is down", func(t *testing.T) {
		mr, client := setupRedis(t)
		mr.Close()
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(testAgent(), nil)
		cached := NewRedisAgentRepository(repo, client, time.Minute, "")
		a, err := cached.Get(context.Background(), agentID)
		require.NoError(t, err)
		assert.Equal(t, "Report Summarizer", a.Name)
	})
	t.Run("Should reload after invalidation", func(t *testing.T) {
		_, client := setupRedis(t)
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(testAgent(), nil).Twice()
		cached := NewRedisAgentRepository(repo, client, time.Minute, "")
		ctx := context.Background()
		_, err := cached.Get(ctx, agentID)
		require.NoError(t, err)
		require.NoError(t, cached.Invalidate(ctx, agentID))
		_, err = cached.Get(ctx, agentID)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestLRUAgentRepository(t *testing.T) {
	t.Run("Should cache successful lookups", func(t *testing.T) {
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(testAgent(), nil).Once()
		cached := NewLRUAgentRepository(repo, 4, time.Minute)
		for range 3 {
			a, err := cached.Get(context.Background(), agentID)
			require.NoError(t, err)
			assert.Equal(t, agentID, a.ID)
		}
		repo.AssertExpectations(t)
	})
	t.Run("Should not share price details between callers", func(t *testing.T) {
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(testAgent(), nil).Once()
		cached := NewLRUAgentRepository(repo, 4, time.Minute)
		ctx := context.Background()
		first, err := cached.Get(ctx, agentID)
		require.NoError(t, err)
		first.PriceDetails["per_token"] = core.Float(9)
		second, err := cached.Get(ctx, agentID)
		require.NoError(t, err)
		second.PriceDetails["extra"] = core.Bool(true)
		third, err := cached.Get(ctx, agentID)
		require.NoError(t, err)
		assert.Equal(t, core.Map{"per_token": core.Float(0.001)}, third.PriceDetails)
		repo.AssertExpectations(t)
	})
	t.Run("Should pass listings through", func(t *testing.T) {
		repo := &MockAgentRepository{}
		filter := agent.Filter{Status: agent.StatusActive}
		repo.On("List", mock.Anything, filter).Return([]agent.Agent{*testAgent()}, nil).Twice()
		cached := NewLRUAgentRepository(repo, 4, time.Minute)
		for range 2 {
			agents, err := cached.List(context.Background(), filter)
			require.NoError(t, err)
			assert.Len(t, agents, 1)
		}
		repo.AssertExpectations(t)
	})
	t.Run("Should expire entries after the ttl", func(t *testing.T) {
		repo := &MockAgentRepository{}
		repo.On("Get", mock.Anything, agentID).Return(testAgent(), nil).Twice()
		cached := NewLRUAgentRepository(repo, 4, 20*time.Millisecond)
		_, err := cached.Get(context.Background(), agentID)
		require.NoError(t, err)
		time.Sleep(60 * time.Millisecond)
		_, err = cached.Get(context.Background(), agentID)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestNewRedisClient(t *testing.T) {
	t.Run("Should connect to a reachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
		require.NoError(t, err)
		defer client.Close()
		assert.NoError(t, client.Ping(context.Background()).Err())
	})
	t.Run("Should reject an empty url", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), "")
		assert.Error(t, err)
	})
}
