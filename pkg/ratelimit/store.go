package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists the rate limit state. Load returns nil, nil when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*RateLimitState, error)
	Save(ctx context.Context, state *RateLimitState) error
}

// RedisStore shares the state between processes.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redis: redisClient}
}

// Load reads the state written by any process.
func (s *RedisStore) Load(ctx context.Context) (*RateLimitState, error) {
	values, err := s.redis.MGet(ctx, RedisKeyResetTimestamp, RedisKeyRetryAfter, RedisKeyLastUpdate).Result()
	if err != nil {
		return nil, fmt.Errorf("get rate limit state: %w", err)
	}
	if values[0] == nil {
		return nil, nil
	}

	resetMillis, err := parseInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("parse reset timestamp: %w", err)
	}
	retryAfterMillis, err := parseInt(values[1])
	if err != nil {
		return nil, fmt.Errorf("parse retry after: %w", err)
	}
	lastUpdateMillis, err := parseInt(values[2])
	if err != nil {
		return nil, fmt.Errorf("parse last update: %w", err)
	}

	return &RateLimitState{
		ResetAt:    time.UnixMilli(resetMillis),
		RetryAfter: time.Duration(retryAfterMillis) * time.Millisecond,
		LastUpdate: time.UnixMilli(lastUpdateMillis),
	}, nil
}

// Save stores the state. Keys expire shortly after the window ends.
func (s *RedisStore) Save(ctx context.Context, state *RateLimitState) error {
	ttl := state.TimeUntilReset() + time.Minute

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, RedisKeyResetTimestamp, state.ResetAt.UnixMilli(), ttl)
	pipe.Set(ctx, RedisKeyRetryAfter, state.RetryAfter.Milliseconds(), ttl)
	pipe.Set(ctx, RedisKeyLastUpdate, state.LastUpdate.UnixMilli(), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}
	return nil
}

func parseInt(v any) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(val, 10, 64)
	default:
		return 0, errors.New("unexpected value type")
	}
}

// MemoryStore keeps the state for a single process.
type MemoryStore struct {
	mu    sync.RWMutex
	state *RateLimitState
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*RateLimitState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, nil
	}
	copied := *s.state
	return &copied, nil
}

func (s *MemoryStore) Save(_ context.Context, state *RateLimitState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.state = &copied
	return nil
}
