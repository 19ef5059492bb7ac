//go:build integration

package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) *redis.Client {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start Redis container")

	endpoint, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func TestRedisStore_Integration_RoundTrip(t *testing.T) {
	store := NewRedisStore(setupRedis(t))
	ctx := context.Background()

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, state)

	now := time.Now()
	saved := &RateLimitState{
		ResetAt:    now.Add(5 * time.Second),
		LastUpdate: now,
		RetryAfter: 5 * time.Second,
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.ResetAt.UnixMilli(), loaded.ResetAt.UnixMilli())
	assert.Equal(t, saved.LastUpdate.UnixMilli(), loaded.LastUpdate.UnixMilli())
	assert.Equal(t, saved.RetryAfter, loaded.RetryAfter)
}

func TestTracker_Integration_SharedAcrossInstances(t *testing.T) {
	redisClient := setupRedis(t)
	ctx := context.Background()

	first := NewTracker(NewRedisStore(redisClient), zerolog.Nop())
	second := NewTracker(NewRedisStore(redisClient), zerolog.Nop()).WithMaxWait(time.Second)

	headers := http.Header{"Retry-After": []string{"30"}}
	require.NoError(t, first.UpdateFromResponse(ctx, http.StatusTooManyRequests, headers))

	allowed, err := second.ShouldAllowRequest(ctx)
	require.NoError(t, err)
	assert.False(t, allowed, "second instance must see the window recorded by the first")
}

func TestTracker_Integration_ThrottleThenAllow(t *testing.T) {
	tracker := NewTracker(NewRedisStore(setupRedis(t)), zerolog.Nop())
	ctx := context.Background()

	headers := http.Header{"Retry-After": []string{"1"}}
	require.NoError(t, tracker.UpdateFromResponse(ctx, http.StatusTooManyRequests, headers))

	start := time.Now()
	allowed, err := tracker.ShouldAllowRequest(ctx)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}
