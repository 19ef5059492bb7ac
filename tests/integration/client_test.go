//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/terence1988/kontent-go/internal/testutil"
	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/delivery"
	"github.com/terence1988/kontent-go/pkg/management"
	"github.com/terence1988/kontent-go/pkg/pagination"
	"github.com/terence1988/kontent-go/pkg/ratelimit"
)

const projectID = "8d20758c-d74c-4f59-ae04-ee928c0816b7"

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newClient(t *testing.T, rdb *redis.Client, maxRetries int) *client.Client {
	t.Helper()

	cfg := client.DefaultConfig("kontent-go-integration/1.0")
	cfg.Redis = rdb
	cfg.Retry = client.RetryConfig{MaxRetries: maxRetries, WaitMin: 10 * time.Millisecond, WaitMax: 50 * time.Millisecond}

	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func newDelivery(t *testing.T, mock *testutil.MockKontent, c *client.Client) *delivery.Client {
	t.Helper()

	d, err := delivery.New(delivery.Config{
		ProjectID: projectID,
		BaseURL:   mock.URL(),
		Client:    c,
	})
	require.NoError(t, err)
	return d
}

func articles(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, testutil.ItemJSON(fmt.Sprintf("article_%d", i), "article", fmt.Sprintf("Article %d", i)))
	}
	return out
}

// serveVersionedItems serves a skip/limit listing where every page carries an ETag
// and answers a matching If-None-Match with 304.
func serveVersionedItems(mock *testutil.MockKontent, path string, entries []string, limit int) {
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		etag := fmt.Sprintf(`"items-%d"`, skip)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "max-age=60")

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		end := min(skip+limit, len(entries))
		nextPage := ""
		if end < len(entries) {
			nextPage = fmt.Sprintf("%s%s?limit=%d&skip=%d", mock.URL(), path, limit, end)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[%s],"modular_content":{},"pagination":{"skip":%d,"limit":%d,"count":%d,"next_page":%q}}`,
			strings.Join(entries[skip:end], ","), skip, limit, end-skip, nextPage)
	})
}

func TestListAll_CachedTraversal(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()

	path := "/" + projectID + "/items"
	serveVersionedItems(mock, path, articles(5), 2)

	d := newDelivery(t, mock, newClient(t, rdb, 1))
	ctx := context.Background()

	first, err := d.Items().Limit(2).ListAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, first.Items, 5)
	require.Len(t, first.Pages, 3)
	for _, p := range first.Pages {
		assert.False(t, p.FromCache)
	}
	assert.Equal(t, 0, mock.GetConditionalCount())

	second, err := d.Items().Limit(2).ListAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].System.Codename, second.Items[i].System.Codename)
	}
	for _, p := range second.Pages {
		assert.True(t, p.FromCache)
		assert.Equal(t, http.StatusOK, p.StatusCode)
	}
	assert.Equal(t, 3, mock.GetConditionalCount())
	assert.Len(t, mock.RequestsTo(path), 6)
}

func TestFeed_TokensCachedSeparately(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()

	path := "/" + projectID + "/items-feed"
	pages := [][]string{articles(2), articles(4)[2:], articles(5)[4:]}
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		index := 0
		if token := r.Header.Get(client.HeaderContinuation); token != "" {
			index, _ = strconv.Atoi(strings.TrimPrefix(token, "feed-"))
		}
		etag := fmt.Sprintf(`"feed-page-%d"`, index)
		w.Header().Set("ETag", etag)
		if index+1 < len(pages) {
			w.Header().Set(client.HeaderContinuation, fmt.Sprintf("feed-%d", index+1))
		}
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[%s],"modular_content":{}}`, strings.Join(pages[index], ","))
	})

	d := newDelivery(t, mock, newClient(t, rdb, 1))
	ctx := context.Background()

	first, err := d.ItemsFeed().ListAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, first.Items, 5)
	require.Len(t, first.Pages, 3)

	second, err := d.ItemsFeed().ListAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, second.Items, 5)
	for i, p := range second.Pages {
		assert.True(t, p.FromCache, "page %d", i)
		assert.Equal(t, first.Items[i].System.Codename, second.Items[i].System.Codename)
	}
	assert.Equal(t, 3, mock.GetConditionalCount())
	assert.Equal(t, "feed-1", second.Pages[0].ContinuationToken)
}

func TestRateLimit_SharedWindowBlocks(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.ServeSkipLimit("/"+projectID+"/items", "items", articles(2), 10, map[string]string{"modular_content": "{}"})

	ctx := context.Background()
	now := time.Now()
	err := ratelimit.NewRedisStore(rdb).Save(ctx, &ratelimit.RateLimitState{
		ResetAt:    now.Add(2 * time.Minute),
		LastUpdate: now,
		RetryAfter: 2 * time.Minute,
	})
	require.NoError(t, err)

	d := newDelivery(t, mock, newClient(t, rdb, 1))

	_, err = d.Items().ListAll(ctx, nil)
	require.ErrorIs(t, err, client.ErrRequestBlocked)
	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestRateLimit_429SharedBetweenClients(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()

	path := "/" + projectID + "/items"
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"Too many requests.","request_id":"r-429","error_code":10000}`))
	})

	ctx := context.Background()

	first := newDelivery(t, mock, newClient(t, rdb, 0))
	_, err := first.Items().Fetch(ctx)
	require.Error(t, err)
	assert.True(t, client.IsRateLimited(err))

	state, err := ratelimit.NewRedisStore(rdb).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.True(t, state.IsLimited())

	second := newDelivery(t, mock, newClient(t, rdb, 0))
	_, err = second.Items().Fetch(ctx)
	require.ErrorIs(t, err, client.ErrRequestBlocked)
	assert.Len(t, mock.RequestsTo(path), 1)
}

func TestRetry_5xxThenSuccess(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()

	path := "/" + projectID + "/items"
	attempts := 0
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"items":[%s],"modular_content":{},"pagination":{"skip":0,"limit":10,"count":1,"next_page":""}}`,
			testutil.ItemJSON("home", "page", "Home"))
	})

	d := newDelivery(t, mock, newClient(t, rdb, 3))

	all, err := d.Items().ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, "home", all.Items[0].System.Codename)
	assert.Equal(t, 3, attempts)
}

func TestRetry_No4xxRetry(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()

	path := "/" + projectID + "/items"
	mock.SetResponse(path, testutil.NewErrorResponse(http.StatusUnauthorized, "Missing or invalid API key."))

	d := newDelivery(t, mock, newClient(t, rdb, 3))

	_, err := d.Items().ListAll(context.Background(), nil)
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Len(t, mock.RequestsTo(path), 1)
}

func TestManagement_TokenTraversalWithRedis(t *testing.T) {
	rdb, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKontent()
	defer mock.Close()

	path := "/projects/" + projectID + "/items"
	mock.ServeTokenList(path, "items", "tok", [][]string{
		{testutil.ManagementItemJSON("a1", "about_us", "About us"), testutil.ManagementItemJSON("a2", "contact", "Contact")},
		{testutil.ManagementItemJSON("a3", "home", "Home")},
	})

	m, err := management.New(management.Config{
		ProjectID: projectID,
		BaseURL:   mock.URL(),
		Client:    newClient(t, rdb, 1),
	})
	require.NoError(t, err)

	var used []string
	all, err := m.ListContentItems().ListAll(context.Background(), &pagination.Config[management.ContentItemsPage]{
		ResponseFetched: func(_ management.ContentItemsPage, c pagination.Continuation) error {
			used = append(used, c.Token())
			return nil
		},
	})
	require.NoError(t, err)

	require.Len(t, all.Items, 3)
	assert.Equal(t, "home", all.Items[2].Codename)
	assert.Equal(t, []string{"", "tok-1"}, used)

	reqs := mock.RequestsTo(path)
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Header.Get(client.HeaderContinuation))
	assert.Equal(t, "tok-1", reqs[1].Header.Get(client.HeaderContinuation))
}
