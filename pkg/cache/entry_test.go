package cache

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEntry_Expiry(t *testing.T) {
	now := time.Now()

	cases := map[string]struct {
		expires time.Time
		expired bool
		minTTL  time.Duration
		maxTTL  time.Duration
	}{
		"stale page":        {expires: now.Add(-time.Hour), expired: true},
		"stale by a second": {expires: now.Add(-time.Second), expired: true},
		"max-age 60":        {expires: now.Add(time.Minute), minTTL: 59 * time.Second, maxTTL: time.Minute},
		"default ttl":       {expires: now.Add(DefaultTTL), minTTL: DefaultTTL - time.Second, maxTTL: DefaultTTL},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			entry := &CacheEntry{Expires: tc.expires}

			assert.Equal(t, tc.expired, entry.IsExpired())
			ttl := entry.TTL()
			assert.GreaterOrEqual(t, ttl, tc.minTTL)
			assert.LessOrEqual(t, ttl, tc.maxTTL)
		})
	}
}

func TestCacheEntry_Age(t *testing.T) {
	assert.Zero(t, (&CacheEntry{}).Age())

	entry := &CacheEntry{CachedAt: time.Now().Add(-2 * time.Minute)}
	assert.InDelta(t, (2 * time.Minute).Seconds(), entry.Age().Seconds(), 1)
}

// Feed pages are replayed from the stored headers, so the continuation must survive storage.
func TestCacheEntry_KeepsContinuationHeader(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Continuation", "+RID:~abc==#RT:1#TRC:10")
	headers.Set("ETag", `"feed-page-1"`)

	stored, err := json.Marshal(&CacheEntry{
		Data:       []byte(`{"items":[]}`),
		ETag:       `"feed-page-1"`,
		StatusCode: http.StatusOK,
		Headers:    headers,
		Expires:    time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	var entry CacheEntry
	require.NoError(t, json.Unmarshal(stored, &entry))

	assert.Equal(t, "+RID:~abc==#RT:1#TRC:10", entry.Headers.Get("X-Continuation"))
	assert.True(t, ShouldMakeConditionalRequest(&entry))
	assert.JSONEq(t, `{"items":[]}`, string(entry.Data))
}
