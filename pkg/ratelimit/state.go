// Package ratelimit tracks the back-off requested by the API through 429 and 503
// responses and gates outgoing requests until the Retry-After window has passed.
// State is kept in Redis when available so that several processes sharing one
// API key respect the same window.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyResetTimestamp = "kontent:rate_limit:reset_timestamp"
	RedisKeyRetryAfter     = "kontent:rate_limit:retry_after_ms"
	RedisKeyLastUpdate     = "kontent:rate_limit:last_update"
)

const (
	// DefaultRetryAfter is used when a 429 response carries no usable Retry-After header.
	DefaultRetryAfter = time.Second

	// DefaultMaxWait is the longest a request is held back before it is blocked instead.
	DefaultMaxWait = 10 * time.Second
)

// RateLimitState is the current back-off window.
type RateLimitState struct {
	// ResetAt is when requests may resume. Zero when no window is active.
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when the state was last written.
	LastUpdate time.Time `json:"last_update"`

	// RetryAfter is the delay the API asked for in the last limited response.
	RetryAfter time.Duration `json:"retry_after"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// TimeUntilReset returns the duration until requests may resume.
// Returns 0 if the reset time has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// IsLimited reports whether a back-off window is active.
func (s *RateLimitState) IsLimited() bool {
	return s.TimeUntilReset() > 0
}

// NeedsBlock returns true if the window ends later than maxWait from now.
func (s *RateLimitState) NeedsBlock(maxWait time.Duration) bool {
	return s.TimeUntilReset() > maxWait
}

// NeedsThrottling returns true if a window is active and short enough to wait out.
func (s *RateLimitState) NeedsThrottling(maxWait time.Duration) bool {
	return s.IsLimited() && !s.NeedsBlock(maxWait)
}

// ParseRetryAfter reads a Retry-After value given either in seconds or as an HTTP date.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	at, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	if d := at.Sub(now); d > 0 {
		return d, true
	}
	return 0, true
}
