package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	kontentRateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_rate_limited_responses_total",
		Help: "Total number of responses that requested a back-off",
	}, []string{"status"})

	kontentRetryAfterSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kontent_rate_limit_retry_after_seconds",
		Help: "Retry-After of the last rate limited response",
	})

	kontentRateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kontent_rate_limit_blocks_total",
		Help: "Total number of requests blocked because the back-off exceeded the max wait",
	})

	kontentRateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kontent_rate_limit_throttles_total",
		Help: "Total number of requests delayed until the back-off window ended",
	})
)

// Tracker records back-off windows and gates requests.
type Tracker struct {
	store   Store
	logger  zerolog.Logger
	maxWait time.Duration
}

// NewTracker creates a new rate limit tracker. A nil store keeps state in memory.
func NewTracker(store Store, logger zerolog.Logger) *Tracker {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Tracker{
		store:   store,
		logger:  logger,
		maxWait: DefaultMaxWait,
	}
}

// WithMaxWait sets the longest delay ShouldAllowRequest will sleep through.
func (t *Tracker) WithMaxWait(d time.Duration) *Tracker {
	t.maxWait = d
	return t
}

// GetState returns the current state, or an inactive state if none is stored.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	state, err := t.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		t.logger.Debug().Msg("No rate limit state stored, requests allowed")
		return &RateLimitState{LastUpdate: time.Now()}, nil
	}
	return state, nil
}

// UpdateFromResponse records the back-off of a 429 or 503 response.
// Other responses leave the state untouched.
func (t *Tracker) UpdateFromResponse(ctx context.Context, statusCode int, headers http.Header) error {
	if statusCode != http.StatusTooManyRequests && statusCode != http.StatusServiceUnavailable {
		return nil
	}

	now := time.Now()
	retryAfter, ok := ParseRetryAfter(headers.Get("Retry-After"), now)
	if !ok {
		if statusCode == http.StatusServiceUnavailable {
			return nil
		}
		retryAfter = DefaultRetryAfter
	}

	state := &RateLimitState{
		ResetAt:    now.Add(retryAfter),
		LastUpdate: now,
		RetryAfter: retryAfter,
	}

	current, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load rate limit state: %w", err)
	}
	if current != nil && current.ResetAt.After(state.ResetAt) {
		state.ResetAt = current.ResetAt
	}

	if err := t.store.Save(ctx, state); err != nil {
		return err
	}

	kontentRateLimitedTotal.WithLabelValues(fmt.Sprintf("%d", statusCode)).Inc()
	kontentRetryAfterSeconds.Set(retryAfter.Seconds())

	t.logger.Warn().
		Int("status_code", statusCode).
		Dur("retry_after", retryAfter).
		Time("reset_at", state.ResetAt).
		Msg("API requested back-off")

	return nil
}

// ShouldAllowRequest holds the caller until an active back-off window ends.
// Returns false without waiting if the window ends later than the max wait.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get rate limit state: %w", err)
	}

	if state.NeedsBlock(t.maxWait) {
		t.logger.Error().
			Dur("wait_duration", state.TimeUntilReset()).
			Dur("max_wait", t.maxWait).
			Msg("Back-off window too long - blocking request")

		kontentRateLimitBlocksTotal.Inc()
		return false, nil
	}

	if state.NeedsThrottling(t.maxWait) {
		wait := state.TimeUntilReset()
		t.logger.Warn().
			Dur("wait_duration", wait).
			Msg("Back-off window active - throttling request")

		kontentRateLimitThrottlesTotal.Inc()

		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	return true, nil
}
