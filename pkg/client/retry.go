package client

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	kontentRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	kontentRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for retry logic.
// 429 and 503 responses wait for their Retry-After header when present.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial request.
	MaxRetries int `validate:"gte=0,lte=10"`

	// WaitMin is the initial backoff duration.
	WaitMin time.Duration `validate:"gte=0"`

	// WaitMax caps the exponential backoff.
	WaitMax time.Duration `validate:"gtefield=WaitMin"`
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		WaitMin:    1 * time.Second,
		WaitMax:    30 * time.Second,
	}
}

type attemptKey struct{}

// attemptState follows one logical request through its retries.
type attemptState struct {
	attempts int
	class    ErrorClass
}

func withAttemptState(ctx context.Context) (context.Context, *attemptState) {
	st := &attemptState{}
	return context.WithValue(ctx, attemptKey{}, st), st
}

func attemptFrom(ctx context.Context) *attemptState {
	st, _ := ctx.Value(attemptKey{}).(*attemptState)
	return st
}

// newRetryClient wires the retry policy, hooks and logging into a retryablehttp client.
func (c *Client) newRetryClient(httpClient *http.Client) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = c.config.Retry.MaxRetries
	rc.RetryWaitMin = c.config.Retry.WaitMin
	rc.RetryWaitMax = c.config.Retry.WaitMax
	rc.Logger = leveledLogger{logger: c.logger}
	rc.CheckRetry = c.checkRetry
	rc.RequestLogHook = c.requestLogHook
	rc.ResponseLogHook = c.responseLogHook
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

// checkRetry retries server, rate limit and network errors; 4xx responses are final.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	class := classify(status, err)
	if st := attemptFrom(ctx); st != nil {
		st.class = class
	}

	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if status == http.StatusNotImplemented {
		return false, nil
	}
	return shouldRetry(class), nil
}

func (c *Client) requestLogHook(_ retryablehttp.Logger, req *http.Request, attempt int) {
	st := attemptFrom(req.Context())
	if st == nil {
		return
	}
	st.attempts = attempt + 1
	if attempt == 0 {
		return
	}

	kontentRetriesTotal.WithLabelValues(string(st.class)).Inc()
	c.logger.Warn().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("error_class", string(st.class)).
		Int("attempt", attempt).
		Msg("Retrying request")
}

// responseLogHook records back-off requests from every attempt, not only the last one.
func (c *Client) responseLogHook(_ retryablehttp.Logger, resp *http.Response) {
	if resp == nil || resp.Request == nil {
		return
	}
	if err := c.rateLimiter.UpdateFromResponse(resp.Request.Context(), resp.StatusCode, resp.Header); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to update rate limit state")
	}
}

// retriesExhausted reports whether the last attempt still failed with a retriable class.
func (c *Client) retriesExhausted(st *attemptState) bool {
	return shouldRetry(st.class) && st.attempts > c.config.Retry.MaxRetries
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

var _ retryablehttp.LeveledLogger = leveledLogger{}
