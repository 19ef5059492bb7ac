// Package client provides the HTTP transport shared by the Delivery and Management
// APIs: retries, rate limit gating, an optional Redis response cache and typed errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/terence1988/kontent-go/pkg/cache"
	"github.com/terence1988/kontent-go/pkg/ratelimit"
)

// Prometheus metrics for client operations.
var (
	kontentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_requests_total",
		Help: "Total requests by endpoint and status",
	}, []string{"endpoint", "status"})

	kontentRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kontent_request_duration_seconds",
		Help:    "Request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	kontentErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_errors_total",
		Help: "Total errors by class",
	}, []string{"class"})
)

// HeaderContinuation carries the continuation token of token-paged listings.
const HeaderContinuation = "X-Continuation"

var validate = validator.New()

// Config holds the client configuration.
type Config struct {
	// Redis enables the shared response cache and rate limit state. Optional.
	Redis *redis.Client `validate:"-"`

	// UserAgent is sent with every request.
	UserAgent string `validate:"required"`

	// Headers are added to every request, e.g. Authorization.
	Headers map[string]string

	// Timeout bounds a single attempt.
	Timeout time.Duration `validate:"gte=0"`

	Retry RetryConfig

	// MaxRateLimitWait is the longest a request waits out a Retry-After window
	// before failing with ErrRequestBlocked.
	MaxRateLimitWait time.Duration `validate:"gte=0"`

	// DisableCache skips the response cache even when Redis is set.
	DisableCache bool

	// HTTPClient replaces the underlying HTTP client (tests, proxies).
	HTTPClient *http.Client `validate:"-"`
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:        userAgent,
		Timeout:          30 * time.Second,
		Retry:            DefaultRetryConfig(),
		MaxRateLimitWait: ratelimit.DefaultMaxWait,
	}
}

// Client executes API requests.
type Client struct {
	http        *retryablehttp.Client
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	config      Config
	logger      zerolog.Logger
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := log.With().Str("component", "kontent-client").Logger()

	var store ratelimit.Store
	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		store = ratelimit.NewRedisStore(cfg.Redis)
		if !cfg.DisableCache {
			cacheManager = cache.NewManager(cfg.Redis)
		}
	}

	c := &Client{
		rateLimiter: ratelimit.NewTracker(store, logger).WithMaxWait(cfg.MaxRateLimitWait),
		cache:       cacheManager,
		config:      cfg,
		logger:      logger,
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c.http = c.newRetryClient(httpClient)

	return c, nil
}

// Request describes one API call.
type Request struct {
	Method string

	// URL is absolute; Query is merged into it.
	URL   string
	Query url.Values

	Headers map[string]string

	// Body is JSON encoded when non-nil.
	Body any

	// Endpoint labels metrics and logs. Defaults to the URL path.
	Endpoint string

	// CacheVariant separates cache entries that share a URL.
	CacheVariant string

	// NoCache bypasses the response cache.
	NoCache bool
}

// Response is a completed 2xx or 304-from-cache response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
	FromCache  bool
}

// ContinuationToken returns the X-Continuation header, if any.
func (r *Response) ContinuationToken() string {
	return r.Header.Get(HeaderContinuation)
}

// Do performs a request with rate limiting, caching, retries and error mapping.
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	target, err := buildURL(r.URL, r.Query)
	if err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = target.Path
	}

	startTime := time.Now()
	defer func() {
		kontentRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error().Err(err).Msg("Rate limit check failed")
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		c.logger.Warn().Str("endpoint", endpoint).Msg("Request blocked by rate limiter")
		kontentRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
		return nil, ErrRequestBlocked
	}

	useCache := c.cache != nil && method == http.MethodGet && !r.NoCache
	cacheKey := cache.KeyForURL(target, r.CacheVariant)

	var cachedEntry *cache.CacheEntry
	if useCache {
		cachedEntry, err = c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	req, err := c.newRequest(ctx, method, target, r)
	if err != nil {
		return nil, err
	}

	if cachedEntry != nil && cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(req.Request, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Str("url", target.String()).
		Msg("Executing request")

	resp, err := c.http.Do(req)
	st := attemptFrom(req.Context())
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.retriesExhausted(st) {
			kontentRetryExhaustedTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		}
		kontentErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		kontentRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			URL:        target.String(),
			Err:        err,
		}
	}
	defer resp.Body.Close()

	kontentRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.Inc()

		if err := c.cache.UpdateTTL(ctx, cacheKey, cache.ExpiresFromHeaders(resp.Header)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
		}

		return &Response{
			StatusCode: http.StatusOK,
			Header:     cachedEntry.Headers.Clone(),
			Body:       cachedEntry.Data,
			URL:        target.String(),
			FromCache:  true,
		}, nil
	}

	if useCache && cache.Cacheable(resp) {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("ttl", entry.TTL()).
				Msg("Cached response")
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, resp.Status, target.String(), body)
		if c.retriesExhausted(st) {
			kontentRetryExhaustedTotal.WithLabelValues(string(apiErr.ErrorClass)).Inc()
			apiErr.Err = ErrRetryExhausted
		}
		kontentErrorsTotal.WithLabelValues(string(apiErr.ErrorClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(apiErr.ErrorClass)).
			Str("request_id", apiErr.RequestID).
			Msg("API request error")

		return nil, apiErr
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		URL:        target.String(),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method string, target *url.URL, r *Request) (*retryablehttp.Request, error) {
	var body []byte
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = encoded
	}

	ctx, _ = withAttemptState(ctx)

	var rawBody any
	if body != nil {
		rawBody = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target.String(), rawBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func buildURL(raw string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("url %q is not absolute", raw)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: rawURL, Headers: headers})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, rawURL string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: rawURL, Body: body})
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, rawURL string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, URL: rawURL, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, rawURL string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, URL: rawURL})
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.HTTPClient.CloseIdleConnections()
	return nil
}

// RateLimiter returns the tracker gating this client's requests.
func (c *Client) RateLimiter() *ratelimit.Tracker {
	return c.rateLimiter
}

// Cache returns the response cache, or nil when caching is off.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}
