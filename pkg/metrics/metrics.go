// Package metrics exposes the Prometheus metrics registered by the other packages.
// Each package declares its own metrics with promauto to avoid import cycles;
// this package only serves them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry is the registerer all kontent metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads the metrics back.
var Gatherer = prometheus.DefaultGatherer

// Metrics Documentation
//
// Pagination (pkg/pagination):
//   - kontent_pagination_pages_total{listing} (Counter): Pages fetched
//   - kontent_pagination_traversals_total{listing, outcome} (Counter): Finished traversals
//     by outcome (exhausted, page_limit, error)
//   - kontent_pagination_pages_per_traversal{listing} (Histogram): Pages per traversal
//
// Requests (pkg/client):
//   - kontent_requests_total{endpoint, status} (Counter)
//   - kontent_request_duration_seconds{endpoint} (Histogram)
//   - kontent_errors_total{class} (Counter): client, server, rate_limit, network
//   - kontent_retries_total{error_class} (Counter)
//   - kontent_retry_exhausted_total{error_class} (Counter)
//
// Rate limit (pkg/ratelimit):
//   - kontent_rate_limited_responses_total{status} (Counter): 429/503 with back-off
//   - kontent_rate_limit_retry_after_seconds (Gauge)
//   - kontent_rate_limit_blocks_total (Counter)
//   - kontent_rate_limit_throttles_total (Counter)
//
// Cache (pkg/cache):
//   - kontent_cache_hits_total{layer="redis"} (Counter)
//   - kontent_cache_misses_total (Counter)
//   - kontent_cache_size_bytes{layer="redis"} (Gauge)
//   - kontent_304_responses_total (Counter)
//   - kontent_conditional_requests_total (Counter)
//   - kontent_cache_errors_total{operation} (Counter)
//
// Events (pkg/events):
//   - kontent_events_published_total{listing} (Counter)
//   - kontent_events_publish_errors_total{listing} (Counter)
//
// Example Prometheus Queries:
//
//	# Pages per second by listing
//	sum by (listing) (rate(kontent_pagination_pages_total[5m]))
//
//	# Cache hit rate
//	sum(rate(kontent_cache_hits_total[5m])) /
//	(sum(rate(kontent_cache_hits_total[5m])) + sum(rate(kontent_cache_misses_total[5m])))
//
//	# P95 request latency
//	histogram_quantile(0.95, rate(kontent_request_duration_seconds_bucket[5m]))

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Snapshot returns the current value of every counter and gauge whose name starts
// with prefix, keyed by metric name plus labels.
func Snapshot(prefix string) (map[string]float64, error) {
	families, err := Gatherer.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "," + lp.GetName() + "=" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}
