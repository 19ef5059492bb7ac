package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/delivery"
	"github.com/terence1988/kontent-go/pkg/events"
	"github.com/terence1988/kontent-go/pkg/logging"
	"github.com/terence1988/kontent-go/pkg/management"
	"github.com/terence1988/kontent-go/pkg/metrics"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// runtime holds the clients of one command invocation.
type runtime struct {
	settings   settings
	logger     zerolog.Logger
	http       *client.Client
	delivery   *delivery.Client
	management *management.Client
	publisher  *events.Publisher

	redis       *redis.Client
	nats        *nats.Conn
	stopMetrics context.CancelFunc
	metricsDone chan error
	statsOut    io.Writer
}

func newRuntime(ctx context.Context, s settings, logOut io.Writer) (*runtime, error) {
	logCfg := logging.Config{Level: logging.LogLevel(s.LogLevel), Output: logOut}
	if err := logCfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(logCfg)

	rt := &runtime{settings: s, logger: logging.NewLogger("cli"), statsOut: logOut}

	httpCfg := client.DefaultConfig(s.UserAgent)
	httpCfg.Timeout = s.Timeout
	httpCfg.Headers = s.Headers

	if s.RedisURL != "" {
		opts, err := redis.ParseURL(s.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rt.redis = redis.NewClient(opts)
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		httpCfg.Redis = rt.redis
		rt.logger.Debug().Str("addr", opts.Addr).Msg("Using redis for cache and rate limit state")
	}

	var err error
	if rt.http, err = client.New(httpCfg); err != nil {
		rt.Close()
		return nil, err
	}

	rt.delivery, err = delivery.New(delivery.Config{
		ProjectID:      s.ProjectID,
		BaseURL:        s.DeliveryURL,
		PreviewBaseURL: s.PreviewURL,
		UsePreviewMode: s.Preview,
		Client:         rt.http,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.management, err = management.New(management.Config{
		ProjectID: s.ProjectID,
		BaseURL:   s.ManagementURL,
		Client:    rt.http,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	if s.NATSURL != "" {
		rt.publisher, rt.nats, err = events.Connect(s.NATSURL, s.NATSSubject)
		if err != nil {
			rt.Close()
			return nil, err
		}
	}

	if s.MetricsAddr != "" {
		metricsCtx, cancel := context.WithCancel(context.Background())
		rt.stopMetrics = cancel
		rt.metricsDone = make(chan error, 1)
		go func() { rt.metricsDone <- metrics.Serve(metricsCtx, s.MetricsAddr) }()
	}

	return rt, nil
}

// Close releases every connection. It is safe on a partially built runtime.
func (rt *runtime) Close() {
	if rt.settings.Stats {
		rt.printStats()
	}
	if rt.stopMetrics != nil {
		rt.stopMetrics()
		if err := <-rt.metricsDone; err != nil {
			rt.logger.Warn().Err(err).Msg("Metrics server failed")
		}
	}
	if rt.nats != nil {
		if err := rt.nats.Drain(); err != nil {
			rt.logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}
	}
	if rt.http != nil {
		rt.http.Close()
	}
	if rt.redis != nil {
		rt.redis.Close()
	}
}

func (rt *runtime) printStats() {
	snapshot, err := metrics.Snapshot("kontent_")
	if err != nil {
		rt.logger.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(rt.statsOut, "%s %g\n", k, snapshot[k])
	}
}

// observer logs every page and publishes it when NATS is configured.
func observer[P pagination.Page[T], T any](rt *runtime, listing string) func(P, pagination.Continuation) error {
	page := 0
	progress := func(p P, used pagination.Continuation) error {
		page++
		rt.logger.Info().
			Str("listing", listing).
			Int("page", page).
			Int("items", len(p.PageItems())).
			Str("continuation", used.String()).
			Msg("Page fetched")
		return nil
	}
	if rt.publisher == nil {
		return progress
	}
	return events.Chain(progress, events.PageObserver[P, T](rt.publisher, listing))
}
