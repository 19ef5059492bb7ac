package pagination

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Page is a single fetched page of a listing.
type Page[T any] interface {
	// PageItems returns the items of this page in API order.
	PageItems() []T

	// Continuation returns how to fetch the following page, or None on the last page.
	Continuation() Continuation
}

// Fetcher fetches one page. The first call receives None; later calls receive the
// continuation reported by the previous page. That continuation carries a single signal:
// a page built with Resolve that reports both a next-page URL and a token passes only the
// URL, and the token is dropped. It must be safe to call repeatedly.
type Fetcher[P any] func(ctx context.Context, next Continuation) (P, error)

// AggregateFactory builds the final result from the concatenated items and every fetched page.
type AggregateFactory[P any, T any, A any] func(items []T, pages []P) A

// Config holds optional listing configuration. A nil Config means no page limit,
// no delay and no observer.
type Config[P any] struct {
	// Pages caps the number of fetched pages. 0 means unbounded.
	Pages int

	// DelayBetweenRequests is waited between two page fetches. 0 disables pacing.
	DelayBetweenRequests time.Duration

	// ResponseFetched is called synchronously after each page, with the continuation
	// that was used to fetch it. A returned error aborts the traversal.
	ResponseFetched func(page P, used Continuation) error

	// Label names the listing in logs and metrics (e.g. "delivery_items").
	Label string
}

// Aggregate is the default aggregate result: all items plus the pages they came from.
type Aggregate[T any, P any] struct {
	Items []T
	Pages []P
}

// DefaultAggregate is an AggregateFactory producing an Aggregate.
func DefaultAggregate[P any, T any](items []T, pages []P) Aggregate[T, P] {
	return Aggregate[T, P]{Items: items, Pages: pages}
}

// ListAll walks a listing page by page and hands every fetched page to build.
//
// Pages are requested strictly one after another. The first fetch or observer error is
// returned unwrapped and the pages fetched so far are discarded. Cancelling ctx while
// waiting between pages returns ctx.Err().
func ListAll[P Page[T], T any, A any](
	ctx context.Context,
	fetch Fetcher[P],
	build AggregateFactory[P, T, A],
	cfg *Config[P],
) (A, error) {
	var zero A
	if cfg == nil {
		cfg = &Config[P]{}
	}
	label := cfg.Label
	if label == "" {
		label = "unlabeled"
	}

	start := time.Now()
	pages, outcome, err := traverse[P, T](ctx, fetch, cfg, label)
	if err != nil {
		Traversals.WithLabelValues(label, outcomeError).Inc()
		log.Debug().
			Err(err).
			Str("listing", label).
			Int("pages_discarded", len(pages)).
			Msg("Listing traversal failed")
		return zero, err
	}

	Traversals.WithLabelValues(label, outcome).Inc()
	PagesPerTraversal.WithLabelValues(label).Observe(float64(len(pages)))

	total := 0
	for _, p := range pages {
		total += len(p.PageItems())
	}
	items := make([]T, 0, total)
	for _, p := range pages {
		items = append(items, p.PageItems()...)
	}

	log.Info().
		Str("listing", label).
		Int("pages", len(pages)).
		Int("items", len(items)).
		Str("outcome", outcome).
		Dur("duration", time.Since(start)).
		Msg("Listing traversal complete")

	return build(items, pages), nil
}

// traverse runs the fetch loop and returns the resolved pages in fetch order.
func traverse[P Page[T], T any](
	ctx context.Context,
	fetch Fetcher[P],
	cfg *Config[P],
	label string,
) ([]P, string, error) {
	var resolved []P
	next := None()

	for page := 1; ; page++ {
		if cfg.Pages > 0 && page > cfg.Pages {
			return resolved, outcomePageLimit, nil
		}

		result, err := fetch(ctx, next)
		if err != nil {
			return resolved, "", err
		}
		PagesFetched.WithLabelValues(label).Inc()

		following := result.Continuation()
		more := following.HasNext()

		log.Debug().
			Str("listing", label).
			Int("page", page).
			Int("items", len(result.PageItems())).
			Str("used", next.String()).
			Str("next", following.String()).
			Msg("Fetched listing page")

		// No pause after the last page, including the one the page limit will cut off.
		if more && cfg.DelayBetweenRequests > 0 && (cfg.Pages <= 0 || page < cfg.Pages) {
			if err := sleep(ctx, cfg.DelayBetweenRequests); err != nil {
				return resolved, "", err
			}
		}

		resolved = append(resolved, result)

		if cfg.ResponseFetched != nil {
			if err := cfg.ResponseFetched(result, next); err != nil {
				return resolved, "", err
			}
		}

		if !more {
			return resolved, outcomeExhausted, nil
		}
		next = following
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
