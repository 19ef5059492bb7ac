// Package events publishes listing progress to NATS.
//
// Each fetched page becomes a PageFetched message on "<prefix>.<listing>", so other
// processes can follow long traversals (for example a feed export) as they happen.
//
//	nc, _ := nats.Connect(nats.DefaultURL)
//	pub := events.NewPublisher(nc, "kontent.pages")
//	all, err := q.ListAll(ctx, &pagination.Config[delivery.FeedPage]{
//		ResponseFetched: events.PageObserver[delivery.FeedPage, delivery.ContentItem](pub, "delivery_items_feed"),
//	})
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/terence1988/kontent-go/pkg/logging"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// DefaultSubjectPrefix is used when NewPublisher gets an empty prefix.
const DefaultSubjectPrefix = "kontent.pages"

var (
	// Published counts page events delivered to NATS.
	Published = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_events_published_total",
		Help: "Total number of page events published",
	}, []string{"listing"})

	// PublishErrors counts page events NATS refused.
	PublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_events_publish_errors_total",
		Help: "Total number of page events that failed to publish",
	}, []string{"listing"})
)

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

var _ Conn = (*nats.Conn)(nil)

// PageFetched describes one fetched page of a listing traversal.
type PageFetched struct {
	Listing string `json:"listing"`

	// Page is the 1-based index within the traversal.
	Page int `json:"page"`

	Items int `json:"items"`

	// Continuation is the continuation used to fetch this page ("none" for the first).
	Continuation string `json:"continuation"`

	// Next is the continuation the page points to.
	Next string `json:"next"`

	StatusCode int       `json:"status_code,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Publisher sends page events.
type Publisher struct {
	conn   Conn
	prefix string
	logger zerolog.Logger
}

// NewPublisher wraps conn. Subjects are "<prefix>.<listing>".
func NewPublisher(conn Conn, prefix string) *Publisher {
	if conn == nil {
		panic("events: NewPublisher called with nil connection")
	}
	prefix = strings.TrimSuffix(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		logger: logging.NewLogger("events"),
	}
}

// Connect dials NATS and returns a publisher together with the connection, which the
// caller drains on shutdown.
func Connect(url, prefix string, opts ...nats.Option) (*Publisher, *nats.Conn, error) {
	opts = append([]nats.Option{nats.Name("kontent-go")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	return NewPublisher(nc, prefix), nc, nil
}

// Subject returns the subject events of listing are published on.
func (p *Publisher) Subject(listing string) string {
	return p.prefix + "." + listing
}

// Publish sends ev to the listing's subject.
func (p *Publisher) Publish(ev PageFetched) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode page event: %w", err)
	}

	subject := p.Subject(ev.Listing)
	if err := p.conn.Publish(subject, data); err != nil {
		PublishErrors.WithLabelValues(ev.Listing).Inc()
		p.logger.Warn().
			Err(err).
			Str("subject", subject).
			Int("page", ev.Page).
			Msg("Failed to publish page event")
		return fmt.Errorf("publish page event to %s: %w", subject, err)
	}

	Published.WithLabelValues(ev.Listing).Inc()
	p.logger.Debug().
		Str("subject", subject).
		Int("page", ev.Page).
		Int("items", ev.Items).
		Msg("Published page event")
	return nil
}

// statusReporter is implemented by client.NetworkResponse and the pages embedding it.
type statusReporter interface {
	Status() int
}

// PageObserver returns a pagination.Config.ResponseFetched callback publishing one
// PageFetched per page. A publish error aborts the traversal. The callback numbers
// pages itself, so use a fresh observer per traversal.
func PageObserver[P pagination.Page[T], T any](p *Publisher, listing string) func(page P, used pagination.Continuation) error {
	var (
		mu   sync.Mutex
		page int
	)
	return func(result P, used pagination.Continuation) error {
		mu.Lock()
		page++
		n := page
		mu.Unlock()

		ev := PageFetched{
			Listing:      listing,
			Page:         n,
			Items:        len(result.PageItems()),
			Continuation: used.String(),
			Next:         result.Continuation().String(),
			FetchedAt:    time.Now().UTC(),
		}
		if s, ok := any(result).(statusReporter); ok {
			ev.StatusCode = s.Status()
		}
		return p.Publish(ev)
	}
}

// Chain runs observers in order and stops at the first error.
func Chain[P any](observers ...func(P, pagination.Continuation) error) func(P, pagination.Continuation) error {
	return func(page P, used pagination.Continuation) error {
		for _, observe := range observers {
			if observe == nil {
				continue
			}
			if err := observe(page, used); err != nil {
				return err
			}
		}
		return nil
	}
}
