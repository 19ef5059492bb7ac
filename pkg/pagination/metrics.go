package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for listing traversals.
var (
	// PagesFetched counts pages fetched by listing label.
	PagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_pagination_pages_total",
		Help: "Total number of listing pages fetched",
	}, []string{"listing"})

	// Traversals counts finished traversals by listing label and outcome.
	Traversals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kontent_pagination_traversals_total",
		Help: "Total number of list-all traversals by outcome",
	}, []string{"listing", "outcome"}) // outcome: "exhausted", "page_limit", "error"

	// PagesPerTraversal observes how many pages a successful traversal needed.
	PagesPerTraversal = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kontent_pagination_pages_per_traversal",
		Help:    "Number of pages fetched per successful traversal",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	}, []string{"listing"})
)

const (
	outcomeExhausted = "exhausted"
	outcomePageLimit = "page_limit"
	outcomeError     = "error"
)
