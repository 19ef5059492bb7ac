package management

import (
	"context"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// TaxonomiesResponse is one page of GET /taxonomies.
type TaxonomiesResponse struct {
	Taxonomies []Taxonomy
	Pagination Pagination
}

func (r TaxonomiesResponse) ListItems() []Taxonomy { return r.Taxonomies }
func (r TaxonomiesResponse) NextPageURL() string   { return "" }
func (r TaxonomiesResponse) bodyToken() string     { return r.Pagination.ContinuationToken }

type TaxonomiesPage = client.ListResponse[Taxonomy, TaxonomiesResponse]

type TaxonomiesListAll = pagination.Aggregate[Taxonomy, TaxonomiesPage]

// TaxonomiesQuery lists taxonomy groups.
type TaxonomiesQuery struct {
	listing listing[taxonomiesContract, Taxonomy, TaxonomiesResponse]
}

func (c *Client) ListTaxonomies() *TaxonomiesQuery {
	return &TaxonomiesQuery{listing: listing[taxonomiesContract, Taxonomy, TaxonomiesResponse]{
		client:   c,
		path:     "/taxonomies",
		endpoint: "management_taxonomies",
		mapper:   mapTaxonomiesResponse,
	}}
}

func (q *TaxonomiesQuery) Fetch(ctx context.Context) (client.NetworkResponse[TaxonomiesResponse], error) {
	return q.listing.fetch(ctx, pagination.None())
}

func (q *TaxonomiesQuery) ListAll(ctx context.Context, cfg *pagination.Config[TaxonomiesPage]) (TaxonomiesListAll, error) {
	return q.listing.listAll(ctx, cfg)
}
