package delivery

import (
	"context"
	"net/url"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// TaxonomiesResponse is one page of GET /taxonomies.
type TaxonomiesResponse struct {
	Taxonomies []Taxonomy
	Pagination Pagination
}

func (r TaxonomiesResponse) ListItems() []Taxonomy { return r.Taxonomies }
func (r TaxonomiesResponse) NextPageURL() string   { return r.Pagination.NextPage }

// TaxonomiesPage is one fetched page of a taxonomies listing.
type TaxonomiesPage = client.ListResponse[Taxonomy, TaxonomiesResponse]

type TaxonomiesListAll struct {
	Taxonomies []Taxonomy
	Pages      []TaxonomiesPage
}

func taxonomiesAggregate(taxonomies []Taxonomy, pages []TaxonomiesPage) TaxonomiesListAll {
	return TaxonomiesListAll{Taxonomies: taxonomies, Pages: pages}
}

// TaxonomiesQuery lists taxonomy groups.
type TaxonomiesQuery struct {
	baseQuery
}

func (q *TaxonomiesQuery) Skip(skip int) *TaxonomiesQuery {
	q.set("skip", itoa(skip))
	return q
}

func (q *TaxonomiesQuery) Limit(limit int) *TaxonomiesQuery {
	q.set("limit", itoa(limit))
	return q
}

func (q *TaxonomiesQuery) WithConfig(cfg QueryConfig) *TaxonomiesQuery {
	q.config = cfg
	return q
}

func (q *TaxonomiesQuery) URL() string {
	return q.url("/taxonomies")
}

func (q *TaxonomiesQuery) Fetch(ctx context.Context) (client.NetworkResponse[TaxonomiesResponse], error) {
	return client.GetJSON(ctx, q.client.http, q.request("/taxonomies", "delivery_taxonomies", pagination.None()), mapTaxonomiesResponse)
}

func (q *TaxonomiesQuery) fetchPage(ctx context.Context, next pagination.Continuation) (TaxonomiesPage, error) {
	resp, err := client.GetJSON(ctx, q.client.http, q.request("/taxonomies", "delivery_taxonomies", next), mapTaxonomiesResponse)
	if err != nil {
		return TaxonomiesPage{}, err
	}
	return client.AsList[Taxonomy](resp), nil
}

func (q *TaxonomiesQuery) ListAll(ctx context.Context, cfg *pagination.Config[TaxonomiesPage]) (TaxonomiesListAll, error) {
	return pagination.ListAll[TaxonomiesPage, Taxonomy, TaxonomiesListAll](
		ctx, q.fetchPage, taxonomiesAggregate, withLabel(cfg, "delivery_taxonomies"))
}

// TaxonomyResponse is GET /taxonomies/{codename}.
type TaxonomyResponse struct {
	Taxonomy Taxonomy
}

// TaxonomyQuery fetches one taxonomy group.
type TaxonomyQuery struct {
	baseQuery
	codename string
}

func (q *TaxonomyQuery) WithConfig(cfg QueryConfig) *TaxonomyQuery {
	q.config = cfg
	return q
}

func (q *TaxonomyQuery) path() string {
	return "/taxonomies/" + url.PathEscape(q.codename)
}

func (q *TaxonomyQuery) URL() string {
	return q.url(q.path())
}

func (q *TaxonomyQuery) Fetch(ctx context.Context) (client.NetworkResponse[TaxonomyResponse], error) {
	return client.GetJSON(ctx, q.client.http, q.request(q.path(), "delivery_taxonomy", pagination.None()), mapTaxonomyResponse)
}
