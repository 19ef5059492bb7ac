package delivery

import (
	"context"
	"net/url"
	"strings"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// TypesResponse is one page of GET /types.
type TypesResponse struct {
	Types      []ContentType
	Pagination Pagination
}

func (r TypesResponse) ListItems() []ContentType { return r.Types }
func (r TypesResponse) NextPageURL() string      { return r.Pagination.NextPage }

// TypesPage is one fetched page of a types listing.
type TypesPage = client.ListResponse[ContentType, TypesResponse]

// TypesListAll is the result of walking every types page.
type TypesListAll struct {
	Types []ContentType
	Pages []TypesPage
}

func typesAggregate(types []ContentType, pages []TypesPage) TypesListAll {
	return TypesListAll{Types: types, Pages: pages}
}

// TypesQuery lists content types.
type TypesQuery struct {
	baseQuery
}

func (q *TypesQuery) Elements(codenames ...string) *TypesQuery {
	q.set("elements", strings.Join(codenames, ","))
	return q
}

func (q *TypesQuery) Skip(skip int) *TypesQuery {
	q.set("skip", itoa(skip))
	return q
}

func (q *TypesQuery) Limit(limit int) *TypesQuery {
	q.set("limit", itoa(limit))
	return q
}

func (q *TypesQuery) WithConfig(cfg QueryConfig) *TypesQuery {
	q.config = cfg
	return q
}

func (q *TypesQuery) URL() string {
	return q.url("/types")
}

func (q *TypesQuery) Fetch(ctx context.Context) (client.NetworkResponse[TypesResponse], error) {
	return client.GetJSON(ctx, q.client.http, q.request("/types", "delivery_types", pagination.None()), mapTypesResponse)
}

func (q *TypesQuery) fetchPage(ctx context.Context, next pagination.Continuation) (TypesPage, error) {
	resp, err := client.GetJSON(ctx, q.client.http, q.request("/types", "delivery_types", next), mapTypesResponse)
	if err != nil {
		return TypesPage{}, err
	}
	return client.AsList[ContentType](resp), nil
}

// ListAll walks every types page.
func (q *TypesQuery) ListAll(ctx context.Context, cfg *pagination.Config[TypesPage]) (TypesListAll, error) {
	return pagination.ListAll[TypesPage, ContentType, TypesListAll](
		ctx, q.fetchPage, typesAggregate, withLabel(cfg, "delivery_types"))
}

// TypeResponse is GET /types/{codename}.
type TypeResponse struct {
	Type ContentType
}

// TypeQuery fetches one content type.
type TypeQuery struct {
	baseQuery
	codename string
}

func (q *TypeQuery) WithConfig(cfg QueryConfig) *TypeQuery {
	q.config = cfg
	return q
}

func (q *TypeQuery) path() string {
	return "/types/" + url.PathEscape(q.codename)
}

func (q *TypeQuery) URL() string {
	return q.url(q.path())
}

func (q *TypeQuery) Fetch(ctx context.Context) (client.NetworkResponse[TypeResponse], error) {
	return client.GetJSON(ctx, q.client.http, q.request(q.path(), "delivery_type", pagination.None()), mapTypeResponse)
}

// ElementResponse is GET /types/{type}/elements/{element}.
type ElementResponse struct {
	Element ContentTypeElement
}

// ElementQuery fetches one element definition, including options and taxonomy group.
type ElementQuery struct {
	baseQuery
	typeCodename    string
	elementCodename string
}

func (q *ElementQuery) WithConfig(cfg QueryConfig) *ElementQuery {
	q.config = cfg
	return q
}

func (q *ElementQuery) path() string {
	return "/types/" + url.PathEscape(q.typeCodename) + "/elements/" + url.PathEscape(q.elementCodename)
}

func (q *ElementQuery) URL() string {
	return q.url(q.path())
}

func (q *ElementQuery) Fetch(ctx context.Context) (client.NetworkResponse[ElementResponse], error) {
	return client.GetJSON(ctx, q.client.http, q.request(q.path(), "delivery_element", pagination.None()), mapElementResponse)
}
