package delivery

import (
	"context"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// LanguagesResponse is one page of GET /languages.
type LanguagesResponse struct {
	Languages  []Language
	Pagination Pagination
}

func (r LanguagesResponse) ListItems() []Language { return r.Languages }
func (r LanguagesResponse) NextPageURL() string   { return r.Pagination.NextPage }

// LanguagesPage is one fetched page of a languages listing.
type LanguagesPage = client.ListResponse[Language, LanguagesResponse]

type LanguagesListAll struct {
	Languages []Language
	Pages     []LanguagesPage
}

func languagesAggregate(languages []Language, pages []LanguagesPage) LanguagesListAll {
	return LanguagesListAll{Languages: languages, Pages: pages}
}

// LanguagesQuery lists project languages.
type LanguagesQuery struct {
	baseQuery
}

func (q *LanguagesQuery) Skip(skip int) *LanguagesQuery {
	q.set("skip", itoa(skip))
	return q
}

func (q *LanguagesQuery) Limit(limit int) *LanguagesQuery {
	q.set("limit", itoa(limit))
	return q
}

func (q *LanguagesQuery) WithConfig(cfg QueryConfig) *LanguagesQuery {
	q.config = cfg
	return q
}

func (q *LanguagesQuery) URL() string {
	return q.url("/languages")
}

func (q *LanguagesQuery) Fetch(ctx context.Context) (client.NetworkResponse[LanguagesResponse], error) {
	return client.GetJSON(ctx, q.client.http, q.request("/languages", "delivery_languages", pagination.None()), mapLanguagesResponse)
}

func (q *LanguagesQuery) fetchPage(ctx context.Context, next pagination.Continuation) (LanguagesPage, error) {
	resp, err := client.GetJSON(ctx, q.client.http, q.request("/languages", "delivery_languages", next), mapLanguagesResponse)
	if err != nil {
		return LanguagesPage{}, err
	}
	return client.AsList[Language](resp), nil
}

func (q *LanguagesQuery) ListAll(ctx context.Context, cfg *pagination.Config[LanguagesPage]) (LanguagesListAll, error) {
	return pagination.ListAll[LanguagesPage, Language, LanguagesListAll](
		ctx, q.fetchPage, languagesAggregate, withLabel(cfg, "delivery_languages"))
}
