package management

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
func (r LanguagesResponse) NextPageURL() string   { return "" }
func (r LanguagesResponse) bodyToken() string     { return r.Pagination.ContinuationToken }

type LanguagesPage = client.ListResponse[Language, LanguagesResponse]

type LanguagesListAll = pagination.Aggregate[Language, LanguagesPage]

// LanguagesQuery lists project languages.
type LanguagesQuery struct {
	listing listing[languagesContract, Language, LanguagesResponse]
}

func (c *Client) ListLanguages() *LanguagesQuery {
	return &LanguagesQuery{listing: listing[languagesContract, Language, LanguagesResponse]{
		client:   c,
		path:     "/languages",
		endpoint: "management_languages",
		mapper:   mapLanguagesResponse,
	}}
}

func (q *LanguagesQuery) Fetch(ctx context.Context) (client.NetworkResponse[LanguagesResponse], error) {
	return q.listing.fetch(ctx, pagination.None())
}

func (q *LanguagesQuery) ListAll(ctx context.Context, cfg *pagination.Config[LanguagesPage]) (LanguagesListAll, error) {
	return q.listing.listAll(ctx, cfg)
}
