package delivery

import (
	"context"
	"net/url"
	"strings"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// ItemsResponse is one page of GET /items.
type ItemsResponse struct {
	Items       []ContentItem
	LinkedItems LinkedItems
	Pagination  Pagination
}

func (r ItemsResponse) ListItems() []ContentItem { return r.Items }
func (r ItemsResponse) NextPageURL() string      { return r.Pagination.NextPage }

// ItemsPage is one fetched page of an items listing.
type ItemsPage = client.ListResponse[ContentItem, ItemsResponse]

// ItemsListAll is the result of walking every items page.
type ItemsListAll struct {
	Items []ContentItem

	// LinkedItems merges modular_content of all pages; the first occurrence wins.
	LinkedItems LinkedItems

	Pages []ItemsPage
}

func itemsAggregate(items []ContentItem, pages []ItemsPage) ItemsListAll {
	linked := LinkedItems{}
	for _, p := range pages {
		linked.merge(p.Data.LinkedItems)
	}
	return ItemsListAll{Items: items, LinkedItems: linked, Pages: pages}
}

// ItemsQuery lists content items with skip/limit paging.
type ItemsQuery struct {
	baseQuery
}

// Type restricts the listing to content types.
func (q *ItemsQuery) Type(codenames ...string) *ItemsQuery {
	if len(codenames) == 1 {
		q.set("system.type", codenames[0])
	} else {
		q.set("system.type[in]", strings.Join(codenames, ","))
	}
	return q
}

// Elements projects the response to the given element codenames.
func (q *ItemsQuery) Elements(codenames ...string) *ItemsQuery {
	q.set("elements", strings.Join(codenames, ","))
	return q
}

// Depth sets how deep linked items are delivered.
func (q *ItemsQuery) Depth(depth int) *ItemsQuery {
	q.set("depth", itoa(depth))
	return q
}

func (q *ItemsQuery) Skip(skip int) *ItemsQuery {
	q.set("skip", itoa(skip))
	return q
}

// Limit sets the page size.
func (q *ItemsQuery) Limit(limit int) *ItemsQuery {
	q.set("limit", itoa(limit))
	return q
}

func (q *ItemsQuery) Language(codename string) *ItemsQuery {
	q.set("language", codename)
	return q
}

// OrderBy sorts by an element or system property, e.g. elements.title.
func (q *ItemsQuery) OrderBy(property string, ascending bool) *ItemsQuery {
	dir := "[desc]"
	if ascending {
		dir = "[asc]"
	}
	q.set("order", property+dir)
	return q
}

// Where adds filters.
func (q *ItemsQuery) Where(filters ...Filter) *ItemsQuery {
	q.where(filters)
	return q
}

// IncludeTotalCount asks for Pagination.TotalCount.
func (q *ItemsQuery) IncludeTotalCount() *ItemsQuery {
	q.set("includeTotalCount", "true")
	return q
}

// WithConfig overrides client defaults for this query.
func (q *ItemsQuery) WithConfig(cfg QueryConfig) *ItemsQuery {
	q.config = cfg
	return q
}

// URL returns the URL of the first page.
func (q *ItemsQuery) URL() string {
	q.applyDefaultLanguage()
	return q.url("/items")
}

// Fetch requests a single page.
func (q *ItemsQuery) Fetch(ctx context.Context) (client.NetworkResponse[ItemsResponse], error) {
	q.applyDefaultLanguage()
	return client.GetJSON(ctx, q.client.http, q.request("/items", "delivery_items", pagination.None()), mapItemsResponse)
}

func (q *ItemsQuery) fetchPage(ctx context.Context, next pagination.Continuation) (ItemsPage, error) {
	resp, err := client.GetJSON(ctx, q.client.http, q.request("/items", "delivery_items", next), mapItemsResponse)
	if err != nil {
		return ItemsPage{}, err
	}
	return client.AsList[ContentItem](resp), nil
}

// ListAll follows next_page links until the listing is exhausted or cfg.Pages is reached.
func (q *ItemsQuery) ListAll(ctx context.Context, cfg *pagination.Config[ItemsPage]) (ItemsListAll, error) {
	q.applyDefaultLanguage()
	return pagination.ListAll[ItemsPage, ContentItem, ItemsListAll](
		ctx, q.fetchPage, itemsAggregate, withLabel(cfg, "delivery_items"))
}

// ItemResponse is GET /items/{codename}.
type ItemResponse struct {
	Item        ContentItem
	LinkedItems LinkedItems
}

// ItemQuery fetches one content item.
type ItemQuery struct {
	baseQuery
	codename string
}

func (q *ItemQuery) Elements(codenames ...string) *ItemQuery {
	q.set("elements", strings.Join(codenames, ","))
	return q
}

func (q *ItemQuery) Depth(depth int) *ItemQuery {
	q.set("depth", itoa(depth))
	return q
}

func (q *ItemQuery) Language(codename string) *ItemQuery {
	q.set("language", codename)
	return q
}

func (q *ItemQuery) WithConfig(cfg QueryConfig) *ItemQuery {
	q.config = cfg
	return q
}

func (q *ItemQuery) path() string {
	return "/items/" + url.PathEscape(q.codename)
}

func (q *ItemQuery) URL() string {
	q.applyDefaultLanguage()
	return q.url(q.path())
}

// Fetch requests the item together with its linked items.
func (q *ItemQuery) Fetch(ctx context.Context) (client.NetworkResponse[ItemResponse], error) {
	q.applyDefaultLanguage()
	return client.GetJSON(ctx, q.client.http, q.request(q.path(), "delivery_item", pagination.None()), mapItemResponse)
}

// FeedResponse is one page of GET /items-feed.
type FeedResponse struct {
	Items       []ContentItem
	LinkedItems LinkedItems
}

func (r FeedResponse) ListItems() []ContentItem { return r.Items }

// NextPageURL is always empty; the feed pages by X-Continuation token.
func (r FeedResponse) NextPageURL() string { return "" }

// FeedPage is one fetched page of the items feed.
type FeedPage = client.ListResponse[ContentItem, FeedResponse]

// FeedListAll is the result of walking the whole feed.
type FeedListAll struct {
	Items       []ContentItem
	LinkedItems LinkedItems
	Pages       []FeedPage
}

func feedAggregate(items []ContentItem, pages []FeedPage) FeedListAll {
	linked := LinkedItems{}
	for _, p := range pages {
		linked.merge(p.Data.LinkedItems)
	}
	return FeedListAll{Items: items, LinkedItems: linked, Pages: pages}
}

// FeedQuery enumerates content items with continuation tokens.
type FeedQuery struct {
	baseQuery
}

func (q *FeedQuery) Type(codenames ...string) *FeedQuery {
	if len(codenames) == 1 {
		q.set("system.type", codenames[0])
	} else {
		q.set("system.type[in]", strings.Join(codenames, ","))
	}
	return q
}

func (q *FeedQuery) Elements(codenames ...string) *FeedQuery {
	q.set("elements", strings.Join(codenames, ","))
	return q
}

func (q *FeedQuery) Language(codename string) *FeedQuery {
	q.set("language", codename)
	return q
}

func (q *FeedQuery) OrderBy(property string, ascending bool) *FeedQuery {
	dir := "[desc]"
	if ascending {
		dir = "[asc]"
	}
	q.set("order", property+dir)
	return q
}

func (q *FeedQuery) Where(filters ...Filter) *FeedQuery {
	q.where(filters)
	return q
}

func (q *FeedQuery) WithConfig(cfg QueryConfig) *FeedQuery {
	q.config = cfg
	return q
}

func (q *FeedQuery) URL() string {
	q.applyDefaultLanguage()
	return q.url("/items-feed")
}

// Fetch requests the first feed page. Its ContinuationToken leads to the next one.
func (q *FeedQuery) Fetch(ctx context.Context) (client.NetworkResponse[FeedResponse], error) {
	q.applyDefaultLanguage()
	return client.GetJSON(ctx, q.client.http, q.request("/items-feed", "delivery_items_feed", pagination.None()), mapFeedResponse)
}

func (q *FeedQuery) fetchPage(ctx context.Context, next pagination.Continuation) (FeedPage, error) {
	resp, err := client.GetJSON(ctx, q.client.http, q.request("/items-feed", "delivery_items_feed", next), mapFeedResponse)
	if err != nil {
		return FeedPage{}, err
	}
	return client.AsList[ContentItem](resp), nil
}

// ListAll follows X-Continuation tokens until the feed is exhausted or cfg.Pages is reached.
func (q *FeedQuery) ListAll(ctx context.Context, cfg *pagination.Config[FeedPage]) (FeedListAll, error) {
	q.applyDefaultLanguage()
	return pagination.ListAll[FeedPage, ContentItem, FeedListAll](
		ctx, q.fetchPage, feedAggregate, withLabel(cfg, "delivery_items_feed"))
}
