package management

import (
	"context"
	"net/http"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// ContentItemsResponse is one page of GET /items.
type ContentItemsResponse struct {
	Items      []ContentItem
	Pagination Pagination
}

func (r ContentItemsResponse) ListItems() []ContentItem { return r.Items }

// NextPageURL is always empty; management listings page by token.
func (r ContentItemsResponse) NextPageURL() string { return "" }

func (r ContentItemsResponse) bodyToken() string { return r.Pagination.ContinuationToken }

// ContentItemsPage is one fetched page of the content items listing.
type ContentItemsPage = client.ListResponse[ContentItem, ContentItemsResponse]

// ContentItemsListAll is the result of walking every content items page.
type ContentItemsListAll = pagination.Aggregate[ContentItem, ContentItemsPage]

// ContentItemsQuery lists content items.
type ContentItemsQuery struct {
	listing listing[contentItemsContract, ContentItem, ContentItemsResponse]
}

// ListContentItems lists the project's content items.
func (c *Client) ListContentItems() *ContentItemsQuery {
	return &ContentItemsQuery{listing: listing[contentItemsContract, ContentItem, ContentItemsResponse]{
		client:   c,
		path:     "/items",
		endpoint: "management_items",
		mapper:   mapContentItemsResponse,
	}}
}

// URL returns the URL of the first page.
func (q *ContentItemsQuery) URL() string {
	return q.listing.client.url(q.listing.path)
}

// Fetch requests the first page.
func (q *ContentItemsQuery) Fetch(ctx context.Context) (client.NetworkResponse[ContentItemsResponse], error) {
	return q.listing.fetch(ctx, pagination.None())
}

// ListAll follows continuation tokens until the listing is exhausted or cfg.Pages is reached.
func (q *ContentItemsQuery) ListAll(ctx context.Context, cfg *pagination.Config[ContentItemsPage]) (ContentItemsListAll, error) {
	return q.listing.listAll(ctx, cfg)
}

// AddContentItemData is the body of POST /items.
type AddContentItemData struct {
	Name             string      `json:"name"`
	Codename         string      `json:"codename,omitempty"`
	Type             Reference   `json:"type"`
	Collection       *Reference  `json:"collection,omitempty"`
	SitemapLocations []Reference `json:"sitemap_locations,omitempty"`
	ExternalID       string      `json:"external_id,omitempty"`
}

// UpsertContentItemData is the body of PUT /items/{identifier}. Type is required
// only when the item does not exist yet.
type UpsertContentItemData struct {
	Name             string      `json:"name"`
	Codename         string      `json:"codename,omitempty"`
	Type             *Reference  `json:"type,omitempty"`
	Collection       *Reference  `json:"collection,omitempty"`
	SitemapLocations []Reference `json:"sitemap_locations,omitempty"`
}

func itemPath(item Identifier) string {
	return "/items/" + item.segment()
}

// ViewContentItem fetches one content item.
func (c *Client) ViewContentItem(ctx context.Context, item Identifier) (client.NetworkResponse[ContentItem], error) {
	req := c.request(http.MethodGet, itemPath(item), "management_item", nil, pagination.None())
	return client.GetJSON(ctx, c.http, req, mapContentItem)
}

// AddContentItem creates a content item.
func (c *Client) AddContentItem(ctx context.Context, data AddContentItemData) (client.NetworkResponse[ContentItem], error) {
	req := c.request(http.MethodPost, "/items", "management_item_add", data, pagination.None())
	resp, err := client.SendJSON(ctx, c.http, req, mapContentItem)
	if err == nil {
		c.logger.Info().Str("item", resp.Data.Codename).Msg("Content item added")
	}
	return resp, err
}

// UpsertContentItem creates or updates the item addressed by item. Items addressed by
// external ID are created when missing.
func (c *Client) UpsertContentItem(ctx context.Context, item Identifier, data UpsertContentItemData) (client.NetworkResponse[ContentItem], error) {
	req := c.request(http.MethodPut, itemPath(item), "management_item_upsert", data, pagination.None())
	return client.SendJSON(ctx, c.http, req, mapContentItem)
}

// DeleteContentItem deletes a content item with all its language variants.
func (c *Client) DeleteContentItem(ctx context.Context, item Identifier) (client.NetworkResponse[EmptyResponse], error) {
	req := c.request(http.MethodDelete, itemPath(item), "management_item_delete", nil, pagination.None())
	resp, err := client.SendJSON(ctx, c.http, req, mapEmpty)
	if err == nil {
		c.logger.Info().Str("item", item.String()).Msg("Content item deleted")
	}
	return resp, err
}
