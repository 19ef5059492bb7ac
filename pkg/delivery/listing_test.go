package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terence1988/kontent-go/internal/testutil"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

func articles(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, testutil.ItemJSON(fmt.Sprintf("article_%d", i), "article", fmt.Sprintf("Article %d", i)))
	}
	return out
}

func codenames(items []ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.System.Codename)
	}
	return out
}

func TestItemsQuery_Fetch(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.ServeSkipLimit("/"+testProject+"/items", "items", articles(3), 2, map[string]string{"modular_content": "{}"})
	c := newTestDelivery(t, mock)

	resp, err := c.Items().IncludeTotalCount().Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"article_1", "article_2"}, codenames(resp.Data.Items))
	assert.Equal(t, 2, resp.Data.Pagination.Count)
	require.NotNil(t, resp.Data.Pagination.TotalCount)
	assert.Equal(t, 3, *resp.Data.Pagination.TotalCount)
	assert.Contains(t, resp.Data.Pagination.NextPage, "skip=2")

	title, err := resp.Data.Items[0].Text("title")
	require.NoError(t, err)
	assert.Equal(t, "Article 1", title)

	reqs := mock.RequestsTo("/" + testProject + "/items")
	require.Len(t, reqs, 1)
	assert.Equal(t, SDKID, reqs[0].Header.Get(HeaderSDKID))
	assert.Equal(t, "kontent-go-test/1.0", reqs[0].Header.Get("User-Agent"))
}

func TestItemsQuery_ListAll(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	path := "/" + testProject + "/items"
	mock.ServeSkipLimit(path, "items", articles(5), 2, nil)
	c := newTestDelivery(t, mock)

	all, err := c.Items().Limit(2).ListAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"article_1", "article_2", "article_3", "article_4", "article_5"}, codenames(all.Items))
	require.Len(t, all.Pages, 3)
	assert.Len(t, all.Pages[2].PageItems(), 1)
	assert.False(t, all.Pages[2].Continuation().HasNext())

	reqs := mock.RequestsTo(path)
	require.Len(t, reqs, 3)
	assert.False(t, reqs[0].Query.Has("skip"))
	assert.Equal(t, "2", reqs[1].Query.Get("skip"))
	assert.Equal(t, "4", reqs[2].Query.Get("skip"))
	for _, r := range reqs {
		assert.Empty(t, r.Header.Get("X-Continuation"), "skip/limit listings follow next_page URLs")
	}
}

func TestItemsQuery_ListAll_PageLimit(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	path := "/" + testProject + "/items"
	mock.ServeSkipLimit(path, "items", articles(10), 3, nil)
	c := newTestDelivery(t, mock)

	all, err := c.Items().ListAll(context.Background(), &pagination.Config[ItemsPage]{Pages: 2})
	require.NoError(t, err)

	assert.Len(t, all.Items, 6)
	assert.Len(t, all.Pages, 2)
	assert.Len(t, mock.RequestsTo(path), 2)
}

func TestItemsQuery_ListAll_ObserverAndDelay(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.ServeSkipLimit("/"+testProject+"/items", "items", articles(3), 1, nil)
	c := newTestDelivery(t, mock)

	var used []pagination.Continuation
	delay := 20 * time.Millisecond
	start := time.Now()

	_, err := c.Items().ListAll(context.Background(), &pagination.Config[ItemsPage]{
		DelayBetweenRequests: delay,
		ResponseFetched: func(page ItemsPage, next pagination.Continuation) error {
			used = append(used, next)
			return nil
		},
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
	require.Len(t, used, 3)
	assert.Equal(t, pagination.KindNone, used[0].Kind)
	assert.Equal(t, pagination.KindNextPageURL, used[1].Kind)
	assert.Contains(t, used[2].URL(), "skip=2")
}

func TestItemsQuery_ListAll_ObserverError(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	path := "/" + testProject + "/items"
	mock.ServeSkipLimit(path, "items", articles(4), 1, nil)
	c := newTestDelivery(t, mock)

	stop := errors.New("stop")
	all, err := c.Items().ListAll(context.Background(), &pagination.Config[ItemsPage]{
		ResponseFetched: func(ItemsPage, pagination.Continuation) error { return stop },
	})

	assert.ErrorIs(t, err, stop)
	assert.Empty(t, all.Items)
	assert.Len(t, mock.RequestsTo(path), 1)
}

func TestItemsQuery_ListAll_LinkedItemsMerged(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	path := "/" + testProject + "/items"

	// Each page delivers a different linked item plus a shared one.
	page := 0
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page++
		next := ""
		if page == 1 {
			next = mock.URL() + path + "?skip=1"
		}
		fmt.Fprintf(w, `{"items":[%s],"modular_content":{"shared":%s,"only_%d":%s},"pagination":{"skip":0,"limit":1,"count":1,"next_page":%q}}`,
			testutil.ItemJSON(fmt.Sprintf("page_%d", page), "article", "x"),
			testutil.ItemJSON("shared", "author", fmt.Sprintf("Shared from page %d", page)),
			page, testutil.ItemJSON(fmt.Sprintf("only_%d", page), "author", "y"),
			next)
	})
	c := newTestDelivery(t, mock)

	all, err := c.Items().ListAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Len(t, all.Items, 2)
	assert.Len(t, all.LinkedItems, 3)
	assert.Contains(t, all.LinkedItems, "only_1")
	assert.Contains(t, all.LinkedItems, "only_2")
	assert.Equal(t, "Shared from page 1", all.LinkedItems["shared"].System.Name)
}

func TestItemsQuery_ListAll_ErrorDiscardsPages(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	path := "/" + testProject + "/items"

	calls := 0
	mock.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"Missing preview key.","request_id":"r-2","error_code":8}`)
			return
		}
		fmt.Fprintf(w, `{"items":[%s],"modular_content":{},"pagination":{"skip":0,"limit":1,"count":1,"next_page":%q}}`,
			testutil.ItemJSON("first", "article", "First"), mock.URL()+path+"?skip=1")
	})
	c := newTestDelivery(t, mock)

	all, err := c.Items().ListAll(context.Background(), nil)
	require.Error(t, err)
	assert.Empty(t, all.Items)
	assert.Empty(t, all.Pages)
	assert.Equal(t, 2, calls, "4xx responses are not retried")
}

func TestItemsQuery_ListAll_ContextCanceled(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.ServeSkipLimit("/"+testProject+"/items", "items", articles(5), 1, nil)
	c := newTestDelivery(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.Items().ListAll(ctx, &pagination.Config[ItemsPage]{
		ResponseFetched: func(page ItemsPage, _ pagination.Continuation) error {
			cancel()
			return nil
		},
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeedQuery_ListAll(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	path := "/" + testProject + "/items-feed"
	items := articles(5)
	mock.ServeFeed(path, "feed", [][]string{items[:2], items[2:4], items[4:]}, map[string]string{"modular_content": "{}"})
	c := newTestDelivery(t, mock)

	all, err := c.ItemsFeed().Type("article").ListAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"article_1", "article_2", "article_3", "article_4", "article_5"}, codenames(all.Items))
	require.Len(t, all.Pages, 3)
	assert.Equal(t, "feed-1", all.Pages[0].ContinuationToken)
	assert.Equal(t, pagination.KindToken, all.Pages[0].Continuation().Kind)
	assert.False(t, all.Pages[2].Continuation().HasNext())

	reqs := mock.RequestsTo(path)
	require.Len(t, reqs, 3)
	assert.Empty(t, reqs[0].Header.Get("X-Continuation"))
	assert.Equal(t, "feed-1", reqs[1].Header.Get("X-Continuation"))
	assert.Equal(t, "feed-2", reqs[2].Header.Get("X-Continuation"))
	for _, r := range reqs {
		assert.Equal(t, "article", r.Query.Get("system.type"), "every page keeps the query")
	}
}

func TestFeedQuery_Fetch(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	items := articles(3)
	mock.ServeFeed("/"+testProject+"/items-feed", "feed", [][]string{items[:1], items[1:]}, nil)
	c := newTestDelivery(t, mock)

	resp, err := c.ItemsFeed().Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "feed-1", resp.ContinuationToken)
}

func TestTypesQuery_ListAll(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	types := []string{
		`{"system":{"id":"t1","name":"Article","codename":"article","last_modified":"2026-01-01T00:00:00Z"},"elements":{"title":{"type":"text","name":"Title"}}}`,
		`{"system":{"id":"t2","name":"Coffee","codename":"coffee","last_modified":"2026-01-01T00:00:00Z"},"elements":{"processing":{"type":"multiple_choice","name":"Processing","options":[{"name":"Wet","codename":"wet"}]}}}`,
		`{"system":{"id":"t3","name":"Author","codename":"author","last_modified":"2026-01-01T00:00:00Z"},"elements":{}}`,
	}
	mock.ServeSkipLimit("/"+testProject+"/types", "types", types, 2, nil)
	c := newTestDelivery(t, mock)

	all, err := c.Types().ListAll(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, all.Types, 3)
	assert.Len(t, all.Pages, 2)
	assert.Equal(t, "coffee", all.Types[1].Codename)
	assert.Equal(t, "processing", all.Types[1].Elements["processing"].Codename)
	assert.Equal(t, []Option{{Name: "Wet", Codename: "wet"}}, all.Types[1].Elements["processing"].Options)
}

func TestTypeAndElementQuery_Fetch(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.SetResponse("/"+testProject+"/types/coffee", testutil.NewJSONResponse(
		`{"system":{"id":"t2","name":"Coffee","codename":"coffee","last_modified":"2026-01-01T00:00:00Z"},"elements":{"country":{"type":"text","name":"Country"}}}`))
	mock.SetResponse("/"+testProject+"/types/coffee/elements/processing", testutil.NewJSONResponse(
		`{"type":"multiple_choice","name":"Processing","codename":"processing","options":[{"name":"Dry","codename":"dry"}]}`))
	c := newTestDelivery(t, mock)

	typ, err := c.Type("coffee").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Coffee", typ.Data.Type.Name)
	assert.Equal(t, "text", typ.Data.Type.Elements["country"].Type)

	el, err := c.Element("coffee", "processing").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "processing", el.Data.Element.Codename)
	assert.Equal(t, "dry", el.Data.Element.Options[0].Codename)
}

func TestLanguagesQuery_ListAll(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	langs := []string{
		`{"system":{"id":"l1","name":"English","codename":"en-US"}}`,
		`{"system":{"id":"l2","name":"Spanish","codename":"es-ES"}}`,
		`{"system":{"id":"l3","name":"Czech","codename":"cs-CZ"}}`,
	}
	mock.ServeSkipLimit("/"+testProject+"/languages", "languages", langs, 1, nil)
	c := newTestDelivery(t, mock)

	all, err := c.Languages().ListAll(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, all.Languages, 3)
	assert.Len(t, all.Pages, 3)
	assert.Equal(t, Language{ID: "l2", Name: "Spanish", Codename: "es-ES"}, all.Languages[1])
}

func TestTaxonomies(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	personas := `{"system":{"id":"x1","name":"Personas","codename":"personas","last_modified":"2026-01-01T00:00:00Z"},` +
		`"terms":[{"name":"Coffee expert","codename":"coffee_expert","terms":[{"name":"Barista","codename":"barista","terms":[]}]}]}`
	mock.ServeSkipLimit("/"+testProject+"/taxonomies", "taxonomies", []string{personas}, 10, nil)
	mock.SetResponse("/"+testProject+"/taxonomies/personas", testutil.NewJSONResponse(personas))
	c := newTestDelivery(t, mock)

	all, err := c.Taxonomies().ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all.Taxonomies, 1)
	assert.Len(t, all.Pages, 1)

	one, err := c.Taxonomy("personas").Fetch(context.Background())
	require.NoError(t, err)
	tax := one.Data.Taxonomy
	assert.Equal(t, "personas", tax.Codename)
	require.Len(t, tax.Terms, 1)
	assert.Equal(t, "barista", tax.Terms[0].Terms[0].Codename)
	assert.Nil(t, tax.Terms[0].Terms[0].Terms)
}

func TestItemQuery_Fetch(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.SetResponse("/"+testProject+"/items/warrior", testutil.NewJSONResponse(warriorJSON))
	c := newTestDelivery(t, mock, func(cfg *Config) { cfg.DefaultLanguage = "en" })

	resp, err := c.Item("warrior").Depth(1).Fetch(context.Background())
	require.NoError(t, err)

	stars, err := resp.Data.Item.LinkedItems("stars", resp.Data.LinkedItems)
	require.NoError(t, err)
	assert.Len(t, stars, 2)

	reqs := mock.RequestsTo("/" + testProject + "/items/warrior")
	require.Len(t, reqs, 1)
	assert.Equal(t, "1", reqs[0].Query.Get("depth"))
	assert.Equal(t, "en", reqs[0].Query.Get("language"))
}

func TestPreviewMode_RoutesToPreviewHost(t *testing.T) {
	mock := testutil.NewMockKontent()
	defer mock.Close()
	mock.ServeSkipLimit("/preview/"+testProject+"/items", "items", articles(1), 10, nil)
	c := newTestDelivery(t, mock, func(cfg *Config) {
		cfg.UsePreviewMode = true
		cfg.Headers = map[string]string{"Authorization": "Bearer preview"}
	})

	all, err := c.Items().ListAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	reqs := mock.RequestsTo("/preview/" + testProject + "/items")
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer preview", reqs[0].Header.Get("Authorization"))
}
