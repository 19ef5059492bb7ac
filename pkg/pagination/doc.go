// Package pagination provides sequential, exhaustive traversal of paged API listings.
//
// Two continuation strategies exist across the Delivery and Management APIs: list
// endpoints return a pagination object whose next_page holds the URL of the following page,
// while the items feed and the management listings hand back an opaque continuation token
// that has to be echoed in the X-Continuation header of the next request. ListAll does not
// care which one is in use: a page either carries a Continuation or it does not.
//
// Example usage:
//
//	all, err := pagination.ListAll[ItemsPage, ContentItem](ctx,
//		func(ctx context.Context, next pagination.Continuation) (ItemsPage, error) {
//			return fetchItemsPage(ctx, next)
//		},
//		pagination.DefaultAggregate[ItemsPage, ContentItem],
//		&pagination.Config[ItemsPage]{
//			Pages:                10,
//			DelayBetweenRequests: 200 * time.Millisecond,
//		},
//	)
//
// The engine:
//   - Fetches page 1 without any continuation
//   - Stops before fetching a page whose index exceeds Config.Pages (Pages = 1 means one fetch)
//   - Waits Config.DelayBetweenRequests between pages, never before the first or after the last
//   - Calls Config.ResponseFetched once per page, before the next page is requested
//   - Fails fast: the first fetch or observer error is returned as is and no aggregate is built
//
// Pages are never fetched concurrently.
package pagination
