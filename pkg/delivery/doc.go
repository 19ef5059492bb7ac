// Package delivery is a read-only client for the Delivery API: content items, the
// items feed, content types and their elements, languages and taxonomies.
//
// Every query can fetch a single page with Fetch or walk the whole listing with
// ListAll, which runs on the pagination engine:
//
//	httpClient, _ := client.New(client.DefaultConfig("my-app/1.0"))
//	dc, _ := delivery.New(delivery.Config{ProjectID: projectID, Client: httpClient})
//
//	all, err := dc.Items().
//		Type("movie").
//		Limit(50).
//		ListAll(ctx, &pagination.Config[delivery.ItemsPage]{
//			DelayBetweenRequests: 200 * time.Millisecond,
//		})
//
// Items, types, languages and taxonomies follow the next_page URL of each response.
// The items feed follows the X-Continuation header instead.
//
// Authentication headers are not built here. Pass them through Config.Headers or
// QueryConfig.CustomHeaders.
package delivery
