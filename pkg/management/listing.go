package management

import (
	"context"
	"net/http"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// tokenLister is a listing body that also reports its continuation token.
type tokenLister[T any] interface {
	client.Lister[T]
	bodyToken() string
}

// listing fetches pages of one token-paged endpoint.
type listing[C any, T any, R tokenLister[T]] struct {
	client   *Client
	path     string
	endpoint string
	mapper   client.Mapper[C, R]
}

func (l listing[C, T, R]) fetch(ctx context.Context, next pagination.Continuation) (client.NetworkResponse[R], error) {
	req := l.client.request(http.MethodGet, l.path, l.endpoint, nil, next)
	resp, err := client.GetJSON(ctx, l.client.http, req, l.mapper)
	if err != nil {
		return resp, err
	}
	// The header is authoritative; older deployments only fill the body.
	if resp.ContinuationToken == "" {
		resp.ContinuationToken = resp.Data.bodyToken()
	}
	return resp, nil
}

func (l listing[C, T, R]) fetchPage(ctx context.Context, next pagination.Continuation) (client.ListResponse[T, R], error) {
	resp, err := l.fetch(ctx, next)
	if err != nil {
		return client.ListResponse[T, R]{}, err
	}

	l.client.logger.Debug().
		Str("endpoint", l.endpoint).
		Int("items", len(resp.Data.ListItems())).
		Bool("more", resp.ContinuationToken != "").
		Msg("Fetched management page")

	return client.AsList[T](resp), nil
}

func (l listing[C, T, R]) listAll(ctx context.Context, cfg *pagination.Config[client.ListResponse[T, R]]) (pagination.Aggregate[T, client.ListResponse[T, R]], error) {
	out := pagination.Config[client.ListResponse[T, R]]{}
	if cfg != nil {
		out = *cfg
	}
	if out.Label == "" {
		out.Label = l.endpoint
	}
	return pagination.ListAll[client.ListResponse[T, R], T](
		ctx, l.fetchPage, pagination.DefaultAggregate[client.ListResponse[T, R], T], &out)
}
