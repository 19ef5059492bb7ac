package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/terence1988/kontent-go/pkg/pagination"
)

// NetworkResponse is a mapped response body plus the transport details callers
// need for debugging and paging.
type NetworkResponse[R any] struct {
	Data              R
	StatusCode        int
	Headers           http.Header
	URL               string
	ContinuationToken string
	FromCache         bool
}

// Status returns the HTTP status code of the response.
func (r NetworkResponse[R]) Status() int {
	return r.StatusCode
}

// Lister is a mapped listing response.
type Lister[T any] interface {
	ListItems() []T

	// NextPageURL is empty when the listing has no further page or pages by token.
	NextPageURL() string
}

// ListResponse is one page of a listing. It implements pagination.Page.
type ListResponse[T any, R Lister[T]] struct {
	NetworkResponse[R]
}

// PageItems returns the items of this page.
func (r ListResponse[T, R]) PageItems() []T {
	return r.Data.ListItems()
}

// Continuation prefers the body's next page URL over the X-Continuation header.
func (r ListResponse[T, R]) Continuation() pagination.Continuation {
	return pagination.Resolve(r.Data.NextPageURL(), r.ContinuationToken)
}

// AsList wraps a listing response as a page.
func AsList[T any, R Lister[T]](resp NetworkResponse[R]) ListResponse[T, R] {
	return ListResponse[T, R]{NetworkResponse: resp}
}

// Mapper converts a wire contract into a model.
type Mapper[C, R any] func(C) R

// GetJSON performs a GET, decodes the body into C and maps it.
func GetJSON[C, R any](ctx context.Context, c *Client, req *Request, mapper Mapper[C, R]) (NetworkResponse[R], error) {
	req.Method = http.MethodGet
	return SendJSON(ctx, c, req, mapper)
}

// SendJSON performs req, decodes the body into C and maps it. An empty body maps the zero C.
func SendJSON[C, R any](ctx context.Context, c *Client, req *Request, mapper Mapper[C, R]) (NetworkResponse[R], error) {
	var out NetworkResponse[R]

	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}

	var contract C
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &contract); err != nil {
			return out, fmt.Errorf("decode %s response: %w", resp.URL, err)
		}
	}

	out.Data = mapper(contract)
	out.StatusCode = resp.StatusCode
	out.Headers = resp.Header
	out.URL = resp.URL
	out.ContinuationToken = resp.ContinuationToken()
	out.FromCache = resp.FromCache
	return out, nil
}
