package delivery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// QueryConfig overrides client defaults for a single query.
type QueryConfig struct {
	// UsePreviewMode overrides Config.UsePreviewMode when set.
	UsePreviewMode *bool

	WaitForLoadingNewContent bool

	CustomHeaders map[string]string
}

// Filter is one query string filter, e.g. elements.genre[contains]=drama.
type Filter struct {
	Key   string
	Value string
}

// Equals matches element or system property values exactly.
func Equals(property, value string) Filter {
	return Filter{Key: property, Value: value}
}

// NotEquals excludes a value.
func NotEquals(property, value string) Filter {
	return Filter{Key: property + "[neq]", Value: value}
}

// In matches any of values.
func In(property string, values ...string) Filter {
	return Filter{Key: property + "[in]", Value: strings.Join(values, ",")}
}

// NotIn excludes all of values.
func NotIn(property string, values ...string) Filter {
	return Filter{Key: property + "[nin]", Value: strings.Join(values, ",")}
}

// Contains matches array elements containing value.
func Contains(property, value string) Filter {
	return Filter{Key: property + "[contains]", Value: value}
}

// Any matches array elements containing at least one of values.
func Any(property string, values ...string) Filter {
	return Filter{Key: property + "[any]", Value: strings.Join(values, ",")}
}

// All matches array elements containing every value.
func All(property string, values ...string) Filter {
	return Filter{Key: property + "[all]", Value: strings.Join(values, ",")}
}

// LessThan, GreaterThan and Range compare numbers and dates.
func LessThan(property, value string) Filter {
	return Filter{Key: property + "[lt]", Value: value}
}

func GreaterThan(property, value string) Filter {
	return Filter{Key: property + "[gt]", Value: value}
}

func Range(property, lower, upper string) Filter {
	return Filter{Key: property + "[range]", Value: lower + "," + upper}
}

// Empty matches elements without a value.
func Empty(property string) Filter {
	return Filter{Key: property + "[empty]"}
}

// NotEmpty matches elements with a value.
func NotEmpty(property string) Filter {
	return Filter{Key: property + "[nempty]"}
}

// baseQuery holds what every Delivery query shares.
type baseQuery struct {
	client *Client
	params url.Values
	config QueryConfig
}

func (c *Client) newQuery() baseQuery {
	return baseQuery{client: c, params: url.Values{}}
}

func (q *baseQuery) set(key, value string) {
	q.params.Set(key, value)
}

func (q *baseQuery) where(filters []Filter) {
	for _, f := range filters {
		q.params.Add(f.Key, f.Value)
	}
}

func (q *baseQuery) usePreview() bool {
	if q.config.UsePreviewMode != nil {
		return *q.config.UsePreviewMode
	}
	return q.client.config.UsePreviewMode
}

func (q *baseQuery) applyDefaultLanguage() {
	if q.client.config.DefaultLanguage != "" && q.params.Get("language") == "" {
		q.params.Set("language", q.client.config.DefaultLanguage)
	}
}

// url builds the absolute URL of path with the current parameters.
func (q *baseQuery) url(path string) string {
	base := q.client.config.BaseURL
	if q.usePreview() {
		base = q.client.config.PreviewBaseURL
	}

	u := base + "/" + url.PathEscape(q.client.config.ProjectID) + path
	if encoded := q.params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// request builds the transport request for one page. A next-page URL replaces the
// query URL; a token travels in the X-Continuation header.
func (q *baseQuery) request(path, endpoint string, next pagination.Continuation) *client.Request {
	headers := map[string]string{HeaderSDKID: SDKID}
	for k, v := range q.client.config.Headers {
		headers[k] = v
	}

	wait := q.client.config.WaitForLoadingNewContent || q.config.WaitForLoadingNewContent
	if wait {
		headers[HeaderWaitForLoadingNewContent] = "true"
	}
	for k, v := range q.config.CustomHeaders {
		headers[k] = v
	}

	target := q.url(path)
	if next.Kind == pagination.KindNextPageURL {
		target = next.URL()
	}

	req := &client.Request{
		URL:      target,
		Headers:  headers,
		Endpoint: endpoint,
		NoCache:  wait,
	}
	if next.Kind == pagination.KindToken {
		req.Headers[client.HeaderContinuation] = next.Token()
		req.CacheVariant = next.Token()
	}
	return req
}

// withLabel returns cfg with a default label, leaving the caller's config untouched.
func withLabel[P any](cfg *pagination.Config[P], label string) *pagination.Config[P] {
	out := pagination.Config[P]{}
	if cfg != nil {
		out = *cfg
	}
	if out.Label == "" {
		out.Label = label
	}
	return &out
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
