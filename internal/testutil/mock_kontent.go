// Package testutil provides a mock Kontent server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request received by the mock.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// MockKontent is a configurable mock of the Delivery and Management APIs.
type MockKontent struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest

	conditionalCount int
}

// NewMockKontent starts a mock server. Unknown paths answer 404 with an API error body.
func NewMockKontent() *MockKontent {
	mock := &MockKontent{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}
		writeError(w, http.StatusNotFound, "The requested resource was not found.")
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockKontent) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockKontent) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockKontent) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.conditionalCount = 0
}

// SetHandler sets a custom handler for a specific path.
func (m *MockKontent) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockKontent) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// Requests returns a copy of the recorded requests.
func (m *MockKontent) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestsTo returns the recorded requests for path.
func (m *MockKontent) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range m.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockKontent) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockKontent) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// ServeSkipLimit serves a skip/limit listing at path. The list is exposed under key
// (items, types, languages, taxonomies) and next_page links point back at the mock.
func (m *MockKontent) ServeSkipLimit(path, key string, entries []string, defaultLimit int, extra map[string]string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		skip, _ := strconv.Atoi(q.Get("skip"))
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit <= 0 {
			limit = defaultLimit
		}

		end := skip + limit
		if end > len(entries) {
			end = len(entries)
		}
		page := []string{}
		if skip < len(entries) {
			page = entries[skip:end]
		}

		nextPage := ""
		if end < len(entries) {
			q.Set("skip", strconv.Itoa(end))
			q.Set("limit", strconv.Itoa(limit))
			nextPage = m.server.URL + path + "?" + q.Encode()
		}

		var b strings.Builder
		fmt.Fprintf(&b, `{%q:[%s]`, key, strings.Join(page, ","))
		for k, v := range extra {
			fmt.Fprintf(&b, `,%q:%s`, k, v)
		}
		totalCount := ""
		if q.Get("includeTotalCount") == "true" {
			totalCount = fmt.Sprintf(`,"total_count":%d`, len(entries))
		}
		fmt.Fprintf(&b, `,"pagination":{"skip":%d,"limit":%d,"count":%d%s,"next_page":%q}}`,
			skip, limit, len(page), totalCount, nextPage)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(b.String()))
	})
}

// ServeFeed serves pages at path, paging by X-Continuation header. Tokens are
// "<prefix>-<n>" for page n (1-based, page 0 has no token).
func (m *MockKontent) ServeFeed(path, prefix string, pages [][]string, extra map[string]string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		index, ok := pageFromToken(r.Header.Get("X-Continuation"), prefix, len(pages))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid continuation token.")
			return
		}

		if index+1 < len(pages) {
			w.Header().Set("X-Continuation", fmt.Sprintf("%s-%d", prefix, index+1))
		}

		var b strings.Builder
		fmt.Fprintf(&b, `{"items":[%s]`, strings.Join(pages[index], ","))
		for k, v := range extra {
			fmt.Fprintf(&b, `,%q:%s`, k, v)
		}
		b.WriteString("}")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(b.String()))
	})
}

// ServeTokenList serves a Management API listing: the continuation token is echoed in
// both pagination.continuation_token and the X-Continuation header.
func (m *MockKontent) ServeTokenList(path, key, prefix string, pages [][]string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		index, ok := pageFromToken(r.Header.Get("X-Continuation"), prefix, len(pages))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid continuation token.")
			return
		}

		token := "null"
		nextPage := "null"
		if index+1 < len(pages) {
			next := fmt.Sprintf("%s-%d", prefix, index+1)
			w.Header().Set("X-Continuation", next)
			token = strconv.Quote(next)
			nextPage = strconv.Quote(m.server.URL + path + "?continuationToken=" + url.QueryEscape(next))
		}

		body := fmt.Sprintf(`{%q:[%s],"pagination":{"continuation_token":%s,"next_page":%s}}`,
			key, strings.Join(pages[index], ","), token, nextPage)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func pageFromToken(token, prefix string, pages int) (int, bool) {
	if token == "" {
		return 0, pages > 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(token, prefix+"-"))
	if err != nil || !strings.HasPrefix(token, prefix+"-") || n <= 0 || n >= pages {
		return 0, false
	}
	return n, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"message":       message,
		"request_id":    "mock-request",
		"error_code":    100,
		"specific_code": 0,
	})
}

// ItemJSON returns a minimal Delivery content item with a text element "title".
func ItemJSON(codename, contentType, title string) string {
	return fmt.Sprintf(`{"system":{"id":"%s-id","name":%q,"codename":%q,"language":"en-US","type":%q,`+
		`"collection":"default","workflow_step":"published","sitemap_locations":[],"last_modified":"2026-01-15T10:00:00Z"},`+
		`"elements":{"title":{"type":"text","name":"Title","value":%q}}}`,
		codename, title, codename, contentType, title)
}

// ManagementItemJSON returns a minimal Management API content item.
func ManagementItemJSON(id, codename, name string) string {
	return fmt.Sprintf(`{"id":%q,"name":%q,"codename":%q,"type":{"id":"type-1"},"collection":{"id":"00000000-0000-0000-0000-000000000000"},`+
		`"sitemap_locations":[],"external_id":"ext-%s","last_modified":"2026-01-15T10:00:00Z"}`,
		id, name, codename, codename)
}

// NewJSONResponse creates a 200 response with caching headers.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":          `"test-etag-123"`,
			"Cache-Control": "max-age=60",
			"Content-Type":  "application/json; charset=utf-8",
		},
	}
}

// NewErrorResponse creates an API error response.
func NewErrorResponse(status int, message string) MockResponse {
	body, _ := json.Marshal(map[string]any{
		"message":    message,
		"request_id": "mock-request",
		"error_code": 100,
	})
	return MockResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
