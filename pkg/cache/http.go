package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL is the fallback TTL when neither Cache-Control nor Expires is present.
	DefaultTTL = 5 * time.Minute
)

// Cacheable reports whether a response may be stored.
// Only 200 responses without no-store or private directives are cached.
func Cacheable(resp *http.Response) bool {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return false
	}
	directives := parseCacheControl(resp.Header.Get("Cache-Control"))
	if _, ok := directives["no-store"]; ok {
		return false
	}
	if _, ok := directives["private"]; ok {
		return false
	}
	return true
}

// ResponseToEntry converts an HTTP response to a CacheEntry.
// The response body is read and restored for the caller.
func ResponseToEntry(resp *http.Response) (*CacheEntry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &CacheEntry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   time.Now(),
		Expires:    ExpiresFromHeaders(resp.Header),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		entry.URL = resp.Request.URL.String()
	}

	if lastModStr := resp.Header.Get("Last-Modified"); lastModStr != "" {
		if lastMod, err := http.ParseTime(lastModStr); err == nil {
			entry.LastModified = lastMod
		}
	}

	return entry, nil
}

// ExpiresFromHeaders derives the expiration time from Cache-Control max-age,
// then Expires, then DefaultTTL.
func ExpiresFromHeaders(headers http.Header) time.Time {
	now := time.Now()

	directives := parseCacheControl(headers.Get("Cache-Control"))
	if v, ok := directives["max-age"]; ok {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			return now.Add(time.Duration(seconds) * time.Second)
		}
	}

	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return now.Add(DefaultTTL)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return now.Add(DefaultTTL)
	}

	if expires.Before(now) {
		return now
	}

	return expires
}

// parseCacheControl splits a Cache-Control header into lower-cased directives.
func parseCacheControl(value string) map[string]string {
	directives := make(map[string]string)
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, arg, _ := strings.Cut(part, "=")
		directives[strings.ToLower(strings.TrimSpace(name))] = strings.Trim(strings.TrimSpace(arg), `"`)
	}
	return directives
}

// ShouldMakeConditionalRequest determines if conditional request headers
// can be sent for the cache entry.
func ShouldMakeConditionalRequest(entry *CacheEntry) bool {
	if entry == nil {
		return false
	}
	return entry.ETag != "" || !entry.LastModified.IsZero()
}

// AddConditionalHeaders adds If-None-Match (ETag) or If-Modified-Since headers
// to the request. ETag is preferred.
func AddConditionalHeaders(req *http.Request, entry *CacheEntry) {
	if entry == nil || req == nil {
		return
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	} else if !entry.LastModified.IsZero() {
		req.Header.Set("If-Modified-Since", entry.LastModified.Format(http.TimeFormat))
	}
}
