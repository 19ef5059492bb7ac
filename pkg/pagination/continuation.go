package pagination

import "fmt"

// ContinuationKind identifies how the next page of a listing is addressed.
type ContinuationKind uint8

const (
	// KindNone means the listing is exhausted.
	KindNone ContinuationKind = iota

	// KindNextPageURL means the next page is fetched from an absolute URL
	// taken from the pagination descriptor.
	KindNextPageURL

	// KindToken means the next page is fetched by echoing an opaque token,
	// typically in the X-Continuation request header.
	KindToken
)

// String returns the kind name used in logs and metrics.
func (k ContinuationKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNextPageURL:
		return "next_page_url"
	case KindToken:
		return "continuation_token"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Continuation tells a Fetcher which page to request. The zero value requests the first page.
type Continuation struct {
	Kind  ContinuationKind
	Value string
}

// None returns the continuation of an exhausted listing.
func None() Continuation {
	return Continuation{}
}

// NextPageURL returns a URL-based continuation. An empty url yields None.
func NextPageURL(url string) Continuation {
	if url == "" {
		return None()
	}
	return Continuation{Kind: KindNextPageURL, Value: url}
}

// Token returns a token-based continuation. An empty token yields None.
func Token(token string) Continuation {
	if token == "" {
		return None()
	}
	return Continuation{Kind: KindToken, Value: token}
}

// Resolve builds a continuation from the two raw signals a response may carry.
// An API uses one strategy exclusively; if both are reported the URL wins.
func Resolve(nextPageURL, token string) Continuation {
	if nextPageURL != "" {
		return NextPageURL(nextPageURL)
	}
	return Token(token)
}

// HasNext reports whether another page exists.
func (c Continuation) HasNext() bool {
	return c.Kind != KindNone && c.Value != ""
}

// URL returns the next-page URL, or "" for any other kind.
func (c Continuation) URL() string {
	if c.Kind != KindNextPageURL {
		return ""
	}
	return c.Value
}

// Token returns the continuation token, or "" for any other kind.
func (c Continuation) Token() string {
	if c.Kind != KindToken {
		return ""
	}
	return c.Value
}

// String implements fmt.Stringer. Tokens are not printed in full.
func (c Continuation) String() string {
	switch c.Kind {
	case KindNextPageURL:
		return "url:" + c.Value
	case KindToken:
		if len(c.Value) > 8 {
			return "token:" + c.Value[:8] + "..."
		}
		return "token:" + c.Value
	default:
		return "none"
	}
}
