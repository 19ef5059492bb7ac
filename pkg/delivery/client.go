package delivery

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/logging"
)

const (
	// DefaultBaseURL is the production Delivery API host.
	DefaultBaseURL = "https://deliver.kontent.ai"

	// DefaultPreviewBaseURL serves unpublished content.
	DefaultPreviewBaseURL = "https://preview-deliver.kontent.ai"

	// HeaderWaitForLoadingNewContent asks the CDN to fetch fresh content instead of
	// serving a stale copy.
	HeaderWaitForLoadingNewContent = "X-KC-Wait-For-Loading-New-Content"

	// HeaderSDKID identifies the client library to the API.
	HeaderSDKID = "X-KC-SDKID"

	// SDKID is sent in HeaderSDKID.
	SDKID = "github.com;terence1988/kontent-go;1.0.0"
)

var validate = validator.New()

// Config configures a Delivery client.
type Config struct {
	ProjectID string `validate:"required"`

	// BaseURL overrides DefaultBaseURL.
	BaseURL string `validate:"omitempty,url"`

	// PreviewBaseURL overrides DefaultPreviewBaseURL.
	PreviewBaseURL string `validate:"omitempty,url"`

	// UsePreviewMode sends every query to the preview host unless the query overrides it.
	UsePreviewMode bool

	// WaitForLoadingNewContent is the default for every query.
	WaitForLoadingNewContent bool

	// DefaultLanguage is applied to queries that do not set a language.
	DefaultLanguage string

	// Headers are sent with every query, e.g. the preview API key.
	Headers map[string]string

	Client *client.Client `validate:"required"`
}

// Client builds Delivery API queries.
type Client struct {
	config Config
	http   *client.Client
	logger zerolog.Logger
}

// New creates a Delivery client.
func New(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: delivery: %v", client.ErrInvalidConfig, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PreviewBaseURL == "" {
		cfg.PreviewBaseURL = DefaultPreviewBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.PreviewBaseURL = strings.TrimRight(cfg.PreviewBaseURL, "/")

	return &Client{
		config: cfg,
		http:   cfg.Client,
		logger: logging.NewLogger("delivery"),
	}, nil
}

// Items lists content items.
func (c *Client) Items() *ItemsQuery {
	return &ItemsQuery{baseQuery: c.newQuery()}
}

// Item fetches one content item by codename.
func (c *Client) Item(codename string) *ItemQuery {
	return &ItemQuery{baseQuery: c.newQuery(), codename: codename}
}

// ItemsFeed enumerates all content items through the continuation-token feed.
func (c *Client) ItemsFeed() *FeedQuery {
	return &FeedQuery{baseQuery: c.newQuery()}
}

// Types lists content types.
func (c *Client) Types() *TypesQuery {
	return &TypesQuery{baseQuery: c.newQuery()}
}

// Type fetches one content type by codename.
func (c *Client) Type(codename string) *TypeQuery {
	return &TypeQuery{baseQuery: c.newQuery(), codename: codename}
}

// Element fetches one element definition of a content type.
func (c *Client) Element(typeCodename, elementCodename string) *ElementQuery {
	return &ElementQuery{baseQuery: c.newQuery(), typeCodename: typeCodename, elementCodename: elementCodename}
}

// Languages lists project languages.
func (c *Client) Languages() *LanguagesQuery {
	return &LanguagesQuery{baseQuery: c.newQuery()}
}

// Taxonomies lists taxonomy groups.
func (c *Client) Taxonomies() *TaxonomiesQuery {
	return &TaxonomiesQuery{baseQuery: c.newQuery()}
}

// Taxonomy fetches one taxonomy group by codename.
func (c *Client) Taxonomy(codename string) *TaxonomyQuery {
	return &TaxonomyQuery{baseQuery: c.newQuery(), codename: codename}
}
