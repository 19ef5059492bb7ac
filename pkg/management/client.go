// Package management is a client for the Content Management API.
//
// The API authenticates with a management key. Pass it through client.Config.Headers
// (Authorization: Bearer <key>); this package never builds credentials.
//
// Listings page with continuation tokens only: the token of the previous page is echoed
// in the X-Continuation request header.
//
//	mc, _ := management.New(management.Config{ProjectID: id, Client: httpClient})
//	all, err := mc.ListContentItems().ListAll(ctx, nil)
//	_, err = mc.PublishLanguageVariant(ctx, management.ByCodename("on_roasts"), management.ByCodename("en-US"), nil)
package management

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/logging"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// DefaultBaseURL is the Content Management API v2 host.
const DefaultBaseURL = "https://manage.kontent.ai/v2"

var validate = validator.New()

// Config configures a management client.
type Config struct {
	ProjectID string `validate:"required"`

	// BaseURL overrides DefaultBaseURL.
	BaseURL string `validate:"omitempty,url"`

	Client *client.Client `validate:"required"`
}

// Client performs Content Management API calls.
type Client struct {
	config Config
	http   *client.Client
	logger zerolog.Logger
}

// New creates a management client.
func New(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: management: %v", client.ErrInvalidConfig, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		config: cfg,
		http:   cfg.Client,
		logger: logging.NewLogger("management"),
	}, nil
}

// url returns the absolute URL of a project-scoped path.
func (c *Client) url(path string) string {
	return c.config.BaseURL + "/projects/" + c.config.ProjectID + path
}

func (c *Client) request(method, path, endpoint string, body any, next pagination.Continuation) *client.Request {
	req := &client.Request{
		Method:   method,
		URL:      c.url(path),
		Headers:  map[string]string{},
		Body:     body,
		Endpoint: endpoint,
		NoCache:  method != http.MethodGet,
	}
	if token := next.Token(); token != "" {
		req.Headers[client.HeaderContinuation] = token
		req.CacheVariant = token
	}
	return req
}
