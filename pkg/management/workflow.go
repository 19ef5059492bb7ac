package management

import (
	"context"
	"net/http"
	"time"

	"github.com/terence1988/kontent-go/pkg/client"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// ListWorkflowSteps returns the steps of the project workflow. The endpoint is not paged.
func (c *Client) ListWorkflowSteps(ctx context.Context) (client.NetworkResponse[[]WorkflowStep], error) {
	req := c.request(http.MethodGet, "/workflow", "management_workflow", nil, pagination.None())
	return client.GetJSON(ctx, c.http, req, mapWorkflowSteps)
}

// VariantResponse is the answer of a language variant action; it has no body.
type VariantResponse = client.NetworkResponse[EmptyResponse]

func variantPath(item, language Identifier) string {
	return itemPath(item) + "/variants/" + language.segment()
}

// variantAction PUTs to a language variant action endpoint and expects no body back.
func (c *Client) variantAction(ctx context.Context, path, endpoint string, body any) (VariantResponse, error) {
	req := c.request(http.MethodPut, path, endpoint, body, pagination.None())
	resp, err := client.SendJSON(ctx, c.http, req, mapEmpty)
	if err != nil {
		return resp, err
	}
	c.logger.Info().
		Str("endpoint", endpoint).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("Language variant updated")
	return resp, nil
}

// PublishLanguageVariant publishes a language variant now, or at scheduledTo when set.
func (c *Client) PublishLanguageVariant(ctx context.Context, item, language Identifier, scheduledTo *time.Time) (VariantResponse, error) {
	var body any
	if scheduledTo != nil {
		body = publishContract{ScheduledTo: scheduledTo}
	}
	return c.variantAction(ctx, variantPath(item, language)+"/publish", "management_variant_publish", body)
}

// UnpublishLanguageVariant takes a published language variant offline.
func (c *Client) UnpublishLanguageVariant(ctx context.Context, item, language Identifier) (VariantResponse, error) {
	return c.variantAction(ctx, variantPath(item, language)+"/unpublish", "management_variant_unpublish", nil)
}

// CreateNewVersion creates a draft of a published language variant.
func (c *Client) CreateNewVersion(ctx context.Context, item, language Identifier) (VariantResponse, error) {
	return c.variantAction(ctx, variantPath(item, language)+"/new-version", "management_variant_new_version", nil)
}

// ChangeWorkflowStep moves a language variant to step.
func (c *Client) ChangeWorkflowStep(ctx context.Context, item, language, step Identifier) (VariantResponse, error) {
	return c.variantAction(ctx, variantPath(item, language)+"/workflow/"+step.segment(), "management_variant_workflow", nil)
}
