package management

import "time"

// Reference points at another entity by ID, codename or external ID.
type Reference struct {
	ID         string `json:"id,omitempty"`
	Codename   string `json:"codename,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// Pagination is the paging block of management listings.
type Pagination struct {
	ContinuationToken string
	NextPage          string
}

// ContentItem is the language-neutral part of a content item.
type ContentItem struct {
	ID               string
	Name             string
	Codename         string
	Type             Reference
	Collection       Reference
	SitemapLocations []Reference
	ExternalID       string
	LastModified     time.Time
}

// Language is a project language.
type Language struct {
	ID               string
	Name             string
	Codename         string
	IsActive         bool
	IsDefault        bool
	FallbackLanguage *Reference
	ExternalID       string
}

// Taxonomy is a taxonomy group or term; groups nest terms recursively.
type Taxonomy struct {
	ID           string
	Name         string
	Codename     string
	ExternalID   string
	LastModified time.Time
	Terms        []Taxonomy
}

// WorkflowStep is a step of the project workflow.
type WorkflowStep struct {
	ID            string
	Name          string
	Codename      string
	TransitionsTo []Reference
}

// EmptyResponse is the body of calls answering 204 No Content.
type EmptyResponse struct{}
