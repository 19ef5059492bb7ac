package management

import "time"

type referenceContract struct {
	ID         string `json:"id,omitempty"`
	Codename   string `json:"codename,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

type paginationContract struct {
	ContinuationToken string `json:"continuation_token"`
	NextPage          string `json:"next_page"`
}

type contentItemContract struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Codename         string              `json:"codename"`
	Type             referenceContract   `json:"type"`
	Collection       referenceContract   `json:"collection"`
	SitemapLocations []referenceContract `json:"sitemap_locations"`
	ExternalID       string              `json:"external_id"`
	LastModified     time.Time           `json:"last_modified"`
}

type contentItemsContract struct {
	Items      []contentItemContract `json:"items"`
	Pagination paginationContract    `json:"pagination"`
}

type languageContract struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Codename         string             `json:"codename"`
	IsActive         bool               `json:"is_active"`
	IsDefault        bool               `json:"is_default"`
	FallbackLanguage *referenceContract `json:"fallback_language"`
	ExternalID       string             `json:"external_id"`
}

type languagesContract struct {
	Languages  []languageContract `json:"languages"`
	Pagination paginationContract `json:"pagination"`
}

type taxonomyContract struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Codename     string             `json:"codename"`
	ExternalID   string             `json:"external_id"`
	LastModified time.Time          `json:"last_modified"`
	Terms        []taxonomyContract `json:"terms"`
}

type taxonomiesContract struct {
	Taxonomies []taxonomyContract `json:"taxonomies"`
	Pagination paginationContract `json:"pagination"`
}

type workflowStepContract struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Codename      string `json:"codename"`
	TransitionsTo []struct {
		Step referenceContract `json:"step"`
	} `json:"transitions_to"`
}

type publishContract struct {
	ScheduledTo *time.Time `json:"scheduled_to,omitempty"`
}

type emptyContract struct{}
