package delivery

import (
	"encoding/json"
	"time"
)

// Wire contracts of the Delivery API. They mirror the JSON exactly and are mapped
// into the exported models by the functions in mappers.go.

type paginationContract struct {
	Skip       int    `json:"skip"`
	Limit      int    `json:"limit"`
	Count      int    `json:"count"`
	TotalCount *int   `json:"total_count"`
	NextPage   string `json:"next_page"`
}

type itemSystemContract struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Codename         string    `json:"codename"`
	Language         string    `json:"language"`
	Type             string    `json:"type"`
	Collection       string    `json:"collection"`
	WorkflowStep     string    `json:"workflow_step"`
	SitemapLocations []string  `json:"sitemap_locations"`
	LastModified     time.Time `json:"last_modified"`
}

type imageContract struct {
	ImageID     string `json:"image_id"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type linkContract struct {
	Codename string `json:"codename"`
	Type     string `json:"type"`
	URLSlug  string `json:"url_slug"`
}

type elementContract struct {
	Type            string                   `json:"type"`
	Name            string                   `json:"name"`
	Value           json.RawMessage          `json:"value"`
	Images          map[string]imageContract `json:"images,omitempty"`
	Links           map[string]linkContract  `json:"links,omitempty"`
	ModularContent  []string                 `json:"modular_content,omitempty"`
	TaxonomyGroup   string                   `json:"taxonomy_group,omitempty"`
	DisplayTimezone string                   `json:"display_timezone,omitempty"`
}

type itemContract struct {
	System   itemSystemContract         `json:"system"`
	Elements map[string]elementContract `json:"elements"`
}

type itemsContract struct {
	Items          []itemContract          `json:"items"`
	ModularContent map[string]itemContract `json:"modular_content"`
	Pagination     paginationContract      `json:"pagination"`
}

type viewItemContract struct {
	Item           itemContract            `json:"item"`
	ModularContent map[string]itemContract `json:"modular_content"`
}

type feedContract struct {
	Items          []itemContract          `json:"items"`
	ModularContent map[string]itemContract `json:"modular_content"`
}

type typeSystemContract struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Codename     string    `json:"codename"`
	LastModified time.Time `json:"last_modified"`
}

type optionContract struct {
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

type typeElementContract struct {
	Type          string           `json:"type"`
	Name          string           `json:"name"`
	Codename      string           `json:"codename,omitempty"`
	Options       []optionContract `json:"options,omitempty"`
	TaxonomyGroup string           `json:"taxonomy_group,omitempty"`
}

type typeContract struct {
	System   typeSystemContract             `json:"system"`
	Elements map[string]typeElementContract `json:"elements"`
}

type typesContract struct {
	Types      []typeContract     `json:"types"`
	Pagination paginationContract `json:"pagination"`
}

type languageContract struct {
	System struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Codename string `json:"codename"`
	} `json:"system"`
}

type languagesContract struct {
	Languages  []languageContract `json:"languages"`
	Pagination paginationContract `json:"pagination"`
}

type termContract struct {
	Name     string         `json:"name"`
	Codename string         `json:"codename"`
	Terms    []termContract `json:"terms"`
}

type taxonomyContract struct {
	System typeSystemContract `json:"system"`
	Terms  []termContract     `json:"terms"`
}

type taxonomiesContract struct {
	Taxonomies []taxonomyContract `json:"taxonomies"`
	Pagination paginationContract `json:"pagination"`
}
