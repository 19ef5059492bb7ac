package delivery

import (
	"encoding/json"
	"time"
)

// Element types reported by the Delivery API.
const (
	ElementText           = "text"
	ElementRichText       = "rich_text"
	ElementNumber         = "number"
	ElementDateTime       = "date_time"
	ElementAsset          = "asset"
	ElementMultipleChoice = "multiple_choice"
	ElementTaxonomy       = "taxonomy"
	ElementLinkedItems    = "modular_content"
	ElementURLSlug        = "url_slug"
	ElementCustom         = "custom"
)

// System holds the metadata of a content item.
type System struct {
	ID               string
	Name             string
	Codename         string
	Language         string
	Type             string
	Collection       string
	WorkflowStep     string
	SitemapLocations []string
	LastModified     time.Time
}

// Element is one element of a content item. Use the typed accessors on ContentItem
// to read its value.
type Element struct {
	Codename string
	Type     string
	Name     string

	// Value is the raw JSON value; its shape depends on Type.
	Value json.RawMessage

	// Rich text only.
	Images              map[string]Image
	Links               map[string]Link
	LinkedItemCodenames []string

	// Taxonomy only.
	TaxonomyGroup string

	// Date and time only.
	DisplayTimezone string
}

// Image is an inline image of a rich text element.
type Image struct {
	ImageID     string
	Description string
	URL         string
	Width       int
	Height      int
}

// Link is an item link of a rich text element, keyed by item ID.
type Link struct {
	Codename string
	Type     string
	URLSlug  string
}

// Asset is one asset of an asset element.
type Asset struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Option is a multiple choice option.
type Option struct {
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// TaxonomyTerm is a term assigned to a taxonomy element.
type TaxonomyTerm struct {
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// RichText is the value of a rich text element.
type RichText struct {
	HTML                string
	Images              map[string]Image
	Links               map[string]Link
	LinkedItemCodenames []string
}

// ContentItem is a delivered content item.
type ContentItem struct {
	System   System
	Elements map[string]Element
}

// LinkedItems are the items delivered in modular_content, keyed by codename.
type LinkedItems map[string]ContentItem

// Resolve returns the linked items for codenames in order, skipping unknown ones.
// Items beyond the requested depth are not delivered and are skipped too.
func (l LinkedItems) Resolve(codenames []string) []ContentItem {
	out := make([]ContentItem, 0, len(codenames))
	for _, codename := range codenames {
		if item, ok := l[codename]; ok {
			out = append(out, item)
		}
	}
	return out
}

// merge copies other into l, keeping existing entries.
func (l LinkedItems) merge(other LinkedItems) {
	for codename, item := range other {
		if _, ok := l[codename]; !ok {
			l[codename] = item
		}
	}
}

// Pagination is the paging block of skip/limit listings.
type Pagination struct {
	Skip  int
	Limit int
	Count int

	// TotalCount is set only when the query asked for includeTotalCount.
	TotalCount *int
	NextPage   string
}

// ContentType describes a content type.
type ContentType struct {
	ID           string
	Name         string
	Codename     string
	LastModified time.Time
	Elements     map[string]ContentTypeElement
}

// ContentTypeElement is an element definition of a content type.
type ContentTypeElement struct {
	Codename      string
	Type          string
	Name          string
	Options       []Option
	TaxonomyGroup string
}

// Language is a project language.
type Language struct {
	ID       string
	Name     string
	Codename string
}

// Taxonomy is a taxonomy group with its term tree.
type Taxonomy struct {
	ID           string
	Name         string
	Codename     string
	LastModified time.Time
	Terms        []Term
}

// Term is a node of a taxonomy tree.
type Term struct {
	Name     string
	Codename string
	Terms    []Term
}

// Walk visits every term depth first. Returning false stops the walk.
func (t Taxonomy) Walk(fn func(term Term, depth int) bool) {
	var walk func(terms []Term, depth int) bool
	walk = func(terms []Term, depth int) bool {
		for _, term := range terms {
			if !fn(term, depth) {
				return false
			}
			if !walk(term.Terms, depth+1) {
				return false
			}
		}
		return true
	}
	walk(t.Terms, 0)
}
