package delivery

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const warriorJSON = `{
  "item": {
    "system": {
      "id": "325e2acb-1c14-47f6-af9a-27bc8b6c16fe",
      "name": "Warrior",
      "codename": "warrior",
      "language": "en",
      "type": "movie",
      "collection": "default",
      "workflow_step": "published",
      "sitemap_locations": ["main_sitemap"],
      "last_modified": "2026-02-10T14:44:02.3456Z"
    },
    "elements": {
      "title": {"type": "text", "name": "Title", "value": "Warrior"},
      "plot": {
        "type": "rich_text",
        "name": "Plot",
        "images": {"img1": {"image_id": "img1", "description": "poster", "url": "https://assets/img1.jpg", "width": 100, "height": 50}},
        "links": {"id-tom": {"codename": "tom_hardy", "type": "actor", "url_slug": "tom-hardy"}},
        "modular_content": ["tom_hardy"],
        "value": "<p>Two brothers.</p>"
      },
      "released": {"type": "date_time", "name": "Released", "value": "2011-09-09T00:00:00Z", "display_timezone": "Europe/Prague"},
      "length": {"type": "number", "name": "Length", "value": 140},
      "rating": {"type": "number", "name": "Rating", "value": null},
      "poster": {"type": "asset", "name": "Poster", "value": [{"name": "warrior.jpg", "type": "image/jpeg", "size": 12345, "description": null, "url": "https://assets/warrior.jpg", "width": 600, "height": 800}]},
      "category": {"type": "multiple_choice", "name": "Category", "value": [{"name": "Drama", "codename": "drama"}]},
      "releasecategory": {"type": "taxonomy", "name": "Release category", "taxonomy_group": "releasecategory", "value": [{"name": "US only", "codename": "us_only"}]},
      "stars": {"type": "modular_content", "name": "Stars", "value": ["tom_hardy", "joel_edgerton", "missing_actor"]},
      "seoname": {"type": "url_slug", "name": "SEO name", "value": "warrior"},
      "color": {"type": "custom", "name": "Color", "value": "#ff0000"}
    }
  },
  "modular_content": {
    "tom_hardy": {
      "system": {"id": "a1", "name": "Tom Hardy", "codename": "tom_hardy", "language": "en", "type": "actor", "last_modified": "2026-01-01T00:00:00Z"},
      "elements": {"first_name": {"type": "text", "name": "First name", "value": "Tom"}}
    },
    "joel_edgerton": {
      "system": {"id": "a2", "name": "Joel Edgerton", "codename": "joel_edgerton", "language": "en", "type": "actor", "last_modified": "2026-01-01T00:00:00Z"},
      "elements": {"first_name": {"type": "text", "name": "First name", "value": "Joel"}}
    }
  }
}`

func loadWarrior(t *testing.T) ItemResponse {
	t.Helper()
	var c viewItemContract
	require.NoError(t, json.Unmarshal([]byte(warriorJSON), &c))
	return mapItemResponse(c)
}

func TestMapItem_System(t *testing.T) {
	resp := loadWarrior(t)
	sys := resp.Item.System

	assert.Equal(t, "325e2acb-1c14-47f6-af9a-27bc8b6c16fe", sys.ID)
	assert.Equal(t, "warrior", sys.Codename)
	assert.Equal(t, "movie", sys.Type)
	assert.Equal(t, "default", sys.Collection)
	assert.Equal(t, "published", sys.WorkflowStep)
	assert.Equal(t, "en", sys.Language)
	assert.Equal(t, []string{"main_sitemap"}, sys.SitemapLocations)
	assert.Equal(t, 2026, sys.LastModified.Year())
}

func TestContentItem_TypedElements(t *testing.T) {
	item := loadWarrior(t).Item

	title, err := item.Text("title")
	require.NoError(t, err)
	assert.Equal(t, "Warrior", title)

	length, err := item.Number("length")
	require.NoError(t, err)
	require.NotNil(t, length)
	assert.Equal(t, 140.0, *length)

	rating, err := item.Number("rating")
	require.NoError(t, err)
	assert.Nil(t, rating)

	released, err := item.DateTime("released")
	require.NoError(t, err)
	require.NotNil(t, released)
	assert.True(t, released.Equal(time.Date(2011, 9, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Europe/Prague", item.Elements["released"].DisplayTimezone)

	assets, err := item.Assets("poster")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "https://assets/warrior.jpg", assets[0].URL)
	assert.Equal(t, int64(12345), assets[0].Size)

	options, err := item.MultipleChoice("category")
	require.NoError(t, err)
	assert.Equal(t, []Option{{Name: "Drama", Codename: "drama"}}, options)

	terms, err := item.Taxonomy("releasecategory")
	require.NoError(t, err)
	assert.Equal(t, "us_only", terms[0].Codename)
	assert.Equal(t, "releasecategory", item.Elements["releasecategory"].TaxonomyGroup)

	slug, err := item.URLSlug("seoname")
	require.NoError(t, err)
	assert.Equal(t, "warrior", slug)

	color, err := item.Custom("color")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", color)
}

func TestContentItem_RichText(t *testing.T) {
	item := loadWarrior(t).Item

	rt, err := item.RichText("plot")
	require.NoError(t, err)
	assert.Equal(t, "<p>Two brothers.</p>", rt.HTML)
	assert.Equal(t, []string{"tom_hardy"}, rt.LinkedItemCodenames)
	assert.Equal(t, "https://assets/img1.jpg", rt.Images["img1"].URL)
	assert.Equal(t, "tom-hardy", rt.Links["id-tom"].URLSlug)
}

func TestContentItem_LinkedItems(t *testing.T) {
	resp := loadWarrior(t)

	stars, err := resp.Item.LinkedItems("stars", resp.LinkedItems)
	require.NoError(t, err)
	require.Len(t, stars, 2, "codenames missing from modular_content are skipped")
	assert.Equal(t, "tom_hardy", stars[0].System.Codename)
	assert.Equal(t, "joel_edgerton", stars[1].System.Codename)

	firstName, err := stars[1].Text("first_name")
	require.NoError(t, err)
	assert.Equal(t, "Joel", firstName)
}

func TestContentItem_ElementErrors(t *testing.T) {
	item := loadWarrior(t).Item

	_, err := item.Text("missing")
	assert.ErrorIs(t, err, ErrElementNotFound)

	_, err = item.Number("title")
	assert.ErrorIs(t, err, ErrElementType)

	broken := ContentItem{Elements: map[string]Element{
		"n": {Codename: "n", Type: ElementNumber, Value: json.RawMessage(`"abc"`)},
	}}
	_, err = broken.Number("n")
	assert.Error(t, err)
}

func TestLinkedItems_Merge(t *testing.T) {
	a := LinkedItems{"x": {System: System{Name: "first"}}}
	a.merge(LinkedItems{"x": {System: System{Name: "second"}}, "y": {}})

	assert.Equal(t, "first", a["x"].System.Name)
	assert.Contains(t, a, "y")
}

func TestTaxonomy_Walk(t *testing.T) {
	tax := Taxonomy{Terms: []Term{
		{Codename: "a", Terms: []Term{{Codename: "a1"}, {Codename: "a2"}}},
		{Codename: "b"},
	}}

	var visited []string
	var depths []int
	tax.Walk(func(term Term, depth int) bool {
		visited = append(visited, term.Codename)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, visited)
	assert.Equal(t, []int{0, 1, 1, 0}, depths)

	visited = nil
	tax.Walk(func(term Term, depth int) bool {
		visited = append(visited, term.Codename)
		return term.Codename != "a1"
	})
	assert.Equal(t, []string{"a", "a1"}, visited)
}

func TestMapTypeElement_CodenameFallback(t *testing.T) {
	el := mapTypeElement("genre", typeElementContract{Type: "multiple_choice", Name: "Genre", Options: []optionContract{{Name: "Drama", Codename: "drama"}}})
	assert.Equal(t, "genre", el.Codename)
	assert.Len(t, el.Options, 1)

	el = mapTypeElement("", typeElementContract{Type: "taxonomy", Codename: "release", TaxonomyGroup: "releasecategory"})
	assert.Equal(t, "release", el.Codename)
	assert.Nil(t, el.Options)
}
