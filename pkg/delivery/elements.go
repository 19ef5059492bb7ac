package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrElementNotFound is returned when an item has no element with the codename.
	ErrElementNotFound = errors.New("element not found")

	// ErrElementType is returned when an element has a different type than requested.
	ErrElementType = errors.New("unexpected element type")
)

// element looks up codename and checks its type.
func (i ContentItem) element(codename, elementType string) (Element, error) {
	el, ok := i.Elements[codename]
	if !ok {
		return Element{}, fmt.Errorf("%w: %s.%s", ErrElementNotFound, i.System.Codename, codename)
	}
	if el.Type != elementType {
		return Element{}, fmt.Errorf("%w: %s is %s, not %s", ErrElementType, codename, el.Type, elementType)
	}
	return el, nil
}

func decodeValue[V any](el Element) (V, error) {
	var v V
	if len(el.Value) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(el.Value, &v); err != nil {
		return v, fmt.Errorf("decode %s element %s: %w", el.Type, el.Codename, err)
	}
	return v, nil
}

func typedValue[V any](i ContentItem, codename, elementType string) (V, error) {
	el, err := i.element(codename, elementType)
	if err != nil {
		var zero V
		return zero, err
	}
	return decodeValue[V](el)
}

// Text returns the value of a text element.
func (i ContentItem) Text(codename string) (string, error) {
	return typedValue[string](i, codename, ElementText)
}

// URLSlug returns the value of a URL slug element.
func (i ContentItem) URLSlug(codename string) (string, error) {
	return typedValue[string](i, codename, ElementURLSlug)
}

// Custom returns the raw string value of a custom element.
func (i ContentItem) Custom(codename string) (string, error) {
	return typedValue[string](i, codename, ElementCustom)
}

// Number returns the value of a number element; nil when empty.
func (i ContentItem) Number(codename string) (*float64, error) {
	return typedValue[*float64](i, codename, ElementNumber)
}

// DateTime returns the value of a date and time element; nil when empty.
func (i ContentItem) DateTime(codename string) (*time.Time, error) {
	return typedValue[*time.Time](i, codename, ElementDateTime)
}

// Assets returns the assets of an asset element.
func (i ContentItem) Assets(codename string) ([]Asset, error) {
	return typedValue[[]Asset](i, codename, ElementAsset)
}

// MultipleChoice returns the selected options of a multiple choice element.
func (i ContentItem) MultipleChoice(codename string) ([]Option, error) {
	return typedValue[[]Option](i, codename, ElementMultipleChoice)
}

// Taxonomy returns the terms of a taxonomy element.
func (i ContentItem) Taxonomy(codename string) ([]TaxonomyTerm, error) {
	return typedValue[[]TaxonomyTerm](i, codename, ElementTaxonomy)
}

// LinkedItemCodenames returns the codenames of a linked items element.
func (i ContentItem) LinkedItemCodenames(codename string) ([]string, error) {
	return typedValue[[]string](i, codename, ElementLinkedItems)
}

// LinkedItems resolves a linked items element against the delivered linked items.
func (i ContentItem) LinkedItems(codename string, linked LinkedItems) ([]ContentItem, error) {
	codenames, err := i.LinkedItemCodenames(codename)
	if err != nil {
		return nil, err
	}
	return linked.Resolve(codenames), nil
}

// RichText returns the HTML and the inline references of a rich text element.
func (i ContentItem) RichText(codename string) (RichText, error) {
	el, err := i.element(codename, ElementRichText)
	if err != nil {
		return RichText{}, err
	}
	html, err := decodeValue[string](el)
	if err != nil {
		return RichText{}, err
	}
	return RichText{
		HTML:                html,
		Images:              el.Images,
		Links:               el.Links,
		LinkedItemCodenames: el.LinkedItemCodenames,
	}, nil
}
