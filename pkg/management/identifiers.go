package management

import "net/url"

// IdentifierKind selects how an Identifier addresses an entity.
type IdentifierKind uint8

const (
	KindID IdentifierKind = iota
	KindCodename
	KindExternalID
)

// Identifier addresses a content item, language or workflow step.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ByID addresses an entity by its internal ID.
func ByID(id string) Identifier {
	return Identifier{Kind: KindID, Value: id}
}

// ByCodename addresses an entity by codename.
func ByCodename(codename string) Identifier {
	return Identifier{Kind: KindCodename, Value: codename}
}

// ByExternalID addresses an entity by the external ID assigned on import.
func ByExternalID(externalID string) Identifier {
	return Identifier{Kind: KindExternalID, Value: externalID}
}

// segment renders the identifier as a path segment: "{id}", "codename/{c}" or
// "external-id/{e}".
func (i Identifier) segment() string {
	v := url.PathEscape(i.Value)
	switch i.Kind {
	case KindCodename:
		return "codename/" + v
	case KindExternalID:
		return "external-id/" + v
	default:
		return v
	}
}

func (i Identifier) String() string {
	return i.segment()
}
