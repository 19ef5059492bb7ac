package delivery

// Pure contract to model conversions. None of them perform I/O.

func mapPagination(c paginationContract) Pagination {
	return Pagination{
		Skip:       c.Skip,
		Limit:      c.Limit,
		Count:      c.Count,
		TotalCount: c.TotalCount,
		NextPage:   c.NextPage,
	}
}

func mapItem(c itemContract) ContentItem {
	item := ContentItem{
		System: System{
			ID:               c.System.ID,
			Name:             c.System.Name,
			Codename:         c.System.Codename,
			Language:         c.System.Language,
			Type:             c.System.Type,
			Collection:       c.System.Collection,
			WorkflowStep:     c.System.WorkflowStep,
			SitemapLocations: c.System.SitemapLocations,
			LastModified:     c.System.LastModified,
		},
		Elements: make(map[string]Element, len(c.Elements)),
	}

	for codename, el := range c.Elements {
		mapped := Element{
			Codename:            codename,
			Type:                el.Type,
			Name:                el.Name,
			Value:               el.Value,
			LinkedItemCodenames: el.ModularContent,
			TaxonomyGroup:       el.TaxonomyGroup,
			DisplayTimezone:     el.DisplayTimezone,
		}
		if len(el.Images) > 0 {
			mapped.Images = make(map[string]Image, len(el.Images))
			for id, img := range el.Images {
				mapped.Images[id] = Image(img)
			}
		}
		if len(el.Links) > 0 {
			mapped.Links = make(map[string]Link, len(el.Links))
			for id, link := range el.Links {
				mapped.Links[id] = Link(link)
			}
		}
		item.Elements[codename] = mapped
	}

	return item
}

func mapItemList(cs []itemContract) []ContentItem {
	items := make([]ContentItem, 0, len(cs))
	for _, c := range cs {
		items = append(items, mapItem(c))
	}
	return items
}

func mapLinkedItems(cs map[string]itemContract) LinkedItems {
	linked := make(LinkedItems, len(cs))
	for codename, c := range cs {
		linked[codename] = mapItem(c)
	}
	return linked
}

func mapItemsResponse(c itemsContract) ItemsResponse {
	return ItemsResponse{
		Items:       mapItemList(c.Items),
		LinkedItems: mapLinkedItems(c.ModularContent),
		Pagination:  mapPagination(c.Pagination),
	}
}

func mapItemResponse(c viewItemContract) ItemResponse {
	return ItemResponse{
		Item:        mapItem(c.Item),
		LinkedItems: mapLinkedItems(c.ModularContent),
	}
}

func mapFeedResponse(c feedContract) FeedResponse {
	return FeedResponse{
		Items:       mapItemList(c.Items),
		LinkedItems: mapLinkedItems(c.ModularContent),
	}
}

func mapOptions(cs []optionContract) []Option {
	if len(cs) == 0 {
		return nil
	}
	out := make([]Option, 0, len(cs))
	for _, c := range cs {
		out = append(out, Option(c))
	}
	return out
}

func mapTypeElement(codename string, c typeElementContract) ContentTypeElement {
	if c.Codename != "" {
		codename = c.Codename
	}
	return ContentTypeElement{
		Codename:      codename,
		Type:          c.Type,
		Name:          c.Name,
		Options:       mapOptions(c.Options),
		TaxonomyGroup: c.TaxonomyGroup,
	}
}

func mapType(c typeContract) ContentType {
	t := ContentType{
		ID:           c.System.ID,
		Name:         c.System.Name,
		Codename:     c.System.Codename,
		LastModified: c.System.LastModified,
		Elements:     make(map[string]ContentTypeElement, len(c.Elements)),
	}
	for codename, el := range c.Elements {
		t.Elements[codename] = mapTypeElement(codename, el)
	}
	return t
}

func mapTypesResponse(c typesContract) TypesResponse {
	types := make([]ContentType, 0, len(c.Types))
	for _, t := range c.Types {
		types = append(types, mapType(t))
	}
	return TypesResponse{Types: types, Pagination: mapPagination(c.Pagination)}
}

func mapTypeResponse(c typeContract) TypeResponse {
	return TypeResponse{Type: mapType(c)}
}

func mapElementResponse(c typeElementContract) ElementResponse {
	return ElementResponse{Element: mapTypeElement("", c)}
}

func mapLanguagesResponse(c languagesContract) LanguagesResponse {
	languages := make([]Language, 0, len(c.Languages))
	for _, l := range c.Languages {
		languages = append(languages, Language{
			ID:       l.System.ID,
			Name:     l.System.Name,
			Codename: l.System.Codename,
		})
	}
	return LanguagesResponse{Languages: languages, Pagination: mapPagination(c.Pagination)}
}

func mapTerms(cs []termContract) []Term {
	if len(cs) == 0 {
		return nil
	}
	out := make([]Term, 0, len(cs))
	for _, c := range cs {
		out = append(out, Term{Name: c.Name, Codename: c.Codename, Terms: mapTerms(c.Terms)})
	}
	return out
}

func mapTaxonomy(c taxonomyContract) Taxonomy {
	return Taxonomy{
		ID:           c.System.ID,
		Name:         c.System.Name,
		Codename:     c.System.Codename,
		LastModified: c.System.LastModified,
		Terms:        mapTerms(c.Terms),
	}
}

func mapTaxonomiesResponse(c taxonomiesContract) TaxonomiesResponse {
	taxonomies := make([]Taxonomy, 0, len(c.Taxonomies))
	for _, t := range c.Taxonomies {
		taxonomies = append(taxonomies, mapTaxonomy(t))
	}
	return TaxonomiesResponse{Taxonomies: taxonomies, Pagination: mapPagination(c.Pagination)}
}

func mapTaxonomyResponse(c taxonomyContract) TaxonomyResponse {
	return TaxonomyResponse{Taxonomy: mapTaxonomy(c)}
}
