package management

func mapReference(c referenceContract) Reference {
	return Reference(c)
}

func mapPagination(c paginationContract) Pagination {
	return Pagination(c)
}

func mapContentItem(c contentItemContract) ContentItem {
	item := ContentItem{
		ID:           c.ID,
		Name:         c.Name,
		Codename:     c.Codename,
		Type:         mapReference(c.Type),
		Collection:   mapReference(c.Collection),
		ExternalID:   c.ExternalID,
		LastModified: c.LastModified,
	}
	if len(c.SitemapLocations) > 0 {
		item.SitemapLocations = make([]Reference, 0, len(c.SitemapLocations))
		for _, loc := range c.SitemapLocations {
			item.SitemapLocations = append(item.SitemapLocations, mapReference(loc))
		}
	}
	return item
}

func mapContentItemsResponse(c contentItemsContract) ContentItemsResponse {
	items := make([]ContentItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, mapContentItem(item))
	}
	return ContentItemsResponse{Items: items, Pagination: mapPagination(c.Pagination)}
}

func mapLanguage(c languageContract) Language {
	lang := Language{
		ID:         c.ID,
		Name:       c.Name,
		Codename:   c.Codename,
		IsActive:   c.IsActive,
		IsDefault:  c.IsDefault,
		ExternalID: c.ExternalID,
	}
	if c.FallbackLanguage != nil {
		ref := mapReference(*c.FallbackLanguage)
		lang.FallbackLanguage = &ref
	}
	return lang
}

func mapLanguagesResponse(c languagesContract) LanguagesResponse {
	languages := make([]Language, 0, len(c.Languages))
	for _, l := range c.Languages {
		languages = append(languages, mapLanguage(l))
	}
	return LanguagesResponse{Languages: languages, Pagination: mapPagination(c.Pagination)}
}

func mapTaxonomy(c taxonomyContract) Taxonomy {
	t := Taxonomy{
		ID:           c.ID,
		Name:         c.Name,
		Codename:     c.Codename,
		ExternalID:   c.ExternalID,
		LastModified: c.LastModified,
	}
	for _, term := range c.Terms {
		t.Terms = append(t.Terms, mapTaxonomy(term))
	}
	return t
}

func mapTaxonomiesResponse(c taxonomiesContract) TaxonomiesResponse {
	taxonomies := make([]Taxonomy, 0, len(c.Taxonomies))
	for _, t := range c.Taxonomies {
		taxonomies = append(taxonomies, mapTaxonomy(t))
	}
	return TaxonomiesResponse{Taxonomies: taxonomies, Pagination: mapPagination(c.Pagination)}
}

func mapWorkflowSteps(cs []workflowStepContract) []WorkflowStep {
	steps := make([]WorkflowStep, 0, len(cs))
	for _, c := range cs {
		step := WorkflowStep{ID: c.ID, Name: c.Name, Codename: c.Codename}
		for _, tr := range c.TransitionsTo {
			step.TransitionsTo = append(step.TransitionsTo, mapReference(tr.Step))
		}
		steps = append(steps, step)
	}
	return steps
}

func mapEmpty(emptyContract) EmptyResponse {
	return EmptyResponse{}
}
