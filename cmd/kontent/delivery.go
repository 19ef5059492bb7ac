package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/terence1988/kontent-go/pkg/delivery"
	"github.com/terence1988/kontent-go/pkg/pagination"
)

// itemSummary is the printed form of a content item.
type itemSummary struct {
	Codename     string    `json:"codename" yaml:"codename"`
	Name         string    `json:"name" yaml:"name"`
	Type         string    `json:"type" yaml:"type"`
	Language     string    `json:"language" yaml:"language"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
}

func summarizeItems(items []delivery.ContentItem) ([]itemSummary, [][]string) {
	out := make([]itemSummary, 0, len(items))
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		s := itemSummary{
			Codename:     item.System.Codename,
			Name:         item.System.Name,
			Type:         item.System.Type,
			Language:     item.System.Language,
			LastModified: item.System.LastModified,
		}
		out = append(out, s)
		rows = append(rows, []string{s.Codename, s.Name, s.Type, s.Language, formatTime(s.LastModified)})
	}
	return out, rows
}

var itemHeader = []string{"Codename", "Name", "Type", "Language", "Last modified"}

// listFlags are shared by every command that can walk a whole listing.
type listFlags struct {
	all   bool
	pages int
	delay time.Duration
}

func (f *listFlags) register(cmd *cobra.Command, allByDefault bool) {
	if !allByDefault {
		cmd.Flags().BoolVar(&f.all, "all", false, "fetch every page")
	}
	cmd.Flags().IntVar(&f.pages, "pages", 0, "stop after this many pages, implies --all (0 = no limit)")
	cmd.Flags().DurationVar(&f.delay, "delay", 0, "wait between page requests, implies --all")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		return f.resolve(cmd.Flags().Changed("pages") || cmd.Flags().Changed("delay"))
	}
}

// resolve checks the flag values once parsed. A page limit or delay only applies to a
// full walk, so setting either turns one on.
func (f *listFlags) resolve(walkRequested bool) error {
	if f.pages < 0 {
		return fmt.Errorf("--pages must not be negative, got %d", f.pages)
	}
	if f.delay < 0 {
		return fmt.Errorf("--delay must not be negative, got %s", f.delay)
	}
	if walkRequested {
		f.all = true
	}
	return nil
}

func listConfig[P pagination.Page[T], T any](rt *runtime, f listFlags, listing string) *pagination.Config[P] {
	return &pagination.Config[P]{
		Pages:                f.pages,
		DelayBetweenRequests: f.delay,
		ResponseFetched:      observer[P, T](rt, listing),
		Label:                listing,
	}
}

func newItemsCommand(app *app) *cobra.Command {
	var (
		list     listFlags
		types    []string
		limit    int
		depth    int
		language string
		order    string
	)

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List content items",
		Long:  "List content items of the Delivery API. With --all every page is fetched by following next_page links.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.delivery.Items()
				if len(types) > 0 {
					q.Type(types...)
				}
				if limit > 0 {
					q.Limit(limit)
				}
				if cmd.Flags().Changed("depth") {
					q.Depth(depth)
				}
				if language != "" {
					q.Language(language)
				}
				if order != "" {
					q.OrderBy(order, true)
				}

				var items []delivery.ContentItem
				pages := 1
				if list.all {
					all, err := q.ListAll(ctx, listConfig[delivery.ItemsPage, delivery.ContentItem](rt, list, "delivery_items"))
					if err != nil {
						return err
					}
					items, pages = all.Items, len(all.Pages)
				} else {
					resp, err := q.Fetch(ctx)
					if err != nil {
						return err
					}
					items = resp.Data.Items
				}

				data, rows := summarizeItems(items)
				if err := render(cmd.OutOrStdout(), rt.settings.Output, data, itemHeader, rows); err != nil {
					return err
				}
				summary(cmd.OutOrStdout(), rt.settings.Output, pages, len(items))
				return nil
			})
		},
	}

	list.register(cmd, false)
	cmd.Flags().StringSliceVar(&types, "type", nil, "content type codename (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&depth, "depth", 1, "linked items depth")
	cmd.Flags().StringVar(&language, "language", "", "language codename")
	cmd.Flags().StringVar(&order, "order", "", "ascending order property, e.g. elements.title")
	return cmd
}

func newItemCommand(app *app) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "item CODENAME",
		Short: "Show a content item",
		Long:  "Display the elements of one content item.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.delivery.Item(args[0])
				if language != "" {
					q.Language(language)
				}
				resp, err := q.Fetch(ctx)
				if err != nil {
					return err
				}

				item := resp.Data.Item
				type element struct {
					Codename string `json:"codename" yaml:"codename"`
					Type     string `json:"type" yaml:"type"`
					Value    string `json:"value" yaml:"value"`
				}
				elements := make([]element, 0, len(item.Elements))
				rows := make([][]string, 0, len(item.Elements))
				for _, codename := range sortedKeys(item.Elements) {
					el := item.Elements[codename]
					elements = append(elements, element{Codename: codename, Type: el.Type, Value: string(el.Value)})
					rows = append(rows, []string{codename, el.Type, truncate(string(el.Value), 60)})
				}

				data := map[string]any{
					"codename":     item.System.Codename,
					"name":         item.System.Name,
					"type":         item.System.Type,
					"language":     item.System.Language,
					"linked_items": len(resp.Data.LinkedItems),
					"elements":     elements,
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, data, []string{"Element", "Type", "Value"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "language codename")
	return cmd
}

func newFeedCommand(app *app) *cobra.Command {
	var (
		list  listFlags
		types []string
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Enumerate all content items",
		Long:  "Walk the items feed, which pages by X-Continuation token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.delivery.ItemsFeed()
				if len(types) > 0 {
					q.Type(types...)
				}
				all, err := q.ListAll(ctx, listConfig[delivery.FeedPage, delivery.ContentItem](rt, list, "delivery_items_feed"))
				if err != nil {
					return err
				}

				data, rows := summarizeItems(all.Items)
				if err := render(cmd.OutOrStdout(), rt.settings.Output, data, itemHeader, rows); err != nil {
					return err
				}
				summary(cmd.OutOrStdout(), rt.settings.Output, len(all.Pages), len(all.Items))
				return nil
			})
		},
	}

	list.register(cmd, true)
	cmd.Flags().StringSliceVar(&types, "type", nil, "content type codename (repeatable)")
	return cmd
}

func newTypesCommand(app *app) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.delivery.Types()
				var types []delivery.ContentType
				if list.all {
					all, err := q.ListAll(ctx, listConfig[delivery.TypesPage, delivery.ContentType](rt, list, "delivery_types"))
					if err != nil {
						return err
					}
					types = all.Types
				} else {
					resp, err := q.Fetch(ctx)
					if err != nil {
						return err
					}
					types = resp.Data.Types
				}

				type typeSummary struct {
					Codename string `json:"codename" yaml:"codename"`
					Name     string `json:"name" yaml:"name"`
					Elements int    `json:"elements" yaml:"elements"`
				}
				data := make([]typeSummary, 0, len(types))
				rows := make([][]string, 0, len(types))
				for _, t := range types {
					data = append(data, typeSummary{Codename: t.Codename, Name: t.Name, Elements: len(t.Elements)})
					rows = append(rows, []string{t.Codename, t.Name, itoa(len(t.Elements))})
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, data, []string{"Codename", "Name", "Elements"}, rows)
			})
		},
	}

	list.register(cmd, false)
	return cmd
}

func newElementCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "element TYPE ELEMENT",
		Short: "Show a content type element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				resp, err := rt.delivery.Element(args[0], args[1]).Fetch(ctx)
				if err != nil {
					return err
				}
				el := resp.Data.Element

				rows := [][]string{
					{"Codename", el.Codename},
					{"Name", el.Name},
					{"Type", el.Type},
				}
				if el.TaxonomyGroup != "" {
					rows = append(rows, []string{"Taxonomy group", el.TaxonomyGroup})
				}
				for _, o := range el.Options {
					rows = append(rows, []string{"Option", o.Codename + " (" + o.Name + ")"})
				}

				data := map[string]any{
					"codename":       el.Codename,
					"name":           el.Name,
					"type":           el.Type,
					"taxonomy_group": el.TaxonomyGroup,
					"options":        el.Options,
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, data, []string{"Property", "Value"}, rows)
			})
		},
	}
}

func newLanguagesCommand(app *app) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List project languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.delivery.Languages()
				var languages []delivery.Language
				if list.all {
					all, err := q.ListAll(ctx, listConfig[delivery.LanguagesPage, delivery.Language](rt, list, "delivery_languages"))
					if err != nil {
						return err
					}
					languages = all.Languages
				} else {
					resp, err := q.Fetch(ctx)
					if err != nil {
						return err
					}
					languages = resp.Data.Languages
				}

				rows := make([][]string, 0, len(languages))
				for _, l := range languages {
					rows = append(rows, []string{l.Codename, l.Name, l.ID})
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, languages, []string{"Codename", "Name", "ID"}, rows)
			})
		},
	}

	list.register(cmd, false)
	return cmd
}

func newTaxonomiesCommand(app *app) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "taxonomies",
		Short: "List taxonomy groups with their terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.delivery.Taxonomies()
				var taxonomies []delivery.Taxonomy
				if list.all {
					all, err := q.ListAll(ctx, listConfig[delivery.TaxonomiesPage, delivery.Taxonomy](rt, list, "delivery_taxonomies"))
					if err != nil {
						return err
					}
					taxonomies = all.Taxonomies
				} else {
					resp, err := q.Fetch(ctx)
					if err != nil {
						return err
					}
					taxonomies = resp.Data.Taxonomies
				}

				var rows [][]string
				for _, tax := range taxonomies {
					rows = append(rows, []string{tax.Codename, tax.Name})
					tax.Walk(func(term delivery.Term, depth int) bool {
						rows = append(rows, []string{indent(depth+1) + term.Codename, term.Name})
						return true
					})
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, taxonomies, []string{"Codename", "Name"}, rows)
			})
		},
	}

	list.register(cmd, false)
	return cmd
}
