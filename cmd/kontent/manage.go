package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/terence1988/kontent-go/pkg/management"
)

// parseIdentifier reads "id:<id>", "codename:<codename>" or "external-id:<id>".
// A bare value is a codename.
func parseIdentifier(raw string) (management.Identifier, error) {
	kind, value, ok := strings.Cut(raw, ":")
	if !ok {
		return management.ByCodename(raw), nil
	}
	if value == "" {
		return management.Identifier{}, fmt.Errorf("empty identifier in %q", raw)
	}
	switch kind {
	case "id":
		return management.ByID(value), nil
	case "codename":
		return management.ByCodename(value), nil
	case "external-id", "ext":
		return management.ByExternalID(value), nil
	default:
		return management.Identifier{}, fmt.Errorf("unknown identifier kind %q (want id, codename or external-id)", kind)
	}
}

func parseIdentifiers(raw ...string) ([]management.Identifier, error) {
	out := make([]management.Identifier, 0, len(raw))
	for _, r := range raw {
		id, err := parseIdentifier(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func newManageCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "manage",
		Aliases: []string{"mapi"},
		Short:   "Content Management API commands",
		Long: `Commands against the Content Management API. Pass the management key as a header:

  kontent manage items -H "Authorization: Bearer $KONTENT_MANAGEMENT_KEY"

Identifiers are codenames unless prefixed with id: or external-id:.`,
	}

	cmd.AddCommand(newManageItemsCommand(app))
	cmd.AddCommand(newManageLanguagesCommand(app))
	cmd.AddCommand(newManagePublishCommand(app))
	cmd.AddCommand(newManageVariantCommand(app, "unpublish", "Unpublish a language variant", (*management.Client).UnpublishLanguageVariant))
	cmd.AddCommand(newManageVariantCommand(app, "new-version", "Create a new version of a published language variant", (*management.Client).CreateNewVersion))
	cmd.AddCommand(newManageWorkflowCommand(app))
	cmd.AddCommand(newManageDeleteCommand(app))
	return cmd
}

func newManageItemsCommand(app *app) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List content items",
		Long:  "List content items. With --all every page is fetched by continuation token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				q := rt.management.ListContentItems()
				var items []management.ContentItem
				pages := 1
				if list.all {
					all, err := q.ListAll(ctx, listConfig[management.ContentItemsPage, management.ContentItem](rt, list, "management_items"))
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

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{item.ID, item.Codename, item.Name, item.Type.ID, formatTime(item.LastModified)})
				}
				if err := render(cmd.OutOrStdout(), rt.settings.Output, items, []string{"ID", "Codename", "Name", "Type", "Last modified"}, rows); err != nil {
					return err
				}
				summary(cmd.OutOrStdout(), rt.settings.Output, pages, len(items))
				return nil
			})
		},
	}

	list.register(cmd, false)
	return cmd
}

func newManageLanguagesCommand(app *app) *cobra.Command {
	var list listFlags

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages with their settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				all, err := rt.management.ListLanguages().ListAll(ctx,
					listConfig[management.LanguagesPage, management.Language](rt, list, "management_languages"))
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(all.Items))
				for _, l := range all.Items {
					rows = append(rows, []string{l.Codename, l.Name, fmt.Sprintf("%t", l.IsActive), fmt.Sprintf("%t", l.IsDefault)})
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, all.Items, []string{"Codename", "Name", "Active", "Default"}, rows)
			})
		},
	}

	list.register(cmd, true)
	return cmd
}

func newManagePublishCommand(app *app) *cobra.Command {
	var scheduledTo string

	cmd := &cobra.Command{
		Use:   "publish ITEM LANGUAGE",
		Short: "Publish a language variant",
		Long:  "Publish a language variant now, or at --scheduled-to (RFC 3339).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIdentifiers(args...)
			if err != nil {
				return err
			}
			var at *time.Time
			if scheduledTo != "" {
				t, err := time.Parse(time.RFC3339, scheduledTo)
				if err != nil {
					return fmt.Errorf("invalid --scheduled-to: %w", err)
				}
				at = &t
			}

			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				if _, err := rt.management.PublishLanguageVariant(ctx, ids[0], ids[1], at); err != nil {
					return fmt.Errorf("failed to publish %s/%s: %w", args[0], args[1], err)
				}
				if at != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s) scheduled for %s\n", args[0], args[1], at.Format(time.RFC3339))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s) published\n", args[0], args[1])
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scheduledTo, "scheduled-to", "", "publish at this time instead of now")
	return cmd
}

type variantAction func(c *management.Client, ctx context.Context, item, language management.Identifier) (management.VariantResponse, error)

func newManageVariantCommand(app *app, use, short string, action variantAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ITEM LANGUAGE",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIdentifiers(args...)
			if err != nil {
				return err
			}
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				if _, err := action(rt.management, ctx, ids[0], ids[1]); err != nil {
					return fmt.Errorf("%s %s/%s: %w", use, args[0], args[1], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s): %s done\n", args[0], args[1], use)
				return nil
			})
		},
	}
}

func newManageWorkflowCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow [ITEM LANGUAGE STEP]",
		Short: "List workflow steps or move a language variant to a step",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("accepts 0 or 3 args, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIdentifiers(args...)
			if err != nil {
				return err
			}
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				if len(ids) == 3 {
					if _, err := rt.management.ChangeWorkflowStep(ctx, ids[0], ids[1], ids[2]); err != nil {
						return fmt.Errorf("change workflow step of %s/%s: %w", args[0], args[1], err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%s) moved to %s\n", args[0], args[1], args[2])
					return nil
				}

				resp, err := rt.management.ListWorkflowSteps(ctx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(resp.Data))
				for _, step := range resp.Data {
					next := make([]string, 0, len(step.TransitionsTo))
					for _, t := range step.TransitionsTo {
						next = append(next, t.ID)
					}
					rows = append(rows, []string{step.Codename, step.Name, step.ID, strings.Join(next, ", ")})
				}
				return render(cmd.OutOrStdout(), rt.settings.Output, resp.Data, []string{"Codename", "Name", "ID", "Transitions to"}, rows)
			})
		},
	}
	return cmd
}

func newManageDeleteCommand(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ITEM",
		Short: "Delete a content item with all its variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIdentifier(args[0])
			if err != nil {
				return err
			}
			return app.run(cmd, func(ctx context.Context, rt *runtime) error {
				if _, err := rt.management.DeleteContentItem(ctx, id); err != nil {
					return fmt.Errorf("failed to delete %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s deleted\n", args[0])
				return nil
			})
		},
	}
}
