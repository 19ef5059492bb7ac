package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the configuration shared by all commands of one root.
type app struct {
	v *viper.Viper
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "kontent",
		Short: "Kontent.ai Delivery and Management API CLI",
		Long: `A command-line interface for the Kontent.ai Delivery and Content Management APIs.

Listings can be walked page by page (--all, --pages, --delay); every fetched page is
logged and, with --nats-url, published as an event.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfig(a.v)
		},
	}

	bindPersistentFlags(root, a.v)

	root.AddCommand(newVersionCommand())
	root.AddCommand(newItemsCommand(a))
	root.AddCommand(newItemCommand(a))
	root.AddCommand(newFeedCommand(a))
	root.AddCommand(newTypesCommand(a))
	root.AddCommand(newElementCommand(a))
	root.AddCommand(newLanguagesCommand(a))
	root.AddCommand(newTaxonomiesCommand(a))
	root.AddCommand(newManageCommand(a))
	return root
}

// run resolves settings, builds the runtime and calls fn with a context that is
// cancelled on SIGINT or SIGTERM.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error {
	s, err := loadSettings(a.v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, s, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close()

	return fn(ctx, rt)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kontent %s (%s)\n", version, commit)
		},
	}
}
