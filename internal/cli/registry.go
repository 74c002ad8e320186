package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/lspdecode/internal/cli/render"
	"github.com/trebuchet-org/lspdecode/internal/domain"
	"github.com/trebuchet-org/lspdecode/internal/usecase"
)

// NewRegistryCmd creates the registry command group
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect, search and verify the selector registry",
	}

	cmd.AddCommand(
		newRegistryListCmd(),
		newRegistrySearchCmd(),
		newRegistryVerifyCmd(),
		newRegistryWatchCmd(),
	)
	return cmd
}

func newRegistryListCmd() *cobra.Command {
	var (
		kind      string
		ambiguous bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registry entries",
		Example: `  # List every event
  lspdecode registry list --kind event

  # List the entries of one namespace
  lspdecode registry list --namespace LSP6KeyManager

  # Show colliding selectors
  lspdecode registry list --ambiguous`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}

			result, err := app.ListEntries.Run(cmd.Context(), usecase.ListEntriesParams{
				Kind:      k,
				Namespace: app.Config.Namespace,
				Ambiguous: ambiguous,
			})
			if err != nil {
				return err
			}
			return render.NewEntriesRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (error, event, function)")
	cmd.Flags().BoolVar(&ambiguous, "ambiguous", false, "Only list selectors shared by several signatures")

	return cmd
}

func newRegistrySearchCmd() *cobra.Command {
	var (
		kind  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search entries by name, signature, selector or namespace",
		Example: `  # Find permission errors
  lspdecode registry search notauth

  # Look up a selector prefix
  lspdecode registry search 0x4496`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}

			defs, err := app.SearchEntries.Run(cmd.Context(), usecase.SearchEntriesParams{
				Query: strings.Join(args, " "),
				Kind:  k,
				Limit: limit,
			})
			if err != nil {
				return err
			}
			return render.NewEntriesRenderer(cmd.OutOrStdout(), app.Config.JSON).RenderSearch(defs)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind (error, event, function)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches (0 for all)")

	return cmd
}

func newRegistryVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every selector matches the keccak256 of its signature",
		Long: `Recompute every selector from its signature, check that declared inputs and
outputs agree with the signature and that every notice placeholder names an
input. Selectors shared by several signatures are listed but are not errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.VerifyRegistry.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := render.NewVerifyRenderer(cmd.OutOrStdout(), app.Config.JSON).Render(result); err != nil {
				return err
			}
			if !result.OK() {
				return fmt.Errorf("registry verification failed with %d issues", len(result.Issues))
			}
			return nil
		},
	}
}

func newRegistryWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload and re-verify registry files whenever they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s\n", strings.Join(app.Config.RegistryPaths, ", "))

			return app.WatchRegistry.Run(ctx, func(ev usecase.ReloadEvent) {
				if ev.Err != nil {
					fmt.Fprintln(out, render.FormatWarning(fmt.Sprintf("reload failed, keeping previous registry: %v", ev.Err)))
					return
				}
				fmt.Fprintln(out, render.FormatSuccess(fmt.Sprintf("reloaded %d definitions across %d namespaces", ev.Definitions, ev.Namespaces)))

				result, err := app.VerifyRegistry.Run(ctx)
				if err != nil || result.OK() {
					return
				}
				_ = render.NewVerifyRenderer(out, false).Render(result)
			})
		},
	}
}

// parseKindFlag accepts the registry kind names plus the call/log aliases
func parseKindFlag(s string) (domain.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case "call":
		return domain.KindFunction, nil
	case "log":
		return domain.KindEvent, nil
	}
	return domain.ParseKind(s)
}
