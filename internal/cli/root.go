package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/lspdecode/internal/adapters/progress"
	"github.com/trebuchet-org/lspdecode/internal/app"
	"github.com/trebuchet-org/lspdecode/internal/config"
	"github.com/trebuchet-org/lspdecode/internal/domain"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lspdecode",
		Short: "Decode LSP errors, events and calls from their selectors",
		Long: `lspdecode maps 4-byte error and function selectors and 32-byte event topics
back to their LUKSO Standard Proposal definitions, decodes the ABI encoded
arguments and renders the human readable notice of each entry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			v := config.SetupViper(config.FindProjectRoot())
			bindGlobalFlags(v, cmd)
			if !isTerminal(cmd.InOrStdin()) {
				v.Set("non_interactive", true)
			}

			sink := progress.NewSink(v.GetBool("json"), v.GetBool("non_interactive"))

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			appInstance.Log.Debug("configuration loaded",
				"project_root", appInstance.Config.ProjectRoot,
				"config_file", appInstance.Config.ConfigSource,
				"registry", appInstance.Config.RegistryPaths)

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// watch runs until interrupted
			if appInstance.Config.Timeout > 0 && cmd.Name() != "watch" {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringSlice("registry", nil, "Registry file(s) to load instead of the bundled LSP registry (JSON or YAML)")
	rootCmd.PersistentFlags().StringP("namespace", "s", "", "Namespace used to resolve selectors shared by several entries")
	rootCmd.PersistentFlags().String("contract", "", "Contract address mapped to a namespace through lspdecode.toml")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Int("workers", 0, "Concurrent decoders for batch input (defaults to the number of CPUs)")
	rootCmd.PersistentFlags().Bool("no-builtins", false, "Do not register Error(string) and Panic(uint256)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	decodeCmd := NewDecodeCmd()
	decodeCmd.GroupID = "main"
	rootCmd.AddCommand(decodeCmd)

	registryCmd := NewRegistryCmd()
	registryCmd.GroupID = "management"
	rootCmd.AddCommand(registryCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// bindGlobalFlags binds command flags that have been set to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "registry":
			paths, _ := cmd.Flags().GetStringSlice("registry")
			v.Set("registry", paths)
		case "no-builtins":
			disabled, _ := strconv.ParseBool(f.Value.String())
			v.Set("builtins", !disabled)
		case "namespace", "contract", "json", "debug", "non-interactive", "workers":
			v.Set(flagKey(f.Name), f.Value.String())
		}
	})
}

// isTerminal reports whether prompts can be read from r
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// flagKey maps a flag name to its viper key
func flagKey(name string) string {
	if name == "non-interactive" {
		return "non_interactive"
	}
	return name
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// configHint builds the resolution hint from --namespace and --contract
func configHint(a *app.App) domain.Hint {
	return domain.Hint{
		Namespace: a.Config.Namespace,
		Contract:  a.Config.Contract,
	}
}
