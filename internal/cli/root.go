package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/mdslides/internal/config"
	"github.com/mithrel/mdslides/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute builds the root command and runs it until ctx is cancelled.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// rootFlags maps persistent flag names onto config keys.
var rootFlags = map[string]string{
	"api-url":    "api_url",
	"log-level":  "log.level",
	"log-format": "log.format",
	"timeout":    "http.timeout",
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "mdslides-cli",
		Short:         "mdslides: chat markdown into HTML slide decks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, rootFlags)
			app, err := wire.BuildAppWithLog(cmd.Context(), v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := lookupApp(cmd); ok {
				return app.Close()
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (toml)")
	pf.String("api-url", "", "backend base URL (overrides api_url)")
	pf.String("log-level", "", "log level: trace|debug|info|warn|error")
	pf.String("log-format", "", "log format: console|json")
	pf.String("timeout", "", "backend request timeout, e.g. 30s")

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newSendCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newThemesCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func lookupApp(cmd *cobra.Command) (*wire.App, bool) {
	if cmd.Context() == nil {
		return nil, false
	}
	app, ok := cmd.Context().Value(appKey).(*wire.App)
	return app, ok
}

func getApp(cmd *cobra.Command) *wire.App {
	app, ok := lookupApp(cmd)
	if !ok {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return app
}
