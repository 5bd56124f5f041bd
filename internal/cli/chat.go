package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/mdslides/internal/orchestrator"
	"github.com/mithrel/mdslides/internal/present/tui"
)

func newChatCmd() *cobra.Command {
	var conversation string
	var exportPath string
	var noWelcome bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Long:  "Paste markdown, get slides back, switch themes and export the deck.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var opts []orchestrator.Option
			if app.Cfg.GetBool("ui.welcome") && !noWelcome {
				opts = append(opts, orchestrator.WithWelcome(orchestrator.WelcomeText))
			}
			if conversation != "" {
				opts = append(opts, orchestrator.WithConversationID(conversation))
			}
			if exportPath == "" {
				exportPath = app.Cfg.GetString("export.path")
			}
			return tui.Run(cmd.Context(), tui.Deps{
				Session:    app.NewSession(app.Bus, opts...),
				Catalog:    app.Themes,
				Backend:    app.Gateway,
				Bus:        app.Bus,
				Renderer:   app.Renderer,
				ExportPath: exportPath,
				Log:        app.Log,
			})
		},
	}
	cmd.Flags().StringVar(&conversation, "conversation", "", "resume a backend conversation id")
	cmd.Flags().StringVar(&exportPath, "export", "", "file the deck is exported to (default export.path)")
	cmd.Flags().BoolVar(&noWelcome, "no-welcome", false, "start without the assistant greeting")
	return cmd
}
