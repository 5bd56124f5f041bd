package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mithrel/mdslides/internal/deck"
	"github.com/mithrel/mdslides/internal/present"
	"github.com/mithrel/mdslides/pkg/api"
)

func newGenerateCmd() *cobra.Command {
	var theme, out string
	var output outputFlags
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Render a markdown file to a deck without chatting",
		Long:  "Render markdown from a file (or stdin) with one theme. --out - prints the HTML.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			file := "-"
			if len(args) == 1 {
				file = args[0]
			}
			md, err := readMarkdown(cmd, nil, file, false)
			if err != nil {
				return err
			}
			if theme == "" {
				theme = app.Cfg.GetString("theme.default")
			}
			if err := app.Themes.Load(ctx); err == nil {
				if _, ok := app.Themes.Get(theme); !ok {
					return errors.Errorf("unknown theme %q (have: %v)", theme, app.Themes.Keys())
				}
			}
			resp, err := app.Gateway.GenerateSlides(ctx, api.GenerateRequest{Markdown: md, Theme: theme})
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), resp.HTML)
				return err
			}
			if out == "" {
				out = app.Cfg.GetString("export.path")
			}
			path, err := deck.WriteFile(out, resp.HTML)
			if err != nil {
				return err
			}
			info, err := deck.Inspect(resp.HTML)
			if err != nil {
				return err
			}
			if info.Theme == "" {
				info.Theme = resp.ThemeUsed
			}
			opts, err := output.options(cmd, app)
			if err != nil {
				return err
			}
			return present.RenderDeck(cmd.OutOrStdout(), info, path, opts)
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "theme key (default theme.default)")
	cmd.Flags().StringVar(&out, "out", "", "output file, '-' for stdout (default export.path)")
	addOutputFlags(cmd, &output)
	registerThemeCompletion(cmd)
	return cmd
}
