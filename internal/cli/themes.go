package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdslides/internal/present"
)

func newThemesCmd() *cobra.Command {
	var filter string
	var limit int
	var output outputFlags
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List the themes the backend offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Themes.Load(cmd.Context()); err != nil {
				return err
			}
			opts, err := output.options(cmd, app)
			if err != nil {
				return err
			}
			list := app.Themes.Match(filter, limit)
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderThemes(w, list, opts)
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy filter on key and name")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of matches (0 = all)")
	addOutputFlags(cmd, &output)
	return cmd
}
