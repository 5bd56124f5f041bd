package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/mdslides/internal/present"
)

func newStatusCmd() *cobra.Command {
	var output outputFlags
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the backend reports about itself",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			st, err := app.Gateway.FetchStatus(cmd.Context())
			if err != nil {
				return err
			}
			opts, err := output.options(cmd, app)
			if err != nil {
				return err
			}
			return present.RenderStatus(cmd.OutOrStdout(), st, opts)
		},
	}
	addOutputFlags(cmd, &output)
	return cmd
}
