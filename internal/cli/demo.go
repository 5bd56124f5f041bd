package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var f sendFlags
	var send bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print the backend's demo markdown, or send it with --send",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			s := app.NewSession(stderrNotifier(cmd.ErrOrStderr(), f.quiet || !send))
			md, err := s.LoadDemo(cmd.Context(), app.Gateway)
			if err != nil {
				return err
			}
			if !send {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(md, "\n"))
				return err
			}
			return sendOnce(cmd, app, s, md, f)
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "send the demo markdown and print the reply")
	cmd.Flags().StringVar(&f.out, "out", "", "with --send, write the returned deck to this file")
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "with --send, re-render the deck with this theme")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress notifications on stderr")
	addOutputFlags(cmd, &f.output)
	registerThemeCompletion(cmd)
	return cmd
}
