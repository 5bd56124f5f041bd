package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdslides/internal/deck"
	"github.com/mithrel/mdslides/internal/editor"
	"github.com/mithrel/mdslides/internal/notify"
	"github.com/mithrel/mdslides/internal/orchestrator"
	"github.com/mithrel/mdslides/internal/present"
	"github.com/mithrel/mdslides/internal/wire"
)

var levelMarks = map[notify.Level]string{
	notify.LevelInfo:    "i",
	notify.LevelSuccess: "✓",
	notify.LevelError:   "✗",
}

// stderrNotifier prints notifications as one line each.
func stderrNotifier(w io.Writer, quiet bool) notify.Notifier {
	if quiet {
		return notify.Discard
	}
	return notify.Func(func(n notify.Notification) {
		_, _ = fmt.Fprintf(w, "%s %s\n", levelMarks[n.Level], n.Text)
	})
}

type sendFlags struct {
	file         string
	edit         bool
	out          string
	theme        string
	conversation string
	quiet        bool
	output       outputFlags
}

func newSendCmd() *cobra.Command {
	var f sendFlags
	cmd := &cobra.Command{
		Use:   "send [markdown...]",
		Short: "Send one message and print the reply",
		Long: "Send markdown to the backend once. The text comes from the arguments, --file, " +
			"piped stdin, or $EDITOR when none of those is given on a terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			text, err := readMarkdown(cmd, args, f.file, f.edit)
			if err != nil {
				return err
			}
			var opts []orchestrator.Option
			if f.conversation != "" {
				opts = append(opts, orchestrator.WithConversationID(f.conversation))
			}
			s := app.NewSession(stderrNotifier(cmd.ErrOrStderr(), f.quiet), opts...)
			return sendOnce(cmd, app, s, text, f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read markdown from a file ('-' for stdin)")
	cmd.Flags().BoolVarP(&f.edit, "edit", "e", false, "compose the markdown in $EDITOR")
	cmd.Flags().StringVar(&f.out, "out", "", "write the returned deck to this file")
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "re-render the deck with this theme")
	cmd.Flags().StringVar(&f.conversation, "conversation", "", "continue a backend conversation id")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress notifications on stderr")
	addOutputFlags(cmd, &f.output)
	registerThemeCompletion(cmd)
	return cmd
}

// sendOnce sends text, applies --theme and --out, and prints the reply.
func sendOnce(cmd *cobra.Command, app *wire.App, s *orchestrator.Session, text string, f sendFlags) error {
	ctx := cmd.Context()
	popts, err := f.output.options(cmd, app)
	if err != nil {
		return err
	}
	reply, err := s.Send(ctx, text)
	if err != nil {
		return err
	}

	if f.theme != "" && f.theme != s.SelectedTheme() {
		if err := app.Themes.Load(ctx); err != nil {
			app.Log.Warn().Err(err).Msg("theme catalog unavailable; theme key not checked")
		} else {
			s.ReconcileTheme()
		}
		ok, err := s.Regenerate(ctx, f.theme)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "reply carried no deck; --theme ignored")
		}
	}

	if err := present.RenderReply(cmd.OutOrStdout(), reply, popts); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "conversation: %s\n", s.ConversationID())

	if f.out == "" {
		return nil
	}
	html, ok := s.Deck()
	if !ok {
		return errors.New("reply carried no deck; nothing written")
	}
	path, err := deck.WriteFile(f.out, html)
	if err != nil {
		return err
	}
	info, _ := deck.Inspect(html)
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d slides to %s\n", info.Slides, path)
	return nil
}

// readMarkdown resolves the message text from args, a file, stdin or the editor.
func readMarkdown(cmd *cobra.Command, args []string, file string, edit bool) (string, error) {
	switch {
	case len(args) > 0 && file != "":
		return "", errors.New("pass markdown as arguments or --file, not both")
	case edit:
		return editor.Compose(strings.Join(args, " "))
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file == "-":
		return readAll(cmd.InOrStdin())
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return editor.Compose("")
	}
	return readAll(in)
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "read stdin")
	}
	return string(data), nil
}
