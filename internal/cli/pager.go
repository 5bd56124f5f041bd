package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdslides/internal/present"
	"github.com/mithrel/mdslides/internal/wire"
)

const defaultPager = "less -FRSX"

// withPager pipes long output through $PAGER when stdout is a terminal.
func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(outFile.Fd())) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}

// outputFlags are shared by every command that prints results.
type outputFlags struct {
	mode      string
	noHeaders bool
	indent    bool
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().StringVarP(&f.mode, "output", "o", "", "output mode: plain|pretty|json|ndjson (default pretty on a terminal, plain otherwise)")
	cmd.Flags().BoolVar(&f.noHeaders, "no-headers", false, "omit column headers in plain output")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent json output")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func (f outputFlags) options(cmd *cobra.Command, app *wire.App) (present.Options, error) {
	mode := present.DefaultMode(cmd.OutOrStdout())
	if f.mode != "" {
		m, ok := present.ParseMode(strings.ToLower(f.mode))
		if !ok {
			return present.Options{}, errors.Errorf("invalid --output: %s", f.mode)
		}
		mode = m
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: f.indent,
		Headers:    !f.noHeaders,
		Renderer:   app.Renderer,
	}, nil
}
