package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/tablemark/internal/present"
	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/internal/util"
	"github.com/mithrel/tablemark/internal/wire"
)

// outputFlags are shared by commands that print a document.
type outputFlags struct {
	mode      string
	out       string
	noHeaders bool
	indent    bool
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().StringVarP(&f.mode, "output", "o", "", "output mode: "+strings.Join(present.ModeNames(), "|"))
	cmd.Flags().StringVar(&f.out, "out", "", "write output to a file instead of stdout")
	cmd.Flags().BoolVar(&f.noHeaders, "no-headers", false, "omit header rows in plain, table and xlsx output")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent JSON output")
	_ = cmd.RegisterFlagCompletionFunc("output", completeModes)
}

func completeModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return util.ScoreCompletions(toComplete, present.ModeNames(), 0), cobra.ShellCompDirectiveNoFileComp
}

// options resolves the mode from the flag, falling back to the configured default.
func (f outputFlags) options(app *wire.App) (present.Options, error) {
	name := f.mode
	if name == "" {
		name = app.Cfg.GetString("output")
	}
	mode, ok := present.ParseMode(name)
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", name)
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: f.indent,
		Headers:    !f.noHeaders,
		Markup:     app.Renderer,
	}, nil
}

// writeDocument sends doc to the --out file or to stdout.
func (f outputFlags) writeDocument(cmd *cobra.Command, doc table.Document, opts present.Options) error {
	ctx := cmd.Context()
	if f.out != "" {
		if opts.Mode.Interactive() {
			return fmt.Errorf("--out cannot be used with %s output", opts.Mode)
		}
		var buf bytes.Buffer
		if err := present.RenderDocument(ctx, &buf, doc, opts); err != nil {
			return err
		}
		return writeFile(f.out, buf.Bytes())
	}
	if opts.Mode.Binary() && isTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("refusing to write %s to a terminal; use --out or redirect stdout", opts.Mode)
	}
	return renderDocument(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), doc, opts)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// readInput returns the named file, or stdin when the name is absent or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}
