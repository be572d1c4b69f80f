package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/tablemark/internal/editor"
	"github.com/mithrel/tablemark/internal/wire"
	"github.com/mithrel/tablemark/pkg/api"
)

func newRenderCmd() *cobra.Command {
	var of outputFlags
	var noArchive bool
	var edit bool
	var columns int
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the Markdown tables of a file or stdin",
		Long: `Render every pipe-delimited table block of the input.

The default html output is a fragment of <table> elements whose body cells
carry emphasis classes from the configured rules. Other modes print the
same parsed tables for the terminal or for other tools.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := of.options(app)
			if err != nil {
				return err
			}
			var text string
			if edit {
				text, err = editInput(args, columns)
			} else {
				text, err = readInput(cmd, args)
			}
			if err != nil {
				return err
			}
			rec, doc := app.Renderer.Record(text, time.Now())
			if !noArchive && app.Archiving() {
				archiveRender(cmd, app, rec)
			}
			return of.writeDocument(cmd, doc, opts)
		},
	}
	addOutputFlags(cmd, &of)
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "do not store this render in the archive")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "compose the input in $EDITOR, starting from the file or an empty table")
	cmd.Flags().IntVar(&columns, "columns", 3, "columns of the empty table offered by --edit")
	return cmd
}

// editInput opens the named file, or an empty table, in the user's editor
// and returns the saved Markdown.
func editInput(args []string, columns int) (string, error) {
	seed := editor.Skeleton(columns)
	name := "draft"
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		seed = string(b)
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	path, err := editor.PathFor(name)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)
	out, _, err := editor.OpenAt(path, []byte(editor.ComposeContent(seed)))
	if err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}
	text := editor.ParseEdited(string(out))
	if strings.TrimSpace(text) == "" {
		return "", errors.New("aborted: nothing to render")
	}
	return text, nil
}

// archiveRender stores rec; failures are logged and never fail the render.
func archiveRender(cmd *cobra.Command, app *wire.App, rec api.Render) {
	archive, err := app.Archive(cmd.Context())
	if err != nil {
		app.Log.Printf("archive: open: %v", err)
		return
	}
	created, err := archive.Put(cmd.Context(), rec)
	if err != nil {
		app.Log.Printf("archive: put %s: %v", api.ShortID(rec.ID), err)
		return
	}
	if created {
		app.Log.Printf("archive: stored %s tables=%d", api.ShortID(rec.ID), rec.Tables)
	}
}
