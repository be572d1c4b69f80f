package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/tablemark/internal/table"
)

const noTables = "_No tables found._\n"

// WritePrettyDocument renders the document's tables as Markdown with glamour.
func WritePrettyDocument(w io.Writer, doc table.Document, width int) error {
	md := doc.Markdown()
	if md == "" {
		md = noTables
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
