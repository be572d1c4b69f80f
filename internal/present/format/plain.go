package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

// TSV columns for archive listings: id, tables, created
var renderHeaderLine = "id\ttables\tcreated\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func tsvLine(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = esc(c)
	}
	return strings.Join(parts, "\t") + "\n"
}

// WritePlainDocument writes each table as aligned columns, separated by a
// blank line. Headerless blocks are skipped.
func WritePlainDocument(w io.Writer, doc table.Document, headers bool) error {
	first := true
	for _, t := range doc.Tables {
		if t.Width() == 0 {
			continue
		}
		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if headers {
			_, _ = io.WriteString(tw, tsvLine(t.Header.Texts()))
		}
		for _, row := range t.Body {
			_, _ = io.WriteString(tw, tsvLine(row.Texts()))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// WritePlainRenders lists archived renders, newest first as given.
func WritePlainRenders(w io.Writer, renders []api.Render, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, renderHeaderLine)
	}
	for _, r := range renders {
		line := fmt.Sprintf("%s\t%d\t%s\n",
			esc(api.ShortID(r.ID)), r.Tables, r.CreatedAt.Local().Format(time.RFC3339))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
