package format

import (
	"io"

	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

// WriteNDJSONTables writes one table per line.
func WriteNDJSONTables(w io.Writer, doc table.Document) error {
	enc := newEncoder(w, false)
	for _, t := range doc.Tables {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONRenders writes one archived render per line.
func WriteNDJSONRenders(w io.Writer, renders []api.Render) error {
	enc := newEncoder(w, false)
	for _, r := range renders {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
