package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

func newEncoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc
}

// WriteJSONDocument writes the whole document as one JSON object.
func WriteJSONDocument(w io.Writer, doc table.Document, indent bool) error {
	if doc.Tables == nil {
		doc.Tables = []table.Table{}
	}
	return newEncoder(w, indent).Encode(doc)
}

// WriteJSONRenders writes archived renders as a JSON array.
func WriteJSONRenders(w io.Writer, renders []api.Render, indent bool) error {
	if renders == nil {
		renders = []api.Render{}
	}
	return newEncoder(w, indent).Encode(renders)
}

// WriteJSONRender writes one archived render as a JSON object.
func WriteJSONRender(w io.Writer, r api.Render, indent bool) error {
	return newEncoder(w, indent).Encode(r)
}
