package present

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/tablemark/internal/present/format"
	"github.com/mithrel/tablemark/internal/present/tui"
	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

type Mode int

const (
	ModeHTML Mode = iota
	ModePretty
	ModeTable
	ModePlain
	ModeJSON
	ModeNDJSON
	ModeXLSX
	ModeTUI
)

var modeNames = [...]string{"html", "pretty", "table", "plain", "json", "ndjson", "xlsx", "tui"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Binary reports whether the mode writes non-text output.
func (m Mode) Binary() bool { return m == ModeXLSX }

// Interactive reports whether the mode takes over the terminal.
func (m Mode) Interactive() bool { return m == ModeTUI }

// ModeNames lists every mode name in declaration order.
func ModeNames() []string { return append([]string(nil), modeNames[:]...) }

// ParseMode parses a mode name such as "html", "plain" or "xlsx".
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return ModeHTML, false
}

// Marker turns a parsed document into an HTML fragment.
type Marker interface {
	Markup(doc table.Document) string
}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Width is the wrap width for pretty output; zero means 80.
	Width int
	// Markup is required for ModeHTML.
	Markup Marker
}

// RenderDocument writes a parsed document according to options.
func RenderDocument(ctx context.Context, w io.Writer, doc table.Document, opts Options) error {
	switch opts.Mode {
	case ModeHTML:
		if opts.Markup == nil {
			return fmt.Errorf("html output needs a renderer")
		}
		_, err := io.WriteString(w, opts.Markup.Markup(doc)+"\n")
		return err
	case ModePretty:
		return format.WritePrettyDocument(w, doc, opts.Width)
	case ModeTable:
		return format.WriteStyledDocument(w, doc, opts.Headers)
	case ModePlain:
		return format.WritePlainDocument(w, doc, opts.Headers)
	case ModeJSON:
		return format.WriteJSONDocument(w, doc, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONTables(w, doc)
	case ModeXLSX:
		return format.WriteXLSX(w, doc, opts.Headers)
	case ModeTUI:
		return tui.Browse(ctx, doc, opts.Headers)
	default:
		return fmt.Errorf("unsupported output mode %s", opts.Mode)
	}
}

// RenderRenders writes an archive listing. Table-oriented modes fall back
// to the plain listing.
func RenderRenders(_ context.Context, w io.Writer, renders []api.Render, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONRenders(w, renders, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONRenders(w, renders)
	case ModeXLSX, ModeTUI:
		return fmt.Errorf("%s output not supported for listings", opts.Mode)
	default:
		return format.WritePlainRenders(w, renders, opts.Headers)
	}
}
