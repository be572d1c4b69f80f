// Package render turns parsed table documents into HTML fragments.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mithrel/tablemark/internal/table"
	"github.com/mithrel/tablemark/pkg/api"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options configures a Renderer. The zero value renders nothing useful;
// start from DefaultOptions.
type Options struct {
	Rules   table.Rules
	Classes Classes
	// Escape HTML-escapes cell text. When false, cell text is inserted as
	// markup and the whole fragment is sanitized.
	Escape bool
	Logger *log.Logger
}

// DefaultOptions returns the default rules and classes with escaping on.
func DefaultOptions() Options {
	return Options{Rules: table.DefaultRules(), Classes: DefaultClasses(), Escape: true}
}

// Renderer is safe for concurrent use.
type Renderer struct {
	rules   table.Rules
	classes Classes
	escape  bool
	tmpl    *template.Template
	policy  *bluemonday.Policy
	log     *log.Logger
	empty   string
}

type cellView struct {
	Text  template.HTML
	Class string
}

type tableView struct {
	Wrapper string
	Class   string
	Header  []cellView
	Body    [][]cellView
}

type resultView struct {
	InputText string
	HasImage  bool
	Filename  string
	FileType  string
	HasResult bool
	Tables    []tableView
}

// New builds a Renderer and checks that its templates execute.
func New(opts Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	lg := opts.Logger
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	r := &Renderer{
		rules:   append(table.Rules(nil), opts.Rules...),
		classes: opts.Classes,
		escape:  opts.Escape,
		tmpl:    tmpl,
		policy:  markupPolicy(),
		log:     lg,
	}
	empty, err := r.execute("document", r.tableViews(table.Document{}))
	if err != nil {
		return nil, fmt.Errorf("render empty container: %w", err)
	}
	r.empty = empty
	return r, nil
}

// Rules returns a copy of the emphasis rules in precedence order.
func (r *Renderer) Rules() table.Rules { return append(table.Rules(nil), r.rules...) }

// Classes returns the configured classes.
func (r *Renderer) Classes() Classes { return r.classes }

// Parse parses text with the renderer's rules.
func (r *Renderer) Parse(text string) table.Document { return table.Parse(text, r.rules) }

// Render converts every table block in text into markup. Text without
// tables yields a single empty container. Render never fails.
func (r *Renderer) Render(text string) string {
	return r.Markup(r.Parse(text))
}

// Markup renders an already parsed document.
func (r *Renderer) Markup(doc table.Document) string {
	out, err := r.execute("document", r.tableViews(doc))
	if err != nil {
		r.log.Printf("render document: %v", err)
		return r.empty
	}
	return out
}

// Result renders a review response: the input summary followed by the
// tables of its result text.
func (r *Renderer) Result(res api.ReviewResult) string {
	view := resultView{
		InputText: strings.TrimSpace(res.InputText),
		HasImage:  res.HasImage,
		Filename:  res.Filename,
		FileType:  res.FileType,
		HasResult: strings.TrimSpace(res.Result) != "",
	}
	if view.HasResult {
		view.Tables = r.tableViews(r.Parse(res.Result))
	}
	out, err := r.execute("result", view)
	if err != nil {
		r.log.Printf("render result: %v", err)
		return r.empty
	}
	return out
}

// Fingerprint identifies everything besides the input that affects output.
func (r *Renderer) Fingerprint() string {
	parts := append(r.rules.Strings(),
		r.classes.Wrapper, r.classes.Table,
		r.classes.Negative, r.classes.Positive, r.classes.Caution,
		strconv.FormatBool(r.escape),
	)
	return api.ContentHash(parts...)
}

// ID is the archive key of markdown rendered with this configuration.
func (r *Renderer) ID(markdown string) string {
	return api.ContentHash(markdown, r.Fingerprint())
}

// Record renders markdown into an archive record created at the given time.
func (r *Renderer) Record(markdown string, at time.Time) (api.Render, table.Document) {
	doc := r.Parse(markdown)
	return api.Render{
		ID:        r.ID(markdown),
		Markdown:  markdown,
		HTML:      r.Markup(doc),
		Tables:    doc.Count(),
		CreatedAt: at.UTC(),
	}, doc
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	if r.escape {
		return buf.String(), nil
	}
	return r.policy.Sanitize(buf.String()), nil
}

func (r *Renderer) tableViews(doc table.Document) []tableView {
	if len(doc.Tables) == 0 {
		return []tableView{{Wrapper: r.classes.Wrapper, Class: r.classes.Table}}
	}
	views := make([]tableView, 0, len(doc.Tables))
	for _, t := range doc.Tables {
		v := tableView{Wrapper: r.classes.Wrapper, Class: r.classes.Table}
		if t.Width() > 0 {
			v.Header = r.cells(t.Header)
			v.Body = make([][]cellView, 0, len(t.Body))
			for _, row := range t.Body {
				v.Body = append(v.Body, r.cells(row))
			}
		}
		views = append(views, v)
	}
	return views
}

func (r *Renderer) cells(row table.Row) []cellView {
	out := make([]cellView, len(row))
	for i, c := range row {
		text := template.HTML(c.Text)
		if r.escape {
			text = template.HTML(template.HTMLEscapeString(c.Text))
		}
		out[i] = cellView{Text: text, Class: r.classes.For(c.Emphasis)}
	}
	return out
}
