// Package table parses pipe-delimited Markdown table blocks into rows and cells.
package table

import "strings"

// Cell is one table cell with the emphasis derived from its text.
type Cell struct {
	Text     string   `json:"text" yaml:"text"`
	Emphasis Emphasis `json:"emphasis" yaml:"emphasis"`
}

// Row is an ordered sequence of cells.
type Row []Cell

// Texts returns the cell texts of the row.
func (r Row) Texts() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Text
	}
	return out
}

// Table is a header row plus its body rows. Every row has the same
// number of cells, and that number is greater than one.
type Table struct {
	Header Row   `json:"header" yaml:"header"`
	Body   []Row `json:"body" yaml:"body"`
}

// Width is the number of columns, zero for a block that never produced a header.
func (t Table) Width() int { return len(t.Header) }

// Document holds every table block of one input, in input order.
type Document struct {
	Tables []Table `json:"tables" yaml:"tables"`
}

// Empty reports whether the document contains no table with a header.
func (d Document) Empty() bool {
	for _, t := range d.Tables {
		if t.Width() > 0 {
			return false
		}
	}
	return true
}

// Count is the number of tables with a header.
func (d Document) Count() int {
	n := 0
	for _, t := range d.Tables {
		if t.Width() > 0 {
			n++
		}
	}
	return n
}

// Markdown writes the document back as normalized GFM tables separated by
// blank lines. Blocks without a header are skipped.
func (d Document) Markdown() string {
	var b strings.Builder
	first := true
	for _, t := range d.Tables {
		if t.Width() == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		writeMarkdownRow(&b, t.Header)
		b.WriteString("|")
		for range t.Header {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, r := range t.Body {
			writeMarkdownRow(&b, r)
		}
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, r Row) {
	b.WriteString("|")
	for _, c := range r {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c.Text, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
