package tui

import "github.com/mithrel/tablemark/internal/table"

// browseRow is one body row together with the header of its table.
type browseRow struct {
	table  int
	header table.Row
	cells  table.Row
}

func (r browseRow) flagged() bool {
	for _, c := range r.cells {
		if c.Emphasis == table.EmphasisNegative || c.Emphasis == table.EmphasisCaution {
			return true
		}
	}
	return false
}

func flatten(doc table.Document) []browseRow {
	var out []browseRow
	for i, t := range doc.Tables {
		for _, r := range t.Body {
			out = append(out, browseRow{table: i, header: t.Header, cells: r})
		}
	}
	return out
}

// columnTitles takes titles from the first table with a header and widens
// to the widest table with placeholder titles.
func columnTitles(doc table.Document) []string {
	var titles []string
	width := 0
	for _, t := range doc.Tables {
		if t.Width() == 0 {
			continue
		}
		if titles == nil {
			titles = t.Header.Texts()
		}
		width = max(width, t.Width())
	}
	for len(titles) < width {
		titles = append(titles, "")
	}
	return titles
}
