package table

import "strings"

// separatorRun marks a header/body separator when found in a row's first cell.
const separatorRun = "---"

// Parse scans text line by line and collects every pipe-delimited table
// block. Lines outside a block are ignored. Parse never fails: malformed
// rows are skipped and a block still open at end of input is closed.
func Parse(text string, rules Rules) Document {
	var (
		doc    Document
		cur    *Table
		header bool // header section still open
	)
	closeTable := func() {
		if cur != nil {
			doc.Tables = append(doc.Tables, *cur)
			cur = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if !isTableLine(line) {
			closeTable()
			continue
		}
		if cur == nil {
			cur = &Table{}
			header = true
		}
		cells := SplitRow(line)
		if isSeparator(cells) || len(cells) < 2 {
			continue
		}
		if header {
			cur.Header = make(Row, len(cells))
			for i, c := range cells {
				cur.Header[i] = Cell{Text: c}
			}
			header = false
			continue
		}
		row := make(Row, cur.Width())
		for i := range row {
			if i < len(cells) {
				row[i] = Cell{Text: cells[i], Emphasis: rules.Classify(cells[i])}
			}
		}
		cur.Body = append(cur.Body, row)
	}
	closeTable()
	return doc
}

func isTableLine(line string) bool {
	return strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|")
}

func isSeparator(cells []string) bool {
	return len(cells) > 0 && strings.Contains(cells[0], separatorRun)
}

// SplitRow strips the wrapping pipes of a trimmed table line and splits it
// on the remaining unescaped pipes. `\|` yields a literal pipe inside a
// cell. Every cell is trimmed. A lone "|" has no cells.
func SplitRow(line string) []string {
	line = strings.TrimSpace(line)
	if len(line) < 2 {
		return nil
	}
	inner := line[1 : len(line)-1]

	var (
		cells []string
		b     strings.Builder
	)
	for i := 0; i < len(inner); i++ {
		switch {
		case inner[i] == '\\' && i+1 < len(inner) && inner[i+1] == '|':
			b.WriteByte('|')
			i++
		case inner[i] == '|':
			cells = append(cells, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(inner[i])
		}
	}
	cells = append(cells, strings.TrimSpace(b.String()))
	return cells
}
