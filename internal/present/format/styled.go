package format

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/mithrel/tablemark/internal/table"
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("229"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// EmphasisStyle returns the terminal style for an emphasis level.
func EmphasisStyle(e table.Emphasis) lipgloss.Style {
	switch e {
	case table.EmphasisNegative:
		return cellStyle.Bold(true).Foreground(lipgloss.Color("9"))
	case table.EmphasisPositive:
		return cellStyle.Bold(true).Foreground(lipgloss.Color("10"))
	case table.EmphasisCaution:
		return cellStyle.Bold(true).Foreground(lipgloss.Color("11"))
	default:
		return cellStyle
	}
}

// WriteStyledDocument draws every table with borders and colors emphasized
// cells.
func WriteStyledDocument(w io.Writer, doc table.Document, headers bool) error {
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
		if _, err := io.WriteString(w, styledTable(t, headers)+"\n"); err != nil {
			return err
		}
	}
	if first {
		_, err := io.WriteString(w, "(no tables)\n")
		return err
	}
	return nil
}

func styledTable(t table.Table, headers bool) string {
	body := t.Body
	rows := make([][]string, len(body))
	for i, r := range body {
		rows[i] = r.Texts()
	}
	lt := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(body) || col >= len(body[row]) {
				return cellStyle
			}
			return EmphasisStyle(body[row][col].Emphasis)
		})
	if headers {
		lt = lt.Headers(t.Header.Texts()...)
	}
	return lt.String()
}
