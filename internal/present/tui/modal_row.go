package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/tablemark/internal/table"
)

var (
	labelStyle    = lipglossv2.NewStyle().Bold(true).Foreground(lipglossv2.Color("63"))
	negativeStyle = lipglossv2.NewStyle().Bold(true).Foreground(lipglossv2.Color("9"))
	positiveStyle = lipglossv2.NewStyle().Bold(true).Foreground(lipglossv2.Color("10"))
	cautionStyle  = lipglossv2.NewStyle().Bold(true).Foreground(lipglossv2.Color("11"))
)

// rowModal shows every cell of one row, labelled by its own table header,
// inside a scrollable viewport.
type rowModal struct {
	vp      viewport.Model
	width   int
	height  int
	padX    int
	padY    int
	box     lipglossv2.Style
	content string
}

func newRowModal(r browseRow, termW, termH int) *rowModal {
	m := &rowModal{padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	m.setContent(rowContent(r))
	return m
}

func (m *rowModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.7)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	innerH := max(5, h-2-m.padY*2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.vp.SetContent(m.content)
}

func rowContent(r browseRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table %d\n\n", r.table+1)
	for i, c := range r.cells {
		label := fmt.Sprintf("Column %d", i+1)
		if i < len(r.header) && r.header[i].Text != "" {
			label = r.header[i].Text
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(emphasize(c))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func emphasize(c table.Cell) string {
	switch c.Emphasis {
	case table.EmphasisNegative:
		return negativeStyle.Render(c.Text)
	case table.EmphasisPositive:
		return positiveStyle.Render(c.Text)
	case table.EmphasisCaution:
		return cautionStyle.Render(c.Text)
	default:
		return c.Text
	}
}

func (m *rowModal) setContent(s string) {
	m.content = s
	m.vp.SetContent(s)
}

func (m *rowModal) update(msg tea.Msg) (*rowModal, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *rowModal) View() string { return m.box.Render(m.vp.View()) }
