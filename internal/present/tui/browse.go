package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/tablemark/internal/table"
)

// ErrNoRows is returned when a document has no body rows to browse.
var ErrNoRows = errors.New("no table rows to browse")

// Browse opens an interactive Bubble Tea table over every body row of doc.
func Browse(ctx context.Context, doc table.Document, headers bool) error {
	m := newModel(doc, headers)
	if len(m.rows) == 0 {
		return ErrNoRows
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type model struct {
	table   btable.Model
	titles  []string
	rows    []browseRow
	flagged int
	headers bool
	width   int
	height  int
	modal   *rowModal
}

func newModel(doc table.Document, headers bool) model {
	m := model{
		titles:  columnTitles(doc),
		rows:    flatten(doc),
		headers: headers,
	}
	for _, r := range m.rows {
		if r.flagged() {
			m.flagged++
		}
	}
	m.initTable()
	return m
}

func (m *model) initTable() {
	widths := make([]int, len(m.titles))
	for i := range widths {
		widths[i] = 20
	}
	m.table = btable.New(btable.WithColumns(m.columnsFor(widths)), btable.WithFocused(true))
	m.updateRows()
	m.applyStyles()
}

func (m *model) updateRows() {
	rows := make([]btable.Row, 0, len(m.rows))
	for _, r := range m.rows {
		cells := make(btable.Row, len(m.titles))
		for i := range cells {
			if i < len(r.cells) {
				cells[i] = r.cells[i].Text
			}
		}
		rows = append(rows, cells)
	}
	m.table.SetRows(rows)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		if m.modal != nil {
			m.modal.resizeForTerm(msg.Width, msg.Height)
		}
		return m, nil
	case tea.KeyMsg:
		if m.modal != nil {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "q", "enter":
				m.modal = nil
				return m, nil
			}
			var cmd tea.Cmd
			m.modal, cmd = m.modal.update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.rows) {
				m.modal = newRowModal(m.rows[idx], m.width, m.height)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) renderFooter() string {
	left := "↑/↓ to navigate • enter=details • q=exit"
	right := fmt.Sprintf("%d rows • %d flagged ", len(m.rows), m.flagged)

	width := m.table.Width()
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	if m.table.Height() < 3 {
		return "(no rows) \n"
	}
	base := m.table.View() + "\n" + m.renderFooter() + "\n"
	if m.modal == nil {
		return base
	}
	return m.renderOverlay(base, m.modal.View(), m.modal.width, m.modal.height)
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-1))
	m.table.SetWidth(m.width)
	if len(m.titles) == 0 {
		return
	}
	// two cells of padding per column
	avail := m.width - 2*len(m.titles)
	w := max(8, avail/len(m.titles))
	widths := make([]int, len(m.titles))
	for i := range widths {
		widths[i] = w
	}
	m.table.SetColumns(m.columnsFor(widths))
}

func (m *model) applyStyles() {
	s := btable.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(widths []int) []btable.Column {
	cols := make([]btable.Column, len(m.titles))
	for i, t := range m.titles {
		if !m.headers {
			t = ""
		}
		cols[i] = btable.Column{Title: t, Width: widths[i]}
	}
	return cols
}
