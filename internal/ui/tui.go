package ui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bgunnarsson/rowsql/internal/db"
	"github.com/bgunnarsson/rowsql/internal/print"
)

const maxColumnWidth = 30

// Loader fetches the rows to browse. It is called again on reload.
type Loader func(ctx context.Context) ([]db.Row, error)

type loadedMsg struct {
	rows []db.Row
	err  error
}

type model struct {
	ctx   context.Context
	label string
	load  Loader

	table  table.Model
	rows   []db.Row
	detail bool
	err    error
	height int
}

// Run starts the interactive row browser. label is shown in the header,
// e.g. "Postgres public.orders".
func Run(ctx context.Context, label string, load Loader) error {
	m := newModel(ctx, label, load)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func newModel(ctx context.Context, label string, load Loader) model {
	t := table.New(table.WithFocused(true), table.WithHeight(20))

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("230")).
		Background(accentColor)
	t.SetStyles(s)

	return model{ctx: ctx, label: label, load: load, table: t}
}

func (m model) fetch() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.load(m.ctx)
		return loadedMsg{rows: rows, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return m.fetch()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-4, 3))
		return m, nil

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.setRows(msg.rows)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if len(m.rows) > 0 {
				m.detail = !m.detail
			}
			return m, nil
		case "esc":
			m.detail = false
			return m, nil
		case "r":
			m.detail = false
			return m, m.fetch()
		}
	}

	if m.detail {
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) setRows(rows []db.Row) {
	m.rows = rows
	m.table.SetRows(nil)

	if len(rows) == 0 {
		m.table.SetColumns(nil)
		return
	}

	names := rows[0].Columns()
	widths := make([]int, len(names))
	for i, n := range names {
		widths[i] = min(utf8.RuneCountInString(n), maxColumnWidth)
	}

	data := make([]table.Row, len(rows))
	for r, row := range rows {
		cells := print.Cells(row)
		for i, c := range cells {
			widths[i] = min(max(widths[i], utf8.RuneCountInString(c)), maxColumnWidth)
		}
		data[r] = table.Row(cells)
	}

	cols := make([]table.Column, len(names))
	for i, n := range names {
		cols[i] = table.Column{Title: n, Width: widths[i]}
	}

	m.table.SetColumns(cols)
	m.table.SetRows(data)
	m.table.GotoTop()
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" " + m.label + " "))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case m.detail:
		b.WriteString(m.detailView())
	case len(m.rows) == 0:
		b.WriteString(dimStyle.Render("(no rows)"))
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d rows", len(m.rows))
	if len(m.rows) > 0 && !m.detail {
		status = fmt.Sprintf("row %d/%d", m.table.Cursor()+1, len(m.rows))
	}
	b.WriteString(dimStyle.Render(status + "  enter: detail  r: reload  q: quit"))
	return b.String()
}

func (m model) detailView() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return ""
	}
	row := m.rows[idx]

	var b strings.Builder
	for i := 0; i < row.Len(); i++ {
		name, v := row.At(i)
		b.WriteString(headerStyle.Render(name))
		b.WriteString(":\n  ")
		b.WriteString(print.FormatCell(v))
		b.WriteString("\n\n")
	}
	return detailStyle.Render(b.String()) + "\n"
}
