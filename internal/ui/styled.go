package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/bgunnarsson/rowsql/internal/db"
	"github.com/bgunnarsson/rowsql/internal/print"
)

var (
	accentColor = lipgloss.Color("57")
	borderColor = lipgloss.Color("240")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accentColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	nullStyle   = cellStyle.Foreground(lipgloss.Color("243")).Italic(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

// RenderStyled writes rows as a bordered lipgloss table, for terminals.
func RenderStyled(w io.Writer, rows []db.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(no rows)"))
		return
	}

	values := make([][]any, len(rows))
	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(rows[0].Columns()...)

	for i, r := range rows {
		values[i] = r.Values()
		t.Row(print.Cells(r)...)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return headerStyle.Padding(0, 1)
		}
		if row >= 0 && row < len(values) && col < len(values[row]) && values[row][col] == nil {
			return nullStyle
		}
		return cellStyle
	})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("(%d rows)", len(rows))))
}
