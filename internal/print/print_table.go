package print

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bgunnarsson/rowsql/internal/db"
)

type Options struct {
	MaxWidth int // max width for each column, 0 = no limit
}

// RenderTable writes rows as an ASCII grid. Column headers come from the
// first row; every row of one read shares them.
func RenderTable(w io.Writer, rows []db.Row, opts Options) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 40
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	columns := rows[0].Columns()
	cols := len(columns)
	if cols == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	// compute widths
	widths := make([]int, cols)
	for i, name := range columns {
		widths[i] = min(len(name), opts.MaxWidth)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = Cells(row)
		for i, s := range cells[r] {
			if l := len(s); l > widths[i] {
				widths[i] = min(l, opts.MaxWidth)
			}
		}
	}

	sep := func(ch string) string {
		var b strings.Builder
		b.WriteString("+")
		for i := range widths {
			b.WriteString(strings.Repeat(ch, widths[i]+2))
			b.WriteString("+")
		}
		return b.String()
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			cut := truncate(c, widths[i])
			b.WriteString(" ")
			b.WriteString(padRight(cut, widths[i]))
			b.WriteString(" |")
		}
		fmt.Fprintln(w, b.String())
	}

	fmt.Fprintln(w, sep("-"))
	writeRow(columns)
	fmt.Fprintln(w, sep("="))
	for _, c := range cells {
		writeRow(c)
	}
	fmt.Fprintln(w, sep("-"))
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// RenderJSON writes rows as a JSON array of objects in column order.
func RenderJSON(w io.Writer, rows []db.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Cells formats every value of row for display.
func Cells(row db.Row) []string {
	vals := row.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = FormatCell(v)
	}
	return out
}

func FormatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case []byte:
		// heuristic: treat as string if printable, else show len
		s := string(t)
		if isPrintable(s) {
			return s
		}
		return fmt.Sprintf("<blob %d bytes>", len(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 2 {
		return s[:w]
	}
	return s[:w-3] + "..."
}
