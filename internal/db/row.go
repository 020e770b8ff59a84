package db

import (
	"bytes"
	"encoding/json"
)

// Row is one result row: column names in cursor order and their values.
// A SQL NULL is always the untyped nil, whatever the backend.
//
// Rows produced by one read share their column slice; neither slice is
// ever handed out directly, so a Row cannot be mutated by its holder.
type Row struct {
	cols []string
	vals []any
}

func NewRow(cols []string, vals []any) Row {
	return Row{cols: cols, vals: vals}
}

func (r Row) Len() int {
	return len(r.cols)
}

func (r Row) Columns() []string {
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

func (r Row) Values() []any {
	out := make([]any, len(r.vals))
	copy(out, r.vals)
	return out
}

// Get returns the value of the named column.
func (r Row) Get(name string) (any, bool) {
	for i, c := range r.cols {
		if c == name {
			return r.vals[i], true
		}
	}
	return nil, false
}

// At returns the column name and value at position i.
func (r Row) At(i int) (string, any) {
	return r.cols[i], r.vals[i]
}

// MarshalJSON encodes the row as an object whose keys keep cursor order.
func (r Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, c := range r.cols {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')

		v, err := json.Marshal(r.vals[i])
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
