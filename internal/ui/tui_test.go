package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"

	"github.com/bgunnarsson/rowsql/internal/db"
)

func sampleRows() []db.Row {
	cols := []string{"id", "nombre"}
	return []db.Row{
		db.NewRow(cols, []any{int64(1), "Ana"}),
		db.NewRow(cols, []any{int64(2), nil}),
	}
}

func loaded(t *testing.T, rows []db.Row, err error) model {
	t.Helper()
	m := newModel(context.Background(), "Sqlite Clientes", func(context.Context) ([]db.Row, error) {
		return rows, err
	})

	cmd := m.Init()
	assert.Assert(t, cmd != nil)
	next, _ := m.Update(cmd())
	return next.(model)
}

func TestModelLoadsRows(t *testing.T) {
	m := loaded(t, sampleRows(), nil)

	assert.Equal(t, len(m.rows), 2)
	view := m.View()
	assert.Assert(t, strings.Contains(view, "Sqlite Clientes"))
	assert.Assert(t, strings.Contains(view, "nombre"))
	assert.Assert(t, strings.Contains(view, "row 1/2"))
}

func TestModelDetailToggle(t *testing.T) {
	m := loaded(t, sampleRows(), nil)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Assert(t, m.detail)
	assert.Assert(t, strings.Contains(m.View(), "NULL"))

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Assert(t, !next.(model).detail)
}

func TestModelShowsLoadError(t *testing.T) {
	m := loaded(t, nil, errors.New("backend down"))
	assert.Assert(t, strings.Contains(m.View(), "error: backend down"))
}

func TestModelQuit(t *testing.T) {
	m := loaded(t, sampleRows(), nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Assert(t, cmd != nil)
	_, ok := cmd().(tea.QuitMsg)
	assert.Assert(t, ok)
}

func TestRenderStyled(t *testing.T) {
	var buf bytes.Buffer
	RenderStyled(&buf, sampleRows())
	out := buf.String()
	assert.Assert(t, strings.Contains(out, "nombre"))
	assert.Assert(t, strings.Contains(out, "Ana"))
	assert.Assert(t, strings.Contains(out, "NULL"))
	assert.Assert(t, strings.Contains(out, "(2 rows)"))

	buf.Reset()
	RenderStyled(&buf, nil)
	assert.Assert(t, strings.Contains(buf.String(), "(no rows)"))
}
