package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/bgunnarsson/rowsql/internal/app"
)

func TestUsageNamesEveryFlag(t *testing.T) {
	var o options
	fs := newFlagSet(&o)

	fs.VisitAll(func(f *flag.Flag) {
		assert.Assert(t, mentionsFlag(usage, f.Name), "usage does not mention -%s", f.Name)
	})
}

// mentionsFlag reports whether -name appears as a whole word in s.
func mentionsFlag(s, name string) bool {
	token := "-" + name
	for i := strings.Index(s, token); i >= 0; {
		end := i + len(token)
		if end == len(s) || !('a' <= s[end] && s[end] <= 'z') {
			return true
		}
		next := strings.Index(s[end:], token)
		if next < 0 {
			return false
		}
		i = end + next
	}
	return false
}

func TestFormatHelpListsAcceptedFormats(t *testing.T) {
	var o options
	help := newFlagSet(&o).Lookup("format").Usage

	for _, f := range []app.Format{app.FormatTable, app.FormatJSON, app.FormatStyled} {
		_, err := app.ParseFormat(string(f))
		assert.NilError(t, err)
		assert.Assert(t, strings.Contains(help, string(f)), "help omits %s", f)
		assert.Assert(t, strings.Contains(usage, string(f)), "usage omits %s", f)
	}
}

func TestInteractiveHelpMentionsFallback(t *testing.T) {
	var o options
	help := newFlagSet(&o).Lookup("i").Usage
	assert.Assert(t, strings.Contains(help, "terminal"))
}

func TestParseFlags(t *testing.T) {
	var o options
	fs := newFlagSet(&o)
	fs.SetOutput(&bytes.Buffer{})

	err := fs.Parse([]string{"-backend", "pg", "-schema", "ventas", "-limit", "50", "-format", "json", "Pedidos"})
	assert.NilError(t, err)
	assert.Equal(t, o.backend, "pg")
	assert.Equal(t, o.schema, "ventas")
	assert.Equal(t, o.limit, 50)
	assert.Equal(t, o.format, "json")
	assert.Equal(t, fs.Arg(0), "Pedidos")
}

func TestUsageOutput(t *testing.T) {
	var o options
	fs := newFlagSet(&o)
	var buf bytes.Buffer
	fs.SetOutput(&buf)

	fs.Usage()
	assert.Assert(t, strings.Contains(buf.String(), "-ping"))
	assert.Assert(t, strings.Contains(buf.String(), "check connectivity"))
}
