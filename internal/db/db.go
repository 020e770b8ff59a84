package db

import (
	"context"
	"strings"
)

// DefaultLimit is applied by every adapter when the caller passes no limit.
const DefaultLimit = 1000

// TableReader is implemented once per backend.
//
// An empty schema means "the backend's default schema" and a limit <= 0
// means DefaultLimit. Implementations validate the table name themselves
// and must not assume the caller already did.
type TableReader interface {
	ReadRows(ctx context.Context, table, schema string, limit int) ([]Row, error)
}

// Reader is a TableReader that owns a driver pool.
type Reader interface {
	TableReader
	Ping(ctx context.Context) error
	Close() error
}

// Target is a normalized read request as seen by an adapter.
type Target struct {
	Schema string // empty when the backend has no default schema
	Table  string
	Limit  int
}

// PingTarget labels errors from connectivity checks.
var PingTarget = Target{Table: "<ping>"}

// Normalize trims the identifiers and applies the adapter defaults.
// It returns an *InputError when the table name is blank.
func Normalize(table, schema, defaultSchema string, limit int) (Target, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return Target{}, &InputError{Field: "table", Reason: "table name is required"}
	}

	schema = strings.TrimSpace(schema)
	if schema == "" {
		schema = defaultSchema
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	return Target{Schema: schema, Table: table, Limit: limit}, nil
}

// Qualified renders the target for messages, e.g. "dbo.Clientes".
func (t Target) Qualified() string {
	if t.Schema == "" {
		return t.Table
	}
	return t.Schema + "." + t.Table
}

// QuoteWith wraps id in open/close and doubles every close character
// inside it, which is how all supported backends escape delimited names.
func QuoteWith(id string, open, close byte) string {
	var b strings.Builder
	b.Grow(len(id) + 2)
	b.WriteByte(open)
	for i := 0; i < len(id); i++ {
		if id[i] == close {
			b.WriteByte(close)
		}
		b.WriteByte(id[i])
	}
	b.WriteByte(close)
	return b.String()
}
