package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	msqlite "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/bgunnarsson/rowsql/internal/db"
)

const (
	Backend       = "Sqlite"
	DefaultSchema = "main"
)

type SqliteDB struct {
	db *sql.DB
}

// Open opens a database file by plain path. The file is created on first use.
func Open(path string) (*SqliteDB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: "empty database path"}
	}

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: err.Error()}
	}

	sqldb.SetConnMaxLifetime(5 * time.Minute)

	return &SqliteDB{db: sqldb}, nil
}

func (s *SqliteDB) Close() error {
	return s.db.Close()
}

func (s *SqliteDB) Ping(ctx context.Context) error {
	return db.Classify(s.db.PingContext(ctx), Backend, db.PingTarget, "", classify)
}

func (s *SqliteDB) ReadRows(ctx context.Context, table, schema string, limit int) ([]db.Row, error) {
	t, err := db.Normalize(table, schema, DefaultSchema, limit)
	if err != nil {
		return nil, err
	}

	rows, err := db.ReadScoped(ctx, s.db, selectStatement(t), t.Limit, nil, t.Limit)
	if err != nil {
		return nil, db.Classify(err, Backend, t, "", classify)
	}
	return rows, nil
}

// very basic identifier quoting – enough for sqlite
func quoteIdent(id string) string {
	return db.QuoteWith(id, '"', '"')
}

func selectStatement(t db.Target) string {
	return fmt.Sprintf("SELECT * FROM %s.%s LIMIT ?", quoteIdent(t.Schema), quoteIdent(t.Table))
}

func classify(err error) (db.DriverError, bool) {
	var se *msqlite.Error
	if errors.As(err, &se) {
		return db.DriverError{Code: strconv.Itoa(se.Code()), Message: se.Error()}, true
	}
	return db.DriverError{}, false
}
