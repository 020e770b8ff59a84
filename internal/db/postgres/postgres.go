package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bgunnarsson/rowsql/internal/db"
)

const (
	Backend       = "Postgres"
	DefaultSchema = "public"
)

type PostgresDB struct {
	db     *sql.DB
	secret string
}

// Open prepares a pgx-backed pool without connecting.
func Open(dsn string) (*PostgresDB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: "empty connection string"}
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		// pgx already masks the password in parse errors.
		return nil, &db.ConfigurationError{Backend: Backend, Reason: err.Error()}
	}

	return &PostgresDB{db: stdlib.OpenDB(*cfg), secret: cfg.Password}, nil
}

func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	return db.Classify(p.db.PingContext(ctx), Backend, db.PingTarget, p.secret, classify)
}

func (p *PostgresDB) ReadRows(ctx context.Context, table, schema string, limit int) ([]db.Row, error) {
	t, err := db.Normalize(table, schema, DefaultSchema, limit)
	if err != nil {
		return nil, err
	}

	// pgx already hands back native Go values.
	rows, err := db.ReadScoped(ctx, p.db, selectStatement(t), t.Limit, nil, t.Limit)
	if err != nil {
		return nil, db.Classify(err, Backend, t, p.secret, classify)
	}
	return rows, nil
}

func quoteIdent(id string) string {
	return db.QuoteWith(id, '"', '"')
}

func selectStatement(t db.Target) string {
	return fmt.Sprintf("SELECT * FROM %s.%s LIMIT $1", quoteIdent(t.Schema), quoteIdent(t.Table))
}

func classify(err error) (db.DriverError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return db.DriverError{Code: pgErr.Code, Message: pgErr.Message}, true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return db.DriverError{Message: connErr.Error()}, true
	}

	return db.DriverError{}, false
}
