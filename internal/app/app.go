package app

import (
	"log/slog"

	"github.com/bgunnarsson/rowsql/internal/config"
	"github.com/bgunnarsson/rowsql/internal/db"
	"github.com/bgunnarsson/rowsql/internal/db/mssql"
	"github.com/bgunnarsson/rowsql/internal/db/mysql"
	"github.com/bgunnarsson/rowsql/internal/db/postgres"
	"github.com/bgunnarsson/rowsql/internal/db/sqlite"
)

// Factory builds a backend adapter from its connection string.
type Factory func(dsn string) (db.Reader, error)

// central registry; adding a backend means adding an entry here
var factories = map[config.Backend]Factory{
	config.BackendSqlServer: func(dsn string) (db.Reader, error) { return mssql.Open(dsn) },
	config.BackendPostgres:  func(dsn string) (db.Reader, error) { return postgres.Open(dsn) },
	config.BackendMariaDB:   func(dsn string) (db.Reader, error) { return mysql.Open(dsn) },
	config.BackendSqlite:    func(dsn string) (db.Reader, error) { return sqlite.Open(dsn) },
}

// OpenReader resolves the connection string for b and builds its adapter.
func OpenReader(cfg *config.Config, b config.Backend) (db.Reader, error) {
	factory, ok := factories[b]
	if !ok {
		return nil, &db.ConfigurationError{Backend: string(b), Reason: "no adapter registered"}
	}

	dsn, err := cfg.ResolveConnectionString(b)
	if err != nil {
		return nil, err
	}

	return factory(dsn)
}

// Open builds the Service for the configured backend. Callers must Close
// the returned reader when done.
func Open(cfg *config.Config, logger *slog.Logger) (*Service, db.Reader, error) {
	b, usedDefault, err := cfg.ActiveBackend()
	if err != nil {
		return nil, nil, err
	}
	if usedDefault {
		logger.Warn("no backend configured, using default", "backend", b)
	}

	r, err := OpenReader(cfg, b)
	if err != nil {
		return nil, nil, err
	}

	return NewService(r, string(b), logger), r, nil
}
