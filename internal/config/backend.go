package config

import (
	"strings"

	"github.com/bgunnarsson/rowsql/internal/db"
)

// Backend identifies the active database backend.
type Backend string

const (
	BackendSqlServer Backend = "SqlServer"
	BackendPostgres  Backend = "Postgres"
	BackendMariaDB   Backend = "MariaDB"
	BackendSqlite    Backend = "Sqlite"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendSqlServer

var backendAliases = map[string]Backend{
	"sqlserver":  BackendSqlServer,
	"mssql":      BackendSqlServer,
	"postgres":   BackendPostgres,
	"postgresql": BackendPostgres,
	"pg":         BackendPostgres,
	"mariadb":    BackendMariaDB,
	"mysql":      BackendMariaDB,
	"sqlite":     BackendSqlite,
	"sqlite3":    BackendSqlite,
}

// ParseBackend accepts any known identity or alias, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if b, ok := backendAliases[name]; ok {
		return b, nil
	}
	return "", &db.ConfigurationError{Backend: strings.TrimSpace(s), Reason: "unknown backend"}
}
