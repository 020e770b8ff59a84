package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/bgunnarsson/rowsql/internal/db"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rowsql.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
backend: Postgres
connection_strings:
  Postgres: postgres://app@localhost/app
  SqlServer: sqlserver://sa@localhost
log:
  level: debug
`)

	cfg, err := Load(path, true)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Backend, "Postgres")
	assert.Equal(t, cfg.Log.Level, "debug")

	dsn, err := cfg.ResolveConnectionString(BackendPostgres)
	assert.NilError(t, err)
	assert.Equal(t, dsn, "postgres://app@localhost/app")
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Load(missing, false)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Backend, "")

	_, err = Load(missing, true)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "backend: [unterminated")
	_, err := Load(path, true)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
backend: Postgres
connection_strings:
  MariaDB: app:old@tcp(localhost:3306)/app
`)
	t.Setenv("ROWSQL_BACKEND", "mysql")
	t.Setenv("ROWSQL_CONN_MARIADB", "app:new@tcp(db:3306)/app")
	t.Setenv("ROWSQL_SEQ_URL", "http://seq:5341")

	cfg, err := Load(path, true)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Log.SeqURL, "http://seq:5341")

	b, usedDefault, err := cfg.ActiveBackend()
	assert.NilError(t, err)
	assert.Assert(t, !usedDefault)
	assert.Equal(t, b, BackendMariaDB)

	dsn, err := cfg.ResolveConnectionString(b)
	assert.NilError(t, err)
	assert.Equal(t, dsn, "app:new@tcp(db:3306)/app")
}

func TestActiveBackendDefault(t *testing.T) {
	cfg := &Config{Backend: "  "}
	b, usedDefault, err := cfg.ActiveBackend()
	assert.NilError(t, err)
	assert.Assert(t, usedDefault)
	assert.Equal(t, b, BackendSqlServer)
}

func TestActiveBackendUnknown(t *testing.T) {
	cfg := &Config{Backend: "Oracle"}
	_, _, err := cfg.ActiveBackend()

	var cfgErr *db.ConfigurationError
	assert.Assert(t, errors.As(err, &cfgErr))
	assert.Equal(t, cfgErr.Backend, "Oracle")
}

func TestResolveConnectionStringMissing(t *testing.T) {
	cfg := &Config{ConnectionStrings: map[string]string{"SqlServer": "sqlserver://x", "Postgres": "  "}}

	for _, b := range []Backend{BackendMariaDB, BackendPostgres} {
		_, err := cfg.ResolveConnectionString(b)
		var cfgErr *db.ConfigurationError
		assert.Assert(t, errors.As(err, &cfgErr))
		assert.Equal(t, cfgErr.Backend, string(b))
		assert.ErrorContains(t, err, string(b))
	}
}

func TestResolveConnectionStringCaseInsensitive(t *testing.T) {
	cfg := &Config{ConnectionStrings: map[string]string{"sqlserver": "sqlserver://x"}}

	dsn, err := cfg.ResolveConnectionString(BackendSqlServer)
	assert.NilError(t, err)
	assert.Equal(t, dsn, "sqlserver://x")

	// blank identity falls back to the default backend
	dsn, err = cfg.ResolveConnectionString("")
	assert.NilError(t, err)
	assert.Equal(t, dsn, "sqlserver://x")
}

func TestParseBackend(t *testing.T) {
	cases := map[string]Backend{
		"SqlServer":  BackendSqlServer,
		"mssql":      BackendSqlServer,
		"POSTGRESQL": BackendPostgres,
		"pg":         BackendPostgres,
		" MariaDB ":  BackendMariaDB,
		"mysql":      BackendMariaDB,
		"sqlite3":    BackendSqlite,
	}
	for in, want := range cases {
		got, err := ParseBackend(in)
		assert.NilError(t, err, in)
		assert.Equal(t, got, want)
	}

	_, err := ParseBackend("db2")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestResolveConnectionStringSkipsBlankCaseDuplicate(t *testing.T) {
	cfg := &Config{ConnectionStrings: map[string]string{
		"postgres": "  ",
		"POSTGRES": "",
		"Postgres": "postgres://app@localhost/app",
	}}

	for range 20 {
		dsn, err := cfg.ResolveConnectionString(BackendPostgres)
		assert.NilError(t, err)
		assert.Equal(t, dsn, "postgres://app@localhost/app")
	}
}

func TestResolveConnectionStringCaseDuplicatesAreDeterministic(t *testing.T) {
	cfg := &Config{ConnectionStrings: map[string]string{
		"sqlite": "/tmp/lower.db",
		"SQLITE": "/tmp/upper.db",
	}}

	// no exact key; the first match in sorted key order wins every time
	for range 20 {
		dsn, err := cfg.ResolveConnectionString(BackendSqlite)
		assert.NilError(t, err)
		assert.Equal(t, dsn, "/tmp/upper.db")
	}
}
