package mssql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/bgunnarsson/rowsql/internal/db"
)

const (
	Backend       = "SqlServer"
	DefaultSchema = "dbo"
)

type MssqlDB struct {
	db     *sql.DB
	secret string
}

// Open prepares a SQL Server pool without connecting.
// If the DSN contains "fedauth=", the Azure AD connector is used so things
// like ActiveDirectoryInteractive / AzCli work.
func Open(dsn string) (*MssqlDB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: "empty connection string"}
	}

	cfg, err := msdsn.Parse(dsn)
	if err != nil {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: "invalid connection string"}
	}

	var connector driver.Connector
	if strings.Contains(strings.ToLower(dsn), "fedauth=") {
		connector, err = azuread.NewConnector(dsn)
	} else {
		connector, err = mssqldb.NewConnector(dsn)
	}
	if err != nil {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: db.Redact(err.Error(), cfg.Password)}
	}

	return &MssqlDB{db: sql.OpenDB(connector), secret: cfg.Password}, nil
}

// --- db.Reader implementation ---

func (m *MssqlDB) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *MssqlDB) Ping(ctx context.Context) error {
	return db.Classify(m.db.PingContext(ctx), Backend, db.PingTarget, m.secret, classify)
}

func (m *MssqlDB) ReadRows(ctx context.Context, table, schema string, limit int) ([]db.Row, error) {
	t, err := db.Normalize(table, schema, DefaultSchema, limit)
	if err != nil {
		return nil, err
	}

	rows, err := db.ReadScoped(ctx, m.db, selectStatement(t), t.Limit, decodeValue, t.Limit)
	if err != nil {
		return nil, db.Classify(err, Backend, t, m.secret, classify)
	}
	return rows, nil
}

func quoteIdent(id string) string {
	return db.QuoteWith(id, '[', ']')
}

// selectStatement caps the row count with TOP, bound as @p1.
func selectStatement(t db.Target) string {
	return fmt.Sprintf("SELECT TOP (@p1) * FROM %s.%s", quoteIdent(t.Schema), quoteIdent(t.Table))
}

func classify(err error) (db.DriverError, bool) {
	var se mssqldb.Error
	if errors.As(err, &se) {
		return db.DriverError{
			Code:    strconv.Itoa(int(se.Number)),
			Message: se.Message,
		}, true
	}
	return db.DriverError{}, false
}

func decodeValue(dbType string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}

	switch dbType {
	case "uniqueidentifier":
		return formatUniqueIdentifier(b)
	case "decimal", "numeric", "money", "smallmoney":
		return string(b)
	default:
		return b
	}
}

// SQL Server stores the first three GUID groups little-endian.
func formatUniqueIdentifier(b []byte) string {
	if len(b) != 16 {
		return fmt.Sprintf("%x", b)
	}

	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	)
}
