package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/bgunnarsson/rowsql/internal/db"
)

// Backend covers MariaDB and MySQL; both speak the same protocol.
const Backend = "MariaDB"

type MysqlDB struct {
	db     *sql.DB
	secret string
}

// Open prepares a MariaDB pool without connecting. parseTime is forced on
// so DATETIME/TIMESTAMP columns decode as time.Time.
func Open(dsn string) (*MysqlDB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: "empty connection string"}
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: "invalid connection string"}
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, &db.ConfigurationError{Backend: Backend, Reason: db.Redact(err.Error(), cfg.Passwd)}
	}

	return &MysqlDB{db: sql.OpenDB(connector), secret: cfg.Passwd}, nil
}

// --- db.Reader implementation ---

func (m *MysqlDB) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *MysqlDB) Ping(ctx context.Context) error {
	return db.Classify(m.db.PingContext(ctx), Backend, db.PingTarget, m.secret, classify)
}

// ReadRows reads from the connection's current database when schema is
// empty; MariaDB has no default schema of its own.
func (m *MysqlDB) ReadRows(ctx context.Context, table, schema string, limit int) ([]db.Row, error) {
	t, err := db.Normalize(table, schema, "", limit)
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
	return db.QuoteWith(id, '`', '`')
}

func selectStatement(t db.Target) string {
	from := quoteIdent(t.Table)
	if t.Schema != "" {
		from = quoteIdent(t.Schema) + "." + from
	}
	return fmt.Sprintf("SELECT * FROM %s LIMIT ?", from)
}

func classify(err error) (db.DriverError, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return db.DriverError{
			Code:    strconv.Itoa(int(myErr.Number)),
			Message: myErr.Message,
		}, true
	}
	if errors.Is(err, mysql.ErrInvalidConn) {
		return db.DriverError{Message: err.Error()}, true
	}
	return db.DriverError{}, false
}

// MariaDB returns character data as []byte; only true binary stays bytes.
func decodeValue(dbType string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}

	switch dbType {
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob", "bit", "geometry":
		return b
	default:
		return string(b)
	}
}
