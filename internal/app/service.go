package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bgunnarsson/rowsql/internal/db"
)

// Service validates list requests and hands them to the active reader.
// It holds no backend-specific state.
type Service struct {
	reader  db.TableReader
	backend string
	log     *slog.Logger
}

func NewService(r db.TableReader, backend string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: r, backend: backend, log: logger}
}

// ListRows returns up to limit rows of schema.table. A blank schema and a
// limit <= 0 are passed on as absent so the reader applies its defaults.
func (s *Service) ListRows(ctx context.Context, table, schema string, limit int) ([]db.Row, error) {
	start := time.Now()
	log := s.log.With("request_id", uuid.NewString(), "backend", s.backend)

	table = strings.TrimSpace(table)
	if table == "" {
		err := &db.InputError{Field: "table", Reason: "table name is required"}
		log.Warn("list rows rejected", "kind", Kind(err), "error", err)
		return nil, err
	}

	schema = strings.TrimSpace(schema)
	if limit < 0 {
		limit = 0
	}

	rows, err := s.reader.ReadRows(ctx, table, schema, limit)
	if err != nil {
		lvl := slog.LevelError
		if Kind(err) == KindInput {
			lvl = slog.LevelWarn
		}
		log.Log(ctx, lvl, "list rows failed", "table", table, "schema", schema, "kind", Kind(err), "error", err)
		return nil, err
	}

	log.Debug("list rows",
		"table", table,
		"schema", schema,
		"limit", limit,
		"rows", len(rows),
		"duration", time.Since(start),
	)
	return rows, nil
}

const (
	KindInput         = "input"
	KindConfiguration = "configuration"
	KindBackend       = "backend"
	KindUnexpected    = "unexpected"
)

// Kind names the taxonomy class of err. Errors outside the taxonomy are
// reported as unexpected.
func Kind(err error) string {
	var (
		inErr  *db.InputError
		cfgErr *db.ConfigurationError
		bqErr  *db.BackendQueryError
	)
	switch {
	case errors.As(err, &inErr):
		return KindInput
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &bqErr):
		return KindBackend
	default:
		return KindUnexpected
	}
}
