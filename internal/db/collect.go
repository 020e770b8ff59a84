package db

import (
	"context"
	"database/sql"
	"strings"
)

// ValueFunc converts a non-NULL driver value for a column whose database
// type name is dbType (lower case). It is never called with nil.
type ValueFunc func(dbType string, v any) any

// ReadScoped runs query on a connection taken from pool for this call only
// and collects at most limit rows. The connection goes back to the driver
// on every return path.
func ReadScoped(ctx context.Context, pool *sql.DB, query string, limit int, convert ValueFunc, args ...any) ([]Row, error) {
	conn, err := pool.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return Collect(rows, limit, convert)
}

// Collect drains rows into Row values, reading each column name once.
// On any error it returns no rows at all.
func Collect(rows *sql.Rows, limit int, convert ValueFunc) ([]Row, error) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	types := make([]string, len(colNames))
	for i := range colNames {
		if i < len(colTypes) && colTypes[i] != nil {
			types[i] = strings.ToLower(colTypes[i].DatabaseTypeName())
		}
	}

	data := []Row{}
	for rows.Next() {
		if limit > 0 && len(data) >= limit {
			break
		}

		values := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		if convert != nil {
			for i, v := range values {
				if v == nil {
					continue
				}
				values[i] = convert(types[i], v)
			}
		}

		data = append(data, NewRow(colNames, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return data, nil
}
