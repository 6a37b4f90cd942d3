package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/matchq/internal/entity"
	"github.com/roach88/matchq/internal/query"
	"github.com/roach88/matchq/internal/querysql"
)

// RowScanner decodes the current row of rows into a T.
type RowScanner[T any] func(rows *sql.Rows) (T, error)

// Find compiles q for the store's dialect, executes it and decodes each row
// with scan. Results are ordered by id.
//
// Returns an empty slice (not nil) when nothing matches.
func Find[T any](ctx context.Context, s *Store, q query.Query[T], scan RowScanner[T]) ([]T, error) {
	stmt, args, err := querysql.Compile(querysql.NewCompiler(s.dialect), q)
	if err != nil {
		return nil, err
	}
	slog.Debug("store query", "dialect", s.dialect.String(), "sql", stmt, "args", len(args))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Source(), err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Source(), err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", q.Source(), err)
	}
	return out, nil
}

// FindRows runs q against a registered table and returns each row as a
// column map with values decoded to their registered types: uuid.UUID,
// time.Time (UTC), bool, int64 or string. NULL columns map to nil.
func (s *Store) FindRows(ctx context.Context, q query.Query[map[string]any]) ([]map[string]any, error) {
	cfg, ok := s.registry.Lookup(q.Source())
	if !ok {
		return nil, fmt.Errorf("find in %s: table not registered", q.Source())
	}
	return Find(ctx, s, q, func(rows *sql.Rows) (map[string]any, error) {
		raw, err := ScanMap(rows)
		if err != nil {
			return nil, err
		}
		return decodeRow(cfg, raw)
	})
}

// ScanMap reads the current row into a map keyed by column name. []byte
// values are returned as strings.
func ScanMap(rows *sql.Rows) (map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = values[i]
	}
	return row, nil
}

func decodeRow(cfg entity.Config, raw map[string]any) (map[string]any, error) {
	row := make(map[string]any, len(raw))
	for name, v := range raw {
		col, ok := cfg.Column(name)
		if !ok || v == nil {
			row[name] = v
			continue
		}
		decoded, err := decodeValue(col.Type, v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		row[name] = decoded
	}
	return row, nil
}

func decodeValue(t entity.ColumnType, v any) (any, error) {
	switch t {
	case entity.TypeUUID:
		switch id := v.(type) {
		case uuid.UUID:
			return id, nil
		case [16]byte:
			return uuid.UUID(id), nil
		case string:
			return uuid.Parse(id)
		}
	case entity.TypeTimestamp:
		switch ts := v.(type) {
		case time.Time:
			return ts.UTC(), nil
		case string:
			parsed, err := time.ParseInLocation(querysql.SQLiteTimeFormat, ts, time.UTC)
			if err != nil {
				return time.Parse(time.RFC3339Nano, ts)
			}
			return parsed, nil
		}
	case entity.TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
	case entity.TypeInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		case int:
			return int64(n), nil
		case string:
			return strconv.ParseInt(n, 10, 64)
		}
	case entity.TypeText:
		switch s := v.(type) {
		case string:
			return s, nil
		case fmt.Stringer:
			return s.String(), nil
		}
	}
	return nil, fmt.Errorf("cannot decode %T as %s", v, t)
}
