package querysql

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/matchq/internal/entity"
)

// Dialect selects placeholder syntax and value encoding.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
	DuckDB
)

// SQLiteTimeFormat is the text encoding of timestamps stored in SQLite.
// Fixed-width UTC text sorts in time order, so range comparisons work on the
// stored strings. go-sqlite3 parses it back into time.Time for TIMESTAMP
// columns.
const SQLiteTimeFormat = "2006-01-02 15:04:05.000000000"

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	case DuckDB:
		return "duckdb"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect maps a dialect name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return 0, fmt.Errorf("unknown SQL dialect %q", name)
	}
}

// Placeholder returns the marker for the n-th (1-based) parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// QuoteIdent validates name as a plain identifier and double-quotes it.
func QuoteIdent(name string) (string, error) {
	if !entity.ValidIdentifier(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// FoldFunction is the SQLite function that folds case the way expr.Fold
// does. Connections must register it; store.Open does.
const FoldFunction = "matchq_fold"

// fold renders the case fold of a column expression.
//
// SQLite's built-in lower() only folds ASCII, so it calls FoldFunction.
// PostgreSQL normalizes to NFC and lowers under the ICU root collation, and
// DuckDB normalizes with nfc_normalize and lowers with its bundled Unicode
// tables; neither depends on the server locale.
func (d Dialect) fold(col string) string {
	switch d {
	case Postgres:
		return `LOWER(NORMALIZE(` + col + `, NFC) COLLATE "und-x-icu")`
	case DuckDB:
		return "LOWER(NFC_NORMALIZE(" + col + "))"
	default:
		return FoldFunction + "(" + col + ")"
	}
}

// orderBy returns the stable ordering clause on the id column.
func (d Dialect) orderBy() string {
	if d == SQLite {
		// COLLATE BINARY keeps text ordering identical across SQLite builds.
		return `"id" ASC COLLATE BINARY`
	}
	return `"id" ASC`
}

// EncodeTime converts a timestamp into the dialect's parameter form.
func (d Dialect) EncodeTime(t time.Time) any {
	if d == SQLite {
		return t.UTC().Format(SQLiteTimeFormat)
	}
	return t.UTC()
}

// EncodeValue converts a Go value into a driver parameter for d.
//
// Pointers are dereferenced (nil becomes NULL), timestamps use EncodeTime,
// UUIDs are sent as their canonical string, and integer and float kinds are
// widened to int64 and float64.
func (d Dialect) EncodeValue(v any) (any, error) {
	switch c := deref(v).(type) {
	case nil:
		return nil, nil
	case time.Time:
		return d.EncodeTime(c), nil
	case uuid.UUID:
		return c.String(), nil
	case string, bool, int64, float64:
		return c, nil
	case int:
		return int64(c), nil
	case int32:
		return int64(c), nil
	case float32:
		return float64(c), nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", v)
	}
}

func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}
