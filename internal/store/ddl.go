package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/matchq/internal/entity"
	"github.com/roach88/matchq/internal/querysql"
)

// Register creates the table for cfg if it does not exist and records it in
// the catalog. Registering a table already in the catalog with identical
// columns is a no-op; different columns fail with entity.ErrDuplicateTable.
func (s *Store) Register(ctx context.Context, cfg entity.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if existing, ok := s.registry.Lookup(cfg.Table); ok {
		if sameColumns(existing.Columns, cfg.Columns) {
			return nil
		}
		return fmt.Errorf("register %s: %w with different columns", cfg.Table, entity.ErrDuplicateTable)
	}

	ddl, err := CreateTableSQL(s.dialect, cfg)
	if err != nil {
		return err
	}
	columnsJSON, err := json.Marshal(cfg.Columns)
	if err != nil {
		return fmt.Errorf("encode columns of %s: %w", cfg.Table, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register %s: %w", cfg.Table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", cfg.Table, err)
	}
	insert := fmt.Sprintf("INSERT INTO matchq_tables (name, columns) VALUES (%s, %s)",
		s.dialect.Placeholder(1), s.dialect.Placeholder(2))
	if _, err := tx.ExecContext(ctx, insert, cfg.Table, string(columnsJSON)); err != nil {
		return fmt.Errorf("record table %s: %w", cfg.Table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit register %s: %w", cfg.Table, err)
	}

	if err := s.registry.Register(cfg); err != nil {
		return err
	}
	slog.Debug("table registered", "table", cfg.Table, "dialect", s.dialect.String())
	return nil
}

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS for cfg in dialect d.
func CreateTableSQL(d querysql.Dialect, cfg entity.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	table, err := querysql.QuoteIdent(cfg.Table)
	if err != nil {
		return "", err
	}

	defs := make([]string, 0, len(cfg.Columns))
	for _, col := range cfg.Columns {
		name, err := querysql.QuoteIdent(col.Name)
		if err != nil {
			return "", err
		}
		def := name + " " + columnType(d, col.Type)
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		} else if !col.Nullable {
			def += " NOT NULL"
		}
		if col.Default != "" {
			def += " DEFAULT " + col.Default
		}
		defs = append(defs, def)
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", table, strings.Join(defs, ",\n    ")), nil
}

func columnType(d querysql.Dialect, t entity.ColumnType) string {
	switch d {
	case querysql.Postgres:
		switch t {
		case entity.TypeUUID:
			return "UUID"
		case entity.TypeTimestamp:
			return "TIMESTAMPTZ"
		case entity.TypeBool:
			return "BOOLEAN"
		case entity.TypeInt:
			return "BIGINT"
		}
		return "TEXT"
	case querysql.DuckDB:
		switch t {
		case entity.TypeTimestamp:
			return "TIMESTAMP"
		case entity.TypeBool:
			return "BOOLEAN"
		case entity.TypeInt:
			return "BIGINT"
		}
		return "VARCHAR"
	default:
		switch t {
		case entity.TypeTimestamp:
			return "TIMESTAMP"
		case entity.TypeBool:
			return "BOOLEAN"
		case entity.TypeInt:
			return "INTEGER"
		}
		return "TEXT"
	}
}

func sameColumns(a, b []entity.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
