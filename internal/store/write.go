package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/matchq/internal/entity"
	"github.com/roach88/matchq/internal/querysql"
)

// Insert writes one row into a registered table. Columns are validated
// against the table's configuration; omitted columns take their defaults.
func (s *Store) Insert(ctx context.Context, table string, row map[string]any) error {
	cfg, ok := s.registry.Lookup(table)
	if !ok {
		return fmt.Errorf("insert into %s: table not registered", table)
	}

	names := slices.Sorted(maps.Keys(row))
	if len(names) == 0 {
		return fmt.Errorf("insert into %s: no columns", table)
	}

	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		if _, ok := cfg.Column(name); !ok {
			return fmt.Errorf("insert into %s: unknown column %q", table, name)
		}
		q, err := querysql.QuoteIdent(name)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		v, err := s.dialect.EncodeValue(row[name])
		if err != nil {
			return fmt.Errorf("insert into %s.%s: %w", table, name, err)
		}
		quoted[i] = q
		marks[i] = s.dialect.Placeholder(i + 1)
		args[i] = v
	}

	target, err := querysql.QuoteIdent(table)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		target, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// InsertTracked writes a tracked record: the audit columns of t plus extra.
func (s *Store) InsertTracked(ctx context.Context, table string, t entity.Tracked, extra map[string]any) error {
	row := t.Columns()
	for k, v := range extra {
		if _, ok := row[k]; ok {
			return fmt.Errorf("insert into %s: column %q is managed by the tracked base", table, k)
		}
		row[k] = v
	}
	return s.Insert(ctx, table, row)
}
