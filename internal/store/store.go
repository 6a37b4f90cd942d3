package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/mattn/go-sqlite3"

	"github.com/roach88/matchq/internal/entity"
	"github.com/roach88/matchq/internal/expr"
	"github.com/roach88/matchq/internal/querysql"
)

//go:embed schema.sql
var schemaSQL string

// sqliteDriver is go-sqlite3 with querysql.FoldFunction registered on every
// connection, so folded comparisons agree with expr.Fold.
const sqliteDriver = "sqlite3_matchq"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(querysql.FoldFunction, expr.Fold, true)
		},
	})
}

// Schema version tracking (SQLite user_version):
// 1 - matchq_tables catalog
const currentSchemaVersion = 1

// Store executes compiled queries against one database.
type Store struct {
	db       *sql.DB
	dialect  querysql.Dialect
	registry *entity.Registry
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the catalog schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("set user_version: %w", err)
	}

	return newStore(context.Background(), db, querysql.SQLite)
}

// OpenPostgres connects to PostgreSQL through pgx.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return newStore(ctx, db, querysql.Postgres)
}

// OpenDuckDB opens a DuckDB database file. An empty path opens an in-memory
// database.
func OpenDuckDB(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to duckdb: %w", err)
	}
	return newStore(context.Background(), db, querysql.DuckDB)
}

func newStore(ctx context.Context, db *sql.DB, dialect querysql.Dialect) (*Store, error) {
	s := &Store{db: db, dialect: dialect, registry: entity.NewRegistry()}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := s.loadCatalog(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect of the backend.
func (s *Store) Dialect() querysql.Dialect {
	return s.dialect
}

// Tables returns the registered table configurations.
func (s *Store) Tables() []entity.Config {
	return s.registry.All()
}

// Table returns the configuration of a registered table.
func (s *Store) Table(name string) (entity.Config, bool) {
	return s.registry.Lookup(name)
}

// loadCatalog registers every table recorded in matchq_tables.
func (s *Store) loadCatalog(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, columns FROM matchq_tables ORDER BY name`)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, columnsJSON string
		if err := rows.Scan(&name, &columnsJSON); err != nil {
			return fmt.Errorf("scan catalog: %w", err)
		}
		cfg := entity.Config{Table: name}
		if err := json.Unmarshal([]byte(columnsJSON), &cfg.Columns); err != nil {
			return fmt.Errorf("decode catalog entry %s: %w", name, err)
		}
		if err := s.registry.Register(cfg); err != nil {
			return fmt.Errorf("load catalog entry %s: %w", name, err)
		}
		slog.Debug("catalog table loaded", "table", name, "columns", len(cfg.Columns))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate catalog: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
