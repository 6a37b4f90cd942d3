// Package store executes compiled queries against a SQL database.
//
// Three backends are supported through database/sql:
//
//   - SQLite (github.com/mattn/go-sqlite3), the default, opened with WAL mode
//   - PostgreSQL (github.com/jackc/pgx/v5 via its stdlib adapter)
//   - DuckDB (github.com/marcboeker/go-duckdb)
//
// Tables are created from explicit entity.Config registrations and recorded
// in the matchq_tables catalog, so a reopened database knows the column
// types of every registered table.
//
// # Critical Patterns
//
// Deterministic results: every SELECT is compiled by querysql and ends with
// ORDER BY id.
//
// Parameterized values: filter values and inserted values are always bound
// parameters; identifiers are validated and quoted.
//
// # Database Configuration (SQLite)
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
