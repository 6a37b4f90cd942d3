// Package querysql translates queries into parameterized SQL.
//
// A query.Query's predicate tree is rendered as a WHERE clause for one of the
// supported dialects (SQLite, PostgreSQL, DuckDB). Every constant becomes a
// bound parameter; values are never interpolated into the SQL text, and
// identifiers are validated and quoted.
//
// Every statement carries an ORDER BY on the id column so results are
// deterministic across runs and backends.
//
// Case-insensitive comparisons fold the column in SQL and compare it with a
// parameter folded in Go with expr.Fold. The column fold is locale
// independent on every dialect: matchq_fold on SQLite (registered by the
// store), NFC plus the ICU root collation on PostgreSQL, NFC_NORMALIZE plus
// LOWER on DuckDB. Prefix and substring tests render as LIKE with an escaped
// pattern.
package querysql
