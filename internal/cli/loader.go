package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/roach88/matchq/internal/match"
	"github.com/roach88/matchq/internal/querysql"
	"github.com/roach88/matchq/internal/reldate"
	"github.com/roach88/matchq/internal/store"
)

// QueryOptions holds the flags shared by commands that build a query.
type QueryOptions struct {
	// Now freezes the clock used for relative dates (RFC 3339). Empty reads
	// the system clock.
	Now string
}

// resolver returns the relative date resolver for the --now flag.
func (o QueryOptions) resolver() (*reldate.Resolver, error) {
	if o.Now == "" {
		return reldate.NewResolver(reldate.SystemClock{}), nil
	}
	now, err := time.Parse(time.RFC3339, o.Now)
	if err != nil {
		return nil, fmt.Errorf("invalid --now %q: want RFC 3339: %w", o.Now, err)
	}
	return reldate.NewResolver(reldate.ClockFunc(func() time.Time { return now })), nil
}

// loadFilter reads and parses a filter document.
func loadFilter(formatter *OutputFormatter, path string) (*match.Filter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("filter document not found: %s", path), nil)
			return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, err)
		}
		return nil, formatter.Fail(ErrCodeReadFailed, fmt.Errorf("read %s: %w", path, err))
	}
	formatter.VerboseLog("Read %d byte(s) from %s", len(data), path)

	f, err := match.ParseFilter(data)
	if err != nil {
		return nil, formatter.Fail(ErrCodeGeneric, err)
	}
	return f, nil
}

// StoreOptions holds the flags shared by commands that open a database.
type StoreOptions struct {
	Database string // SQLite/DuckDB path or PostgreSQL DSN
	Dialect  string
}

// openStore opens the database named by the flags.
func (o StoreOptions) openStore(ctx context.Context) (*store.Store, error) {
	d, err := querysql.ParseDialect(o.Dialect)
	if err != nil {
		return nil, err
	}
	switch d {
	case querysql.Postgres:
		return store.OpenPostgres(ctx, o.Database)
	case querysql.DuckDB:
		return store.OpenDuckDB(o.Database)
	default:
		return store.Open(o.Database)
	}
}
