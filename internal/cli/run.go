package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/matchq/internal/query"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	QueryOptions
	StoreOptions
}

// RunResult holds the rows matched by a filter document.
type RunResult struct {
	Source string           `json:"source"`
	Count  int              `json:"count"`
	Rows   []map[string]any `json:"rows"`
}

// String renders the result for text output, one JSON object per row.
func (r RunResult) String() string {
	var sb strings.Builder
	for _, row := range r.Rows {
		line, err := json.Marshal(row)
		if err != nil {
			line = []byte(fmt.Sprint(row))
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d row(s) from %s", r.Count, r.Source)
	return sb.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <filter.yaml>",
		Short: "Run a filter document against a database",
		Long: `Run a YAML or JSON filter document against a registered table.

The table named by the document's source must have been created with
"matchq register". Rows are returned ordered by id.

Example:
  matchq run --db ./matchq.db filter.yaml
  matchq run --dialect postgres --db postgres://localhost/app filter.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "database path or DSN (required)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "database backend (sqlite|postgres|duckdb)")
	cmd.Flags().StringVar(&opts.Now, "now", "", "freeze the clock for relative dates (RFC 3339)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runFilter(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resolver, err := opts.resolver()
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}
	f, err := loadFilter(formatter, path)
	if err != nil {
		return err
	}
	q, err := query.FromFilter[map[string]any](f, resolver)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}

	slog.Info("opening database", "path", opts.Database, "dialect", opts.Dialect)
	st, err := opts.openStore(ctx)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, fmt.Errorf("failed to open database: %w", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if _, ok := st.Table(q.Source()); !ok {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("table %s is not registered", q.Source()), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: table %s is not registered", ErrCodeNotFound, q.Source()))
	}

	rows, err := st.FindRows(ctx, q)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, err)
	}
	formatter.VerboseLog("Matched %d row(s) in %s", len(rows), q.Source())

	return formatter.Success(RunResult{Source: q.Source(), Count: len(rows), Rows: rows})
}
