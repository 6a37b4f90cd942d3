package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/matchq/internal/query"
	"github.com/roach88/matchq/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	QueryOptions
	Dialect string
	Columns []string
}

// CompilationResult is the rendered form of a filter document.
type CompilationResult struct {
	Source    string `json:"source"`
	Predicate string `json:"predicate"`
	Dialect   string `json:"dialect"`
	SQL       string `json:"sql"`
	Args      []any  `json:"args"`
}

// String renders the result for text output.
func (r CompilationResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- %s\n", r.Predicate)
	sb.WriteString(r.SQL)
	for i, arg := range r.Args {
		fmt.Fprintf(&sb, "\n-- $%d = %v (%T)", i+1, arg, arg)
	}
	return sb.String()
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <filter.yaml>",
		Short: "Compile a filter document to SQL",
		Long: `Compile a YAML or JSON filter document to a predicate and a
parameterized SELECT statement.

Relative date ranges are resolved against the current time, or against
--now when given.

Example:
  matchq compile filter.yaml
  matchq compile --dialect postgres --now 2024-06-15T12:00:00Z filter.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "SQL dialect (sqlite|postgres|duckdb)")
	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "select list (default *)")
	cmd.Flags().StringVar(&opts.Now, "now", "", "freeze the clock for relative dates (RFC 3339)")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	dialect, err := querysql.ParseDialect(opts.Dialect)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
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
	formatter.VerboseLog("Built %d filter(s) on %s", len(q.Conjuncts()), q.Source())

	compiler := querysql.NewCompiler(dialect)
	compiler.Columns = opts.Columns
	stmt, args, err := querysql.Compile(compiler, q)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}
	if args == nil {
		args = []any{}
	}

	return formatter.Success(CompilationResult{
		Source:    q.Source(),
		Predicate: q.Predicate().String(),
		Dialect:   dialect.String(),
		SQL:       stmt,
		Args:      args,
	})
}
