package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/matchq/internal/entity"
)

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	StoreOptions
}

// TableDocument is the YAML form of a table registration. The tracked
// columns (id, created_on, version, ...) are always added first.
//
//	table: invoices
//	columns:
//	  - {name: customer, type: text}
//	  - {name: paid_on, type: timestamp, nullable: true}
//	  - {name: archived, type: bool, default: "false"}
type TableDocument struct {
	Table   string           `yaml:"table"`
	Columns []ColumnDocument `yaml:"columns"`
}

// ColumnDocument is one extra column of a TableDocument.
type ColumnDocument struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable,omitempty"`
	Default  string `yaml:"default,omitempty"`
}

// Config converts the document into an entity configuration.
func (d TableDocument) Config() entity.Config {
	extra := make([]entity.Column, len(d.Columns))
	for i, c := range d.Columns {
		extra[i] = entity.Column{
			Name:     c.Name,
			Type:     entity.ColumnType(c.Type),
			Nullable: c.Nullable,
			Default:  c.Default,
		}
	}
	return entity.NewConfig(d.Table, extra...)
}

// RegisterResult reports a registered table.
type RegisterResult struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}

// String renders the result for text output.
func (r RegisterResult) String() string {
	return fmt.Sprintf("✓ Registered %s (%d column(s))", r.Table, len(r.Columns))
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegisterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register <table.yaml>",
		Short: "Create a tracked table and record it in the catalog",
		Long: `Create a table from a YAML table document and record its column
types in the database catalog so that "matchq run" can decode its rows.

Registering the same table again with the same columns is a no-op.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "database path or DSN (required)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite", "database backend (sqlite|postgres|duckdb)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRegister(opts *RegisterOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return formatter.Fail(ErrCodeReadFailed, fmt.Errorf("read %s: %w", path, err))
	}
	var doc TableDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return formatter.Fail(ErrCodeReadFailed, fmt.Errorf("decode %s: %w", path, err))
	}
	cfg := doc.Config()

	st, err := opts.openStore(ctx)
	if err != nil {
		return formatter.Fail(ErrCodeStoreFailed, fmt.Errorf("failed to open database: %w", err))
	}
	defer st.Close()

	if err := st.Register(ctx, cfg); err != nil {
		return formatter.Fail(ErrCodeStoreFailed, err)
	}
	formatter.VerboseLog("Registered %s in %s", cfg.Table, opts.Database)

	return formatter.Success(RegisterResult{Table: cfg.Table, Columns: cfg.ColumnNames()})
}
