package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Source  string `json:"source"`
	Strings int    `json:"strings"`
	Dates   int    `json:"dates"`
	Bools   int    `json:"bools"`
	IDs     int    `json:"ids"`
}

// String renders the result for text output.
func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ Filter on %s is valid (%d string, %d date, %d bool, %d id)",
		r.Source, r.Strings, r.Dates, r.Bools, r.IDs)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <filter.yaml>",
		Short: "Validate a filter document without compiling it",
		Long: `Validate a YAML or JSON filter document.

Checks that every match selects exactly one kind, that every date range
selects exactly one range type, that dates parse, and that the document
matches the filter schema. Relative dates are not resolved, so unknown time
zones are reported by compile and run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	f, err := loadFilter(formatter, path)
	if err != nil {
		return err
	}

	return formatter.Success(ValidationResult{
		Valid:   true,
		Source:  f.Source,
		Strings: len(f.Strings),
		Dates:   len(f.Dates),
		Bools:   len(f.Bools),
		IDs:     len(f.Base.IDs),
	})
}
