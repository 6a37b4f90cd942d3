package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/matchq/internal/reldate"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	QueryOptions
	Offset   int
	TimeZone string
}

// ResolveResult is a resolved relative date.
type ResolveResult struct {
	Now      time.Time `json:"now"`
	Offset   int       `json:"offset"`
	TimeZone string    `json:"time_zone,omitempty"`
	Resolved time.Time `json:"resolved"`
}

// String renders the result for text output.
func (r ResolveResult) String() string {
	return r.Resolved.Format(time.RFC3339Nano)
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a relative day offset to an instant",
		Long: `Resolve "now plus N days" the way relative date ranges do.

Without --tz the offset is added to the current UTC time. With --tz the
offset is added to the zone's wall clock and the result is reported as UTC
with the same wall-clock reading.

Example:
  matchq resolve --offset -7
  matchq resolve --offset -7 --tz America/New_York --now 2024-06-15T12:00:00Z`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "day offset from now (required)")
	cmd.Flags().StringVar(&opts.TimeZone, "tz", "", "IANA time zone (default UTC)")
	cmd.Flags().StringVar(&opts.Now, "now", "", "freeze the clock (RFC 3339)")
	_ = cmd.MarkFlagRequired("offset")

	return cmd
}

func runResolve(opts *ResolveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	resolver, err := opts.resolver()
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}

	now := resolver.Now()
	offset := opts.Offset
	resolved, err := reldate.ResolveAt(now, &offset, opts.TimeZone)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err)
	}

	return formatter.Success(ResolveResult{
		Now:      now.UTC(),
		Offset:   offset,
		TimeZone: opts.TimeZone,
		Resolved: *resolved,
	})
}
