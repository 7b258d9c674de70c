package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/loopy/internal/progress"
)

// ProgressOptions holds flags for the progress command.
type ProgressOptions struct {
	*RootOptions
	Database string
}

// ProgressReport is the progress command's output payload.
type ProgressReport struct {
	Unlocked  []int       `json:"unlocked"`
	Stars     map[int]int `json:"stars"`
	LastLevel int         `json:"last_level"`
}

// NewProgressCommand creates the progress command and its reset subcommand.
func NewProgressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProgressOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show stored progress",
		Long: `Show the stored progress record: unlocked levels, best star ratings, and
the last-active level. A missing or unreadable database reads as the default
record (level 1 unlocked, no stars).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgress(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to progress database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newProgressResetCommand(opts))

	return cmd
}

func newProgressResetCommand(opts *ProgressOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Reset stored progress to the default record",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			store, err := progress.Open(opts.Database)
			if err != nil {
				return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to open progress database", err))
			}
			defer store.Close()
			if err := store.Clear(cmd.Context()); err != nil {
				return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to reset progress", err))
			}
			if opts.Format == "json" {
				return formatter.Success("progress reset")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "progress reset")
			return nil
		},
	}
}

func runProgress(opts *ProgressOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, err := progress.Open(opts.Database)
	if err != nil {
		return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to open progress database", err))
	}
	defer store.Close()

	p := store.Load(cmd.Context())
	report := ProgressReport{
		Stars:     p.Stars,
		LastLevel: p.LastLevel,
	}
	for id := range p.Unlocked {
		report.Unlocked = append(report.Unlocked, id)
	}
	sort.Ints(report.Unlocked)

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "last level: %d\n", report.LastLevel)
	fmt.Fprintf(cmd.OutOrStdout(), "unlocked:   %v\n", report.Unlocked)
	for _, id := range report.Unlocked {
		if best, ok := report.Stars[id]; ok {
			fmt.Fprintf(cmd.OutOrStdout(), "level %d: %d star(s)\n", id, best)
		}
	}
	return nil
}
