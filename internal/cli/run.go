package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/progress"
	"github.com/roach88/loopy/internal/runner"
	"github.com/roach88/loopy/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Trace    bool
	Delay    time.Duration

	// IDGenerator allows overriding the block id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator program.BlockIDGenerator
}

// RunReport is the run command's output payload.
type RunReport struct {
	Level     int    `json:"level"`
	Status    string `json:"status"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Heading   int    `json:"heading"`
	UsedCount int    `json:"used_count"`
	Stars     int    `json:"stars"`
	TraceID   string `json:"trace_id,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <program.yaml>",
		Short: "Run a program file against its level",
		Long: `Run a program file: replay its editor gestures, compile the block graph,
and execute the instruction sequence against the level grid.

With --db, a successful run records its star rating (best only improves) and
unlocks the next level. With --trace, the canonical run trace is printed to
stdout.

Example:
  loopy run solution.yaml
  loopy run solution.yaml --db ~/.loopy/progress.db --trace`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to progress database (optional)")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print the canonical run trace")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "pause between executed instructions")

	return cmd
}

func runProgram(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	catalog, err := loadCatalog()
	if err != nil {
		return reportError(formatter, err)
	}
	pf, err := LoadProgramFile(path)
	if err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d gesture(s) from %s", len(pf.Gestures), path)

	gen := opts.IDGenerator
	if gen == nil {
		gen = program.UUIDv7Generator{}
	}
	lvl, prog, err := pf.Build(catalog, gen)
	if err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Built program: level %d, %d block(s)", lvl.ID, prog.Len())

	slog.Debug("program built", "level", lvl.ID, "blocks", prog.Len())

	session := runner.NewSession(lvl, prog, runner.WithStepDelay(opts.Delay))
	res, started := session.Run(cmd.Context())
	if !started {
		// Nothing attached to the entry marker: a run request is a no-op.
		if err := formatter.Success("nothing to run: no blocks attached to the entry marker"); err != nil {
			return err
		}
		return nil
	}

	report := RunReport{
		Level:     lvl.ID,
		Status:    string(res.Status),
		X:         res.X,
		Y:         res.Y,
		Heading:   int(res.Heading),
		UsedCount: res.UsedCount,
		Stars:     res.Stars,
	}

	snapshot := res.Snapshot(lvl.ID)
	if id, err := trace.SnapshotID(snapshot); err == nil {
		report.TraceID = id
	}

	if opts.Database != "" {
		if err := persistResult(opts, cmd, catalog.Has, lvl.ID, res); err != nil {
			// Best-effort durability: losing the save never fails the run.
			slog.Error("failed to persist progress", "error", err)
		}
	}

	if opts.Trace {
		canonical, err := snapshot.MarshalCanonical()
		if err != nil {
			return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeGeneric, "failed to marshal trace", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(canonical))
	}

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "level %d: %s at (%d,%d) heading %d, %d block(s)",
			report.Level, report.Status, report.X, report.Y, report.Heading, report.UsedCount)
		if report.Stars > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", %d star(s)", report.Stars)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if res.Status == runner.StatusCrash {
		return NewExitError(ExitFailure, "run crashed")
	}
	return nil
}

// persistResult applies the run outcome to the progress database: marks the
// level active and, on success, records stars and unlocks the next level.
func persistResult(opts *RunOptions, cmd *cobra.Command, hasLevel func(int) bool, levelID int, res *runner.Result) error {
	store, err := progress.Open(opts.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	p := store.Load(ctx)
	p.Visit(levelID)
	if res.Status == runner.StatusSuccess {
		if p.Record(levelID, res.Stars, hasLevel) {
			slog.Info("new best", "level", levelID, "stars", res.Stars)
		}
	}
	return store.Save(ctx, p)
}
