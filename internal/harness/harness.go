package harness

import (
	"context"
	"fmt"

	"github.com/roach88/loopy/internal/compile"
	"github.com/roach88/loopy/internal/level"
	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/progress"
	"github.com/roach88/loopy/internal/runner"
	"github.com/roach88/loopy/internal/snap"
	"github.com/roach88/loopy/internal/trace"
)

// Result holds one scenario execution: the canonical trace snapshot, the
// progress record after applying the run's outcome, and any expectation
// failures.
type Result struct {
	Scenario string
	Snapshot *trace.Snapshot
	Progress *progress.Progress
	Errors   []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Errors) == 0 }

// AddError records one expectation failure.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Run executes a scenario against the embedded catalog.
//
// A returned error is a scenario defect (unknown level, malformed gesture);
// expectation mismatches land in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	catalog, err := level.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	lvl, err := catalog.Lookup(scenario.Level)
	if err != nil {
		return nil, err
	}

	prog := program.New(program.NewFixedGenerator())
	if err := snap.Apply(prog, scenario.Gestures); err != nil {
		return nil, err
	}

	session := runner.NewSession(lvl, prog)
	result := &Result{Scenario: scenario.Name}

	if scenario.Run {
		res, started := session.Run(context.Background())
		if started {
			result.Snapshot = res.Snapshot(lvl.ID)
		} else {
			// Ignored run request: status stays idle, no steps executed.
			result.Snapshot = idleSnapshot(lvl, session, prog)
		}
	} else {
		result.Snapshot = idleSnapshot(lvl, session, prog)
	}
	result.Snapshot.Scenario = scenario.Name

	// Apply the run's outcome to a fresh in-memory progress store so unlock
	// expectations exercise the real persistence rules.
	if err := recordProgress(result, catalog, lvl); err != nil {
		return nil, err
	}

	evaluate(result, scenario.Expect)
	return result, nil
}

// idleSnapshot reports a session that never ran: no events, idle outcome.
func idleSnapshot(lvl *level.Level, session *runner.Session, prog *program.Program) *trace.Snapshot {
	st := session.State()
	return &trace.Snapshot{
		Level: lvl.ID,
		Outcome: trace.Outcome{
			Status:    string(st.Status),
			X:         st.X,
			Y:         st.Y,
			Heading:   int(st.Heading),
			UsedCount: compile.UsedCount(prog),
		},
	}
}

func recordProgress(result *Result, catalog *level.Catalog, lvl *level.Level) error {
	store, err := progress.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open progress store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	p := store.Load(ctx)
	p.Visit(lvl.ID)
	if result.Snapshot.Outcome.Status == string(runner.StatusSuccess) {
		p.Record(lvl.ID, result.Snapshot.Outcome.Stars, catalog.Has)
	}
	if err := store.Save(ctx, p); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	result.Progress = store.Load(ctx)
	return nil
}

// evaluate checks the scenario's expectations against the outcome.
func evaluate(result *Result, expect *Expect) {
	if expect == nil {
		return
	}
	out := result.Snapshot.Outcome
	if expect.Status != "" && out.Status != expect.Status {
		result.AddError("status: got %q, want %q", out.Status, expect.Status)
	}
	checkInt := func(field string, got int, want *int) {
		if want != nil && got != *want {
			result.AddError("%s: got %d, want %d", field, got, *want)
		}
	}
	checkInt("x", out.X, expect.X)
	checkInt("y", out.Y, expect.Y)
	checkInt("heading", out.Heading, expect.Heading)
	checkInt("used_count", out.UsedCount, expect.UsedCount)
	checkInt("stars", out.Stars, expect.Stars)
	if expect.Unlocks != nil && !result.Progress.IsUnlocked(*expect.Unlocks) {
		result.AddError("unlocks: level %d is not unlocked", *expect.Unlocks)
	}
}
