// Package runner executes compiled instruction sequences against a level
// grid.
//
// ARCHITECTURE:
//
// Single-writer step loop:
// A Session owns the run state and processes the compiled sequence strictly
// in order in the calling goroutine. There is no concurrency and no
// mid-run cancellation; once a run starts it reaches a terminal status. The
// inter-step delay exists only for animation pacing and never affects the
// outcome.
//
// State machine:
//
//	idle → running → {success | crash}
//	crash, success → idle (explicit Reset)
//
// Run requests are ignored while running, while the program is empty, and in
// a terminal status awaiting reset. idle → running always re-derives position
// and heading from the level, never from a previous run.
//
// World-rule violations (wall hits, out-of-bounds moves, finishing off the
// goal) are not errors. They are first-class crash outcomes, part of the
// puzzle's feedback loop.
//
// Every step is stamped with a monotonic seq from a logical clock. Order is
// never derived from wall-clock time.
package runner
