package runner

import (
	"github.com/roach88/loopy/internal/level"
	"github.com/roach88/loopy/internal/program"
)

// Status is the run state machine's position.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusCrash   Status = "crash"
)

// RunState is the actor's position, heading, and run status. It is a plain
// value threaded explicitly through Step, never ambient state, which keeps
// the interpreter unit-testable without any rendering harness.
type RunState struct {
	X, Y    int
	Heading program.Heading
	Status  Status
}

// startState derives a fresh running state from the level. Position and
// heading always come from the level, never from a previous run.
func startState(lvl *level.Level) RunState {
	return RunState{
		X:       lvl.StartX,
		Y:       lvl.StartY,
		Heading: lvl.Heading,
		Status:  StatusRunning,
	}
}

// Step applies one primitive instruction to a run state against a level and
// returns the new state.
//
//   - Heading-set kinds update the heading and do not move the actor; they do
//     not end the run even as the last instruction.
//   - move-forward displaces the actor one tile along the current heading.
//   - Legacy moves displace along a hardcoded direction and force the heading
//     to match, so the sprite still orients correctly on pre-heading levels.
//
// A move that leaves the grid or lands on a wall still updates the position
// (the display shows where the actor ended up) and crashes the run. Kinds
// that never appear in a compiled sequence (entry, repeat) are no-ops.
func Step(lvl *level.Level, st RunState, kind program.Kind) RunState {
	if h, ok := kind.SetsHeading(); ok {
		st.Heading = h
		return st
	}

	heading := st.Heading
	legacy := false
	if h, ok := kind.LegacyMove(); ok {
		heading = h
		legacy = true
	} else if kind != program.KindMoveForward {
		return st
	}

	dx, dy := heading.Delta()
	st.X += dx
	st.Y += dy
	if legacy {
		st.Heading = heading
	}

	if !lvl.InBounds(st.X, st.Y) || lvl.TileAt(st.X, st.Y) == level.TileWall {
		st.Status = StatusCrash
	}
	return st
}

// finish applies the terminal rule after the full sequence completed without
// crashing: success if and only if the actor sits exactly on the goal.
// Finishing a finite program off-target is itself a crash outcome, not a
// third state.
func finish(lvl *level.Level, st RunState) RunState {
	if st.X == lvl.GoalX && st.Y == lvl.GoalY {
		st.Status = StatusSuccess
	} else {
		st.Status = StatusCrash
	}
	return st
}
