package runner

import (
	"context"
	"time"

	"github.com/roach88/loopy/internal/compile"
	"github.com/roach88/loopy/internal/level"
	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/trace"
)

// Session owns one interactive play-through: a level, the program under
// edit, and the run state. All mutation is single-writer: gestures and run
// requests are dispatched one at a time by the consuming UI.
type Session struct {
	level *level.Level
	prog  *program.Program
	state RunState
	delay time.Duration
	clock *Clock
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStepDelay sets the pause between executed instructions. The delay is
// presentation pacing only; it never changes the outcome. Tests use 0.
func WithStepDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.delay = d
	}
}

// NewSession creates an idle session for a level and program.
func NewSession(lvl *level.Level, prog *program.Program, opts ...SessionOption) *Session {
	s := &Session{
		level: lvl,
		prog:  prog,
		state: RunState{X: lvl.StartX, Y: lvl.StartY, Heading: lvl.Heading, Status: StatusIdle},
		clock: NewClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current run state.
func (s *Session) State() RunState { return s.state }

// Program returns the program under edit.
func (s *Session) Program() *program.Program { return s.prog }

// Level returns the session's level.
func (s *Session) Level() *level.Level { return s.level }

// Reset returns a terminal session to idle, placing the actor back on the
// level's start with the configured initial heading. No-op while running.
func (s *Session) Reset() {
	if s.state.Status == StatusRunning {
		return
	}
	s.state = RunState{X: s.level.StartX, Y: s.level.StartY, Heading: s.level.Heading, Status: StatusIdle}
}

// Result is a completed run's report: terminal state, the block count the
// scoring rule saw, stars earned (0 unless the run succeeded), and the full
// step trace.
type Result struct {
	Status    Status
	X, Y      int
	Heading   program.Heading
	UsedCount int
	Stars     int
	Events    []trace.Event
}

// Snapshot converts the result to its trace form.
func (r *Result) Snapshot(levelID int) *trace.Snapshot {
	return &trace.Snapshot{
		Level:  levelID,
		Events: r.Events,
		Outcome: trace.Outcome{
			Status:    string(r.Status),
			X:         r.X,
			Y:         r.Y,
			Heading:   int(r.Heading),
			UsedCount: r.UsedCount,
			Stars:     r.Stars,
		},
	}
}

// Run executes the program's compiled sequence to a terminal status.
//
// started is false when the request is ignored: a run is already in flight,
// the session sits in a terminal status awaiting Reset, or nothing is
// attached to the entry marker (the status stays idle and no outcome is
// signaled).
//
// Context cancellation abandons pacing, not the run: remaining steps execute
// immediately without delay and the outcome still lands deterministically.
// There is no mid-run cancellation in the interpreter's contract.
func (s *Session) Run(ctx context.Context) (res *Result, started bool) {
	if s.state.Status != StatusIdle {
		return nil, false
	}
	seq := compile.Expand(s.prog)
	if len(seq) == 0 {
		return nil, false
	}

	s.state = startState(s.level)
	var events []trace.Event

	for _, kind := range seq {
		s.wait(ctx)
		s.state = Step(s.level, s.state, kind)
		events = append(events, trace.Event{
			Seq:     s.clock.Next(),
			Op:      kind.String(),
			X:       s.state.X,
			Y:       s.state.Y,
			Heading: int(s.state.Heading),
			Status:  string(s.state.Status),
		})
		if s.state.Status == StatusCrash {
			break
		}
	}
	if s.state.Status == StatusRunning {
		s.state = finish(s.level, s.state)
	}

	used := compile.UsedCount(s.prog)
	res = &Result{
		Status:    s.state.Status,
		X:         s.state.X,
		Y:         s.state.Y,
		Heading:   s.state.Heading,
		UsedCount: used,
		Events:    events,
	}
	if res.Status == StatusSuccess {
		res.Stars = Stars(used, s.level.Par)
	}
	return res, true
}

// wait pauses for the inter-step delay, or not at all once the context is
// cancelled.
func (s *Session) wait(ctx context.Context) {
	if s.delay <= 0 {
		return
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
}
