package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/runner"
	"github.com/roach88/loopy/internal/snap"
	"github.com/roach88/loopy/internal/testutil"
)

func mustRun(t *testing.T, s *runner.Session) *runner.Result {
	t.Helper()
	res, started := s.Run(context.Background())
	require.True(t, started)
	require.NotNil(t, res)
	return res
}

func TestStep_HeadingSetDoesNotMove(t *testing.T) {
	lvl := testutil.Grid(t, "S.G")
	st := runner.RunState{X: 0, Y: 0, Heading: program.HeadingRight, Status: runner.StatusRunning}

	st = runner.Step(lvl, st, program.KindPointDown)

	assert.Equal(t, 0, st.X)
	assert.Equal(t, 0, st.Y)
	assert.Equal(t, program.HeadingDown, st.Heading)
	assert.Equal(t, runner.StatusRunning, st.Status)
}

func TestStep_MoveForwardFollowsHeading(t *testing.T) {
	lvl := testutil.Grid(t,
		"...",
		"S.G",
		"...",
	)
	cases := []struct {
		heading program.Heading
		x, y    int
	}{
		{program.HeadingUp, 1, 0},
		{program.HeadingRight, 2, 1},
		{program.HeadingDown, 1, 2},
		{program.HeadingLeft, 0, 1},
	}
	for _, tc := range cases {
		st := runner.RunState{X: 1, Y: 1, Heading: tc.heading, Status: runner.StatusRunning}
		st = runner.Step(lvl, st, program.KindMoveForward)
		assert.Equal(t, tc.x, st.X, tc.heading)
		assert.Equal(t, tc.y, st.Y, tc.heading)
		assert.Equal(t, tc.heading, st.Heading, "move-forward never turns")
	}
}

func TestStep_LegacyMoveForcesHeading(t *testing.T) {
	lvl := testutil.Grid(t,
		"...",
		"S.G",
		"...",
	)
	st := runner.RunState{X: 1, Y: 1, Heading: program.HeadingRight, Status: runner.StatusRunning}

	st = runner.Step(lvl, st, program.KindMoveUp)

	assert.Equal(t, 1, st.X)
	assert.Equal(t, 0, st.Y)
	assert.Equal(t, program.HeadingUp, st.Heading, "legacy move reorients the actor")
}

func TestStep_WallCrashKeepsImpactPosition(t *testing.T) {
	lvl := testutil.Grid(t, "S#G")
	st := runner.RunState{X: 0, Y: 0, Heading: program.HeadingRight, Status: runner.StatusRunning}

	st = runner.Step(lvl, st, program.KindMoveForward)

	assert.Equal(t, runner.StatusCrash, st.Status)
	assert.Equal(t, 1, st.X, "the crash reports the tile the actor hit")
	assert.Equal(t, 0, st.Y)
}

func TestStep_BoundaryCrashAllFourSides(t *testing.T) {
	lvl := testutil.Grid(t,
		"G..",
		".S.",
		"...",
	)
	cases := []struct {
		heading program.Heading
		x, y    int
	}{
		{program.HeadingUp, 1, -1},
		{program.HeadingRight, 3, 1},
		{program.HeadingDown, 1, 3},
		{program.HeadingLeft, -1, 1},
	}
	for _, tc := range cases {
		st := runner.RunState{X: 1, Y: 1, Heading: tc.heading, Status: runner.StatusRunning}
		// Two steps: the first stays on the grid, the second leaves it.
		st = runner.Step(lvl, st, program.KindMoveForward)
		require.Equal(t, runner.StatusRunning, st.Status, tc.heading)
		st = runner.Step(lvl, st, program.KindMoveForward)
		assert.Equal(t, runner.StatusCrash, st.Status, tc.heading)
		assert.Equal(t, tc.x, st.X, tc.heading)
		assert.Equal(t, tc.y, st.Y, tc.heading)
	}
}

func TestRun_SuccessAtExactPar(t *testing.T) {
	lvl := testutil.MustLevel(t, 1) // 5 moves east to the goal, par 5
	p := testutil.NewProgram()
	testutil.Chain(t, p,
		program.KindPointRight,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
	)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	assert.Equal(t, runner.StatusSuccess, res.Status)
	assert.Equal(t, lvl.GoalX, res.X)
	assert.Equal(t, lvl.GoalY, res.Y)
	assert.Equal(t, program.HeadingRight, res.Heading)
	assert.Equal(t, 5, res.UsedCount)
	assert.Equal(t, 3, res.Stars)
	assert.Equal(t, runner.StatusSuccess, s.State().Status)
}

func TestRun_WallCrashStopsExecution(t *testing.T) {
	lvl := testutil.MustLevel(t, 2) // wall two tiles east of the start
	p := testutil.NewProgram()
	testutil.Chain(t, p,
		program.KindPointRight,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
	)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	assert.Equal(t, runner.StatusCrash, res.Status)
	assert.Equal(t, 2, res.X)
	assert.Equal(t, 1, res.Y)
	assert.Zero(t, res.Stars)
	assert.Len(t, res.Events, 3, "instructions after the crash never execute")
}

func TestRun_OffGoalFinishCrashes(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	testutil.Chain(t, p, program.KindPointRight, program.KindMoveForward)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	assert.Equal(t, runner.StatusCrash, res.Status, "stopping short of the goal is a crash outcome")
	assert.Equal(t, 1, res.X)
	assert.Equal(t, 1, res.Y)
	assert.Zero(t, res.Stars)
}

func TestRun_HeadingSetAsLastInstruction(t *testing.T) {
	lvl := testutil.Grid(t, "SG")
	p := testutil.NewProgram()
	testutil.Chain(t, p, program.KindMoveForward, program.KindPointUp)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	assert.Equal(t, runner.StatusSuccess, res.Status, "a trailing turn on the goal still succeeds")
	assert.Equal(t, program.HeadingUp, res.Heading)
}

func TestRun_EmptyProgramIgnored(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	s := runner.NewSession(lvl, testutil.NewProgram())

	res, started := s.Run(context.Background())

	assert.False(t, started)
	assert.Nil(t, res)
	assert.Equal(t, runner.StatusIdle, s.State().Status)
}

func TestRun_DisconnectedOnlyProgramIgnored(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	_, err := p.NewBlock(program.KindMoveForward, 500, 500)
	require.NoError(t, err)
	s := runner.NewSession(lvl, p)

	_, started := s.Run(context.Background())
	assert.False(t, started)
}

func TestRun_IgnoredWhileTerminal(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	testutil.Chain(t, p, program.KindMoveForward) // crashes off the west edge
	s := runner.NewSession(lvl, p)

	mustRun(t, s)
	require.Equal(t, runner.StatusCrash, s.State().Status)

	_, started := s.Run(context.Background())
	assert.False(t, started, "terminal sessions require Reset before running again")

	s.Reset()
	assert.Equal(t, runner.StatusIdle, s.State().Status)
	_, started = s.Run(context.Background())
	assert.True(t, started)
}

func TestReset_RestoresStartState(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	testutil.Chain(t, p, program.KindPointUp, program.KindMoveForward)
	s := runner.NewSession(lvl, p)
	mustRun(t, s)

	s.Reset()

	st := s.State()
	assert.Equal(t, lvl.StartX, st.X)
	assert.Equal(t, lvl.StartY, st.Y)
	assert.Equal(t, lvl.Heading, st.Heading)
	assert.Equal(t, runner.StatusIdle, st.Status)
}

func TestRun_RepeatProgramUnrolls(t *testing.T) {
	lvl := testutil.MustLevel(t, 3) // four tiles north, par 2
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindPointUp, program.KindRepeat)
	repeat := blocks[1]
	_, err := snap.Drop(p, program.KindMoveForward, repeat.X, repeat.Y+snap.BlockHeight)
	require.NoError(t, err)
	p.SetRepeatCount(repeat.ID, 4)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	assert.Equal(t, runner.StatusSuccess, res.Status)
	assert.Equal(t, 0, res.X)
	assert.Equal(t, 0, res.Y)
	assert.Equal(t, 2, res.UsedCount, "the repeat scores as a single block")
	assert.Equal(t, 3, res.Stars)
	assert.Len(t, res.Events, 5, "the trace records every unrolled step")
}

func TestRun_LegacyMovesCrossOldRoad(t *testing.T) {
	lvl := testutil.MustLevel(t, 4)
	p := testutil.NewProgram()
	testutil.Chain(t, p,
		program.KindMoveRight,
		program.KindMoveRight,
		program.KindMoveRight,
		program.KindMoveUp,
		program.KindMoveUp,
	)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	assert.Equal(t, runner.StatusSuccess, res.Status)
	assert.Equal(t, 3, res.X)
	assert.Equal(t, 0, res.Y)
	assert.Equal(t, program.HeadingUp, res.Heading)
	assert.Equal(t, 3, res.Stars)
}

func TestRun_TraceEventsAreSequential(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	testutil.Chain(t, p,
		program.KindPointRight,
		program.KindMoveForward,
		program.KindMoveForward,
	)
	s := runner.NewSession(lvl, p)

	res := mustRun(t, s)

	require.Len(t, res.Events, 3)
	for i, ev := range res.Events {
		assert.Equal(t, int64(i+1), ev.Seq)
	}
	assert.Equal(t, "point-right", res.Events[0].Op)
	assert.Equal(t, string(runner.StatusRunning), res.Events[0].Status)
}

func TestRun_CancelledContextSkipsPacing(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	testutil.Chain(t, p,
		program.KindPointRight,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
	)
	s := runner.NewSession(lvl, p, runner.WithStepDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	res, started := s.Run(ctx)
	require.True(t, started)
	require.NotNil(t, res)

	assert.Less(t, time.Since(start), time.Second, "cancellation abandons pacing immediately")
	assert.Equal(t, runner.StatusSuccess, res.Status, "the run itself still completes")
}

func TestStars_Thresholds(t *testing.T) {
	cases := []struct {
		used, par, want int
	}{
		{3, 5, 3},
		{5, 5, 3},
		{6, 5, 2},
		{7, 5, 2},
		{8, 5, 1},
		{20, 5, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, runner.Stars(tc.used, tc.par), "used=%d par=%d", tc.used, tc.par)
	}
}

func TestResult_Snapshot(t *testing.T) {
	lvl := testutil.MustLevel(t, 1)
	p := testutil.NewProgram()
	testutil.Chain(t, p, program.KindPointUp)
	s := runner.NewSession(lvl, p)
	res := mustRun(t, s)

	shot := res.Snapshot(lvl.ID)

	assert.Equal(t, 1, shot.Level)
	assert.Equal(t, string(res.Status), shot.Outcome.Status)
	assert.Equal(t, res.UsedCount, shot.Outcome.UsedCount)
	assert.Len(t, shot.Events, 1)
}

func TestClock_MonotonicSequence(t *testing.T) {
	c := runner.NewClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(3), c.Next())
}
