package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/loopy/internal/compile"
	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/snap"
	"github.com/roach88/loopy/internal/testutil"
)

func TestExpand_EmptyProgram(t *testing.T) {
	p := testutil.NewProgram()
	assert.Empty(t, compile.Expand(p))
	assert.Zero(t, compile.UsedCount(p))
}

func TestExpand_LinearChain(t *testing.T) {
	p := testutil.NewProgram()
	testutil.Chain(t, p,
		program.KindPointRight,
		program.KindMoveForward,
		program.KindMoveForward,
	)

	got := compile.Expand(p)
	want := []program.Kind{
		program.KindPointRight,
		program.KindMoveForward,
		program.KindMoveForward,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 3, compile.UsedCount(p))
}

func TestExpand_DisconnectedBlocksIgnored(t *testing.T) {
	p := testutil.NewProgram()
	testutil.Chain(t, p, program.KindMoveForward)
	_, err := p.NewBlock(program.KindPointUp, 500, 500)
	require.NoError(t, err)

	assert.Equal(t, []program.Kind{program.KindMoveForward}, compile.Expand(p))
	assert.Equal(t, 1, compile.UsedCount(p))
}

func TestExpand_RepeatUnrollsChildList(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindPointUp, program.KindRepeat)
	repeat := blocks[1]

	// Children hang below the repeat through the snap engine.
	_, err := snap.Drop(p, program.KindMoveForward, repeat.X, repeat.Y+snap.BlockHeight)
	require.NoError(t, err)
	p.SetRepeatCount(repeat.ID, 4)

	got := compile.Expand(p)
	want := []program.Kind{
		program.KindPointUp,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
		program.KindMoveForward,
	}
	assert.Equal(t, want, got)
}

func TestExpand_RepeatWithTwoChildrenKeepsOrder(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindRepeat)
	repeat := blocks[0]

	first, err := snap.Drop(p, program.KindMoveForward, repeat.X, repeat.Y+snap.BlockHeight)
	require.NoError(t, err)
	_, err = snap.Drop(p, program.KindPointLeft, first.X, first.Y+snap.BlockHeight)
	require.NoError(t, err)

	got := compile.Expand(p)
	want := []program.Kind{
		program.KindMoveForward, program.KindPointLeft,
		program.KindMoveForward, program.KindPointLeft,
	}
	assert.Equal(t, want, got)
}

func TestExpand_NestedRepeatsMultiply(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindRepeat)
	outer := blocks[0]

	inner, err := snap.Drop(p, program.KindRepeat, outer.X, outer.Y+snap.BlockHeight)
	require.NoError(t, err)
	_, err = snap.Drop(p, program.KindMoveForward, inner.X, inner.Y+snap.BlockHeight)
	require.NoError(t, err)
	p.SetRepeatCount(outer.ID, 3)
	p.SetRepeatCount(inner.ID, 2)

	got := compile.Expand(p)
	require.Len(t, got, 6)
	for _, k := range got {
		assert.Equal(t, program.KindMoveForward, k)
	}
}

func TestExpand_Pure(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindPointDown, program.KindRepeat)
	_, err := snap.Drop(p, program.KindMoveForward, blocks[1].X, blocks[1].Y+snap.BlockHeight)
	require.NoError(t, err)

	first := compile.Expand(p)
	second := compile.Expand(p)
	assert.Equal(t, first, second)
}

func TestExpand_TerminatesOnCorruptedChainCycle(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindMoveForward, program.KindMoveForward)
	// Violate acyclicity directly; the snap engine never produces this.
	blocks[1].Next = blocks[0].ID

	got := compile.Expand(p)
	assert.Len(t, got, 2, "expansion stops at the first revisited block")
	assert.Equal(t, 2, compile.UsedCount(p))
}

func TestExpand_TerminatesOnSelfContainingRepeat(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindRepeat)
	repeat := blocks[0]
	repeat.Children = []string{repeat.ID}

	assert.Empty(t, compile.Expand(p))
}

func TestUsedCount_RepeatCountsAsOneBlock(t *testing.T) {
	p := testutil.NewProgram()
	blocks := testutil.Chain(t, p, program.KindPointUp, program.KindRepeat)
	repeat := blocks[1]
	_, err := snap.Drop(p, program.KindMoveForward, repeat.X, repeat.Y+snap.BlockHeight)
	require.NoError(t, err)
	p.SetRepeatCount(repeat.ID, 9)

	assert.Equal(t, 2, compile.UsedCount(p), "children and count do not affect the block tally")
}
