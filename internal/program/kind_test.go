package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind_KnownKinds(t *testing.T) {
	for _, name := range []string{
		"entry", "point-up", "point-right", "point-down", "point-left",
		"move-forward", "move-up", "move-down", "move-left", "move-right", "repeat",
	} {
		k, err := ParseKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, k.String())
	}
}

func TestParseKind_UnknownKind(t *testing.T) {
	_, err := ParseKind("teleport")
	assert.Error(t, err)
}

func TestInstantiable_EntryMarkerExcluded(t *testing.T) {
	assert.False(t, KindEntry.Instantiable())
	assert.True(t, KindRepeat.Instantiable())
	assert.True(t, KindMoveForward.Instantiable())
	assert.False(t, Kind("bogus").Instantiable())
}

func TestSetsHeading_Mapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want Heading
	}{
		{KindPointUp, HeadingUp},
		{KindPointRight, HeadingRight},
		{KindPointDown, HeadingDown},
		{KindPointLeft, HeadingLeft},
	}
	for _, tc := range cases {
		h, ok := tc.kind.SetsHeading()
		require.True(t, ok, tc.kind)
		assert.Equal(t, tc.want, h, tc.kind)
	}

	_, ok := KindMoveForward.SetsHeading()
	assert.False(t, ok)
}

func TestLegacyMove_Mapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want Heading
	}{
		{KindMoveUp, HeadingUp},
		{KindMoveRight, HeadingRight},
		{KindMoveDown, HeadingDown},
		{KindMoveLeft, HeadingLeft},
	}
	for _, tc := range cases {
		h, ok := tc.kind.LegacyMove()
		require.True(t, ok, tc.kind)
		assert.Equal(t, tc.want, h, tc.kind)
	}

	_, ok := KindMoveForward.LegacyMove()
	assert.False(t, ok, "move-forward reads the heading, it is not a legacy move")
}

func TestHeadingDelta(t *testing.T) {
	cases := []struct {
		h      Heading
		dx, dy int
	}{
		{HeadingUp, 0, -1},
		{HeadingRight, 1, 0},
		{HeadingDown, 0, 1},
		{HeadingLeft, -1, 0},
	}
	for _, tc := range cases {
		dx, dy := tc.h.Delta()
		assert.Equal(t, tc.dx, dx, tc.h)
		assert.Equal(t, tc.dy, dy, tc.h)
	}
}

func TestHeadingValid(t *testing.T) {
	assert.True(t, HeadingUp.Valid())
	assert.True(t, HeadingLeft.Valid())
	assert.False(t, Heading(45).Valid())
	assert.False(t, Heading(360).Valid())
}
