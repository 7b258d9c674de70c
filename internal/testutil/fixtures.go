// Package testutil provides deterministic fixtures shared by the simulator's
// tests: programs with sequential block ids, chains built through the real
// snapping engine, and ad-hoc grid levels.
package testutil

import (
	"testing"

	"github.com/roach88/loopy/internal/level"
	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/snap"
)

// NewProgram returns an empty program whose block ids are sequential
// ("block-0001", ...) so traces and assertions are reproducible. The entry
// marker is always block-0001.
func NewProgram() *program.Program {
	return program.New(program.NewFixedGenerator())
}

// Chain drops the given kinds one below another through the real snapping
// engine, building a connected top-level chain under the entry marker.
// Returns the dropped blocks in order.
func Chain(t *testing.T, p *program.Program, kinds ...program.Kind) []*program.Block {
	t.Helper()
	entry := p.Entry()
	x, y := entry.X, entry.Y
	blocks := make([]*program.Block, 0, len(kinds))
	for _, k := range kinds {
		y += snap.BlockHeight
		b, err := snap.Drop(p, k, x, y)
		if err != nil {
			t.Fatalf("drop %s: %v", k, err)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// Grid builds a level from row strings with sensible test defaults: id 99,
// heading east, the full modern palette, par 1.
func Grid(t *testing.T, rows ...string) *level.Level {
	t.Helper()
	lvl, err := level.NewLevel(99, "test grid", rows, program.HeadingRight,
		[]program.Kind{
			program.KindPointUp, program.KindPointRight,
			program.KindPointDown, program.KindPointLeft,
			program.KindMoveForward, program.KindRepeat,
		}, 1)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	return lvl
}

// GridWithHeading is Grid with an explicit initial heading.
func GridWithHeading(t *testing.T, heading program.Heading, rows ...string) *level.Level {
	t.Helper()
	lvl := Grid(t, rows...)
	lvl.Heading = heading
	return lvl
}

// MustLevel looks a level up in the embedded catalog, failing the test on
// unknown ids.
func MustLevel(t *testing.T, id int) *level.Level {
	t.Helper()
	catalog, err := level.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	lvl, err := catalog.Lookup(id)
	if err != nil {
		t.Fatalf("lookup level %d: %v", id, err)
	}
	return lvl
}
