// Package level provides the read-only puzzle level catalog.
//
// Levels are authored in CUE, embedded in the binary, and compiled at load
// time with schema validation. During play a Level is never mutated; the
// runner re-derives start position and heading from it on every run.
package level

import (
	"fmt"

	"github.com/roach88/loopy/internal/program"
)

// Tile is one cell of a level grid.
type Tile int

const (
	TileEmpty Tile = iota
	TileWall
	TileStart
	TileGoal
)

// Level is one puzzle definition.
//
// Tiles is row-major, indexed [y][x] with y increasing downward to match the
// runner's movement deltas.
type Level struct {
	ID     int
	Name   string
	Width  int
	Height int
	Tiles  [][]Tile

	StartX, StartY int
	GoalX, GoalY   int

	// Heading is the actor's initial facing; defaults to 90° (east) when the
	// level definition leaves it unspecified.
	Heading program.Heading

	// Palette lists the instruction kinds this level offers.
	Palette []program.Kind

	// Par is the designer's target block count, the 3-star threshold.
	Par int
}

// InBounds reports whether a grid coordinate lies on the level.
func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// TileAt returns the tile at a grid coordinate. Out-of-bounds coordinates
// read as empty; bounds violations are the runner's concern, not the grid's.
func (l *Level) TileAt(x, y int) Tile {
	if !l.InBounds(x, y) {
		return TileEmpty
	}
	return l.Tiles[y][x]
}

// Offers reports whether the level's palette includes the given kind.
func (l *Level) Offers(k program.Kind) bool {
	for _, pk := range l.Palette {
		if pk == k {
			return true
		}
	}
	return false
}

// NewLevel builds a level directly from row strings, outside the CUE catalog.
// The same grid rules apply: uniform rows, exactly one start and one goal.
func NewLevel(id int, name string, rows []string, heading program.Heading, palette []program.Kind, par int) (*Level, error) {
	if !heading.Valid() {
		return nil, fmt.Errorf("level %d: invalid heading %d", id, heading)
	}
	if par < 1 {
		return nil, fmt.Errorf("level %d: par must be positive", id)
	}
	lvl := &Level{ID: id, Name: name, Heading: heading, Palette: palette, Par: par}
	if err := lvl.parseRows(rows); err != nil {
		return nil, err
	}
	return lvl, nil
}

// tileRunes maps catalog row characters to tiles.
var tileRunes = map[rune]Tile{
	'.': TileEmpty,
	'#': TileWall,
	'S': TileStart,
	'G': TileGoal,
}

// parseRows converts the catalog's row strings into a tile grid and locates
// the start and goal cells. Every row must have the same width, and the grid
// must contain exactly one start and one goal.
func (l *Level) parseRows(rows []string) error {
	if len(rows) == 0 {
		return fmt.Errorf("level %d: empty grid", l.ID)
	}
	l.Height = len(rows)
	l.Width = len(rows[0])
	l.Tiles = make([][]Tile, l.Height)
	startSeen, goalSeen := false, false

	for y, row := range rows {
		if len(row) != l.Width {
			return fmt.Errorf("level %d: row %d has width %d, want %d", l.ID, y, len(row), l.Width)
		}
		l.Tiles[y] = make([]Tile, l.Width)
		for x, r := range row {
			t, ok := tileRunes[r]
			if !ok {
				return fmt.Errorf("level %d: unknown tile %q at (%d,%d)", l.ID, r, x, y)
			}
			l.Tiles[y][x] = t
			switch t {
			case TileStart:
				if startSeen {
					return fmt.Errorf("level %d: multiple start tiles", l.ID)
				}
				startSeen = true
				l.StartX, l.StartY = x, y
			case TileGoal:
				if goalSeen {
					return fmt.Errorf("level %d: multiple goal tiles", l.ID)
				}
				goalSeen = true
				l.GoalX, l.GoalY = x, y
			}
		}
	}
	if !startSeen {
		return fmt.Errorf("level %d: no start tile", l.ID)
	}
	if !goalSeen {
		return fmt.Errorf("level %d: no goal tile", l.ID)
	}
	return nil
}
