package snap

import (
	"fmt"

	"github.com/roach88/loopy/internal/program"
)

// Drop handles the "new block from palette dropped at workspace (x, y)"
// event: it creates the block and runs the attach decision.
//
// Returns an error only for non-instantiable kinds, which indicates a palette
// or file defect rather than a recoverable gesture.
func Drop(p *program.Program, kind program.Kind, x, y float64) (*program.Block, error) {
	b, err := p.NewBlock(kind, x, y)
	if err != nil {
		return nil, err
	}
	Attach(p, b.ID, x, y)
	return b, nil
}

// Move handles the "existing block relocated to workspace (x, y)" event.
// Unknown ids are silent no-ops.
func Move(p *program.Program, id string, x, y float64) {
	Attach(p, id, x, y)
}

// Gesture is one editor event in a recorded program file. Exactly one field
// is set. Drop creates a block; the other gestures address earlier drops by
// zero-based drop index.
type Gesture struct {
	Drop     *DropGesture     `yaml:"drop,omitempty"`
	Move     *MoveGesture     `yaml:"move,omitempty"`
	SetCount *SetCountGesture `yaml:"set_count,omitempty"`
	Remove   *RemoveGesture   `yaml:"remove,omitempty"`
}

// DropGesture places a new palette block at a workspace coordinate.
type DropGesture struct {
	Kind string  `yaml:"kind"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// MoveGesture relocates an earlier drop (and its stack) to a new coordinate.
type MoveGesture struct {
	Ref int     `yaml:"ref"`
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
}

// SetCountGesture edits a repeat block's count.
type SetCountGesture struct {
	Ref   int `yaml:"ref"`
	Count int `yaml:"count"`
}

// RemoveGesture deletes an earlier drop from the workspace.
type RemoveGesture struct {
	Ref int `yaml:"ref"`
}

// Apply replays recorded gestures against a program through the same code
// paths interactive editing uses. Malformed gestures (unknown kinds, refs
// outside the drop history, empty gestures) are file defects and return
// errors; in-bounds gestures that merely fail to snap follow the engine's
// silent no-op rule.
func Apply(p *program.Program, gestures []Gesture) error {
	var dropped []string
	resolve := func(ref int) (string, error) {
		if ref < 0 || ref >= len(dropped) {
			return "", fmt.Errorf("gesture ref %d out of range (%d drops so far)", ref, len(dropped))
		}
		return dropped[ref], nil
	}

	for i, g := range gestures {
		switch {
		case g.Drop != nil:
			kind, err := program.ParseKind(g.Drop.Kind)
			if err != nil {
				return fmt.Errorf("gesture %d: %w", i, err)
			}
			b, err := Drop(p, kind, g.Drop.X, g.Drop.Y)
			if err != nil {
				return fmt.Errorf("gesture %d: %w", i, err)
			}
			dropped = append(dropped, b.ID)
		case g.Move != nil:
			id, err := resolve(g.Move.Ref)
			if err != nil {
				return fmt.Errorf("gesture %d: %w", i, err)
			}
			Move(p, id, g.Move.X, g.Move.Y)
		case g.SetCount != nil:
			id, err := resolve(g.SetCount.Ref)
			if err != nil {
				return fmt.Errorf("gesture %d: %w", i, err)
			}
			p.SetRepeatCount(id, g.SetCount.Count)
		case g.Remove != nil:
			id, err := resolve(g.Remove.Ref)
			if err != nil {
				return fmt.Errorf("gesture %d: %w", i, err)
			}
			p.Remove(id)
		default:
			return fmt.Errorf("gesture %d: no gesture field set", i)
		}
	}
	return nil
}
