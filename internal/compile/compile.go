// Package compile flattens a block program into the linear instruction
// sequence the runner executes.
package compile

import "github.com/roach88/loopy/internal/program"

// Expand walks the chain attached to the entry marker and produces the
// primitive instruction sequence, unrolling each repeat block's child list
// count times, in order. Nested repeats unroll recursively.
//
// A visited set guards the walk: the snapping engine keeps the graph acyclic,
// but if that invariant is ever violated, expansion stops at the repeated
// block instead of looping forever. Expansion is pure: calling it twice on an
// unchanged program yields identical sequences.
//
// A program with nothing attached to the entry marker expands to an empty
// sequence.
func Expand(p *program.Program) []program.Kind {
	var out []program.Kind
	visited := make(map[string]bool)

	for cur := p.Entry().Next; cur != ""; {
		b := p.Find(cur)
		if b == nil || visited[b.ID] {
			break
		}
		visited[b.ID] = true

		switch b.Kind {
		case program.KindRepeat:
			for i := 0; i < b.Count; i++ {
				for _, child := range b.Children {
					expandChild(p, child, visited, &out)
				}
			}
		case program.KindEntry:
			// Unreachable from a well-formed chain; never expanded.
		default:
			out = append(out, b.Kind)
		}
		cur = b.Next
	}
	return out
}

// expandChild emits one repeat child. The visited guard applies only to the
// structural walk, not to repeated unrolling, so a child seen on a previous
// iteration of the same repeat still emits; a child that structurally contains
// itself does not.
func expandChild(p *program.Program, id string, visited map[string]bool, out *[]program.Kind) {
	b := p.Find(id)
	if b == nil {
		return
	}
	switch b.Kind {
	case program.KindRepeat:
		if visited[b.ID] {
			return
		}
		visited[b.ID] = true
		for i := 0; i < b.Count; i++ {
			for _, child := range b.Children {
				expandChild(p, child, visited, out)
			}
		}
		delete(visited, b.ID)
	case program.KindEntry:
		// The entry marker is never expanded.
	default:
		*out = append(*out, b.Kind)
	}
}

// UsedCount reports how many instruction blocks hang off the entry marker at
// the top level, the number the scoring rule compares against a level's par.
// A repeat block counts as one regardless of its children or count, matching
// how the editor counts placed blocks. The entry marker itself is not counted.
//
// Traversal is bounded the same way Expand is.
func UsedCount(p *program.Program) int {
	count := 0
	visited := make(map[string]bool)
	for cur := p.Entry().Next; cur != ""; {
		b := p.Find(cur)
		if b == nil || visited[b.ID] {
			break
		}
		visited[b.ID] = true
		count++
		cur = b.Next
	}
	return count
}
