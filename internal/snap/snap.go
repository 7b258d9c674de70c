package snap

import (
	"math"

	"github.com/roach88/loopy/internal/program"
)

// Workspace geometry, in presentation pixels.
const (
	// BlockHeight is the vertical extent of one block; snapped blocks
	// interlock with zero visual gap.
	BlockHeight = 40.0

	// SnapVerticalDistance is how close (vertically) a dragged block's top
	// edge must be to a candidate's bottom edge to snap.
	SnapVerticalDistance = 20.0

	// SnapHorizontalTolerance is how far the dragged block may be offset
	// sideways from a candidate and still snap.
	SnapHorizontalTolerance = 40.0
)

// Attach places the block at (x, y) and attaches it beneath the nearest
// eligible snap target, if any. The moved block's downstream stack follows it.
//
// The entry marker never attaches; moving it only updates stored positions.
// If no target is eligible the block becomes a disconnected root at the raw
// dropped coordinates.
func Attach(p *program.Program, id string, x, y float64) {
	b := p.Find(id)
	if b == nil {
		return
	}
	p.TranslateStack(id, x-b.X, y-b.Y)
	if b.IsEntry() {
		return
	}

	// A move always starts from a disconnected state: collect the stack while
	// its links are intact, then sever every edge between the stack's head and
	// the rest of the graph.
	stack := p.CollectStack(id)
	p.DetachHead(id)

	target := findTarget(p, b)
	if target == nil {
		return
	}

	if repeatID := owningRepeat(target); repeatID != "" {
		attachIntoRepeat(p, repeatID, target, stack)
		return
	}
	splice(p, target, stack)
}

// findTarget returns the eligible candidate minimizing Euclidean distance, or
// nil. Candidates exclude the moved block and its full descendant closure
// (next-chain and nested repeat children) so an attach can never form a cycle.
// Ties go to the first candidate in insertion order.
func findTarget(p *program.Program, b *program.Block) *program.Block {
	excluded := descendantClosure(p, b)

	var best *program.Block
	bestDist := math.Inf(1)
	for _, c := range p.Blocks() {
		if excluded[c.ID] {
			continue
		}
		dx := b.X - c.X
		dy := b.Y - (c.Y + BlockHeight)
		if math.Abs(dy) > SnapVerticalDistance || math.Abs(dx) > SnapHorizontalTolerance {
			continue
		}
		if d := math.Hypot(dx, dy); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// descendantClosure returns the moved block and everything reachable from it
// via Next links or repeat child lists.
func descendantClosure(p *program.Program, b *program.Block) map[string]bool {
	closure := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		blk := p.Find(id)
		if blk == nil || closure[id] {
			return
		}
		closure[id] = true
		visit(blk.Next)
		for _, c := range blk.Children {
			visit(c)
		}
	}
	visit(b.ID)
	return closure
}

// owningRepeat resolves which repeat's child list an attach to this target
// lands in: the target itself if it is a repeat, the target's parent repeat if
// the target is nested, otherwise none.
func owningRepeat(target *program.Block) string {
	if target.Kind == program.KindRepeat {
		return target.ID
	}
	if target.ParentRepeat != "" {
		return target.ParentRepeat
	}
	return ""
}

// attachIntoRepeat appends the moved stack to the repeat's child list in chain
// order. Child ordering is carried by the list, not Next links, so each
// member's chain pointers are cleared; Prev tracks the block it visually hangs
// below.
func attachIntoRepeat(p *program.Program, repeatID string, target *program.Block, stack []*program.Block) {
	parent := p.Find(repeatID)
	if parent == nil {
		return
	}
	prev := target
	for _, m := range stack {
		m.Prev = prev.ID
		m.Next = ""
		m.ParentRepeat = repeatID
		m.X = prev.X
		m.Y = prev.Y + BlockHeight
		parent.Children = append(parent.Children, m.ID)
		prev = m
	}
}

// splice inserts the moved stack into the top-level chain directly below the
// target. The target's previous downstream neighbor reattaches beneath the
// stack's tail, preserving it when a block lands mid-chain.
func splice(p *program.Program, target *program.Block, stack []*program.Block) {
	head := stack[0]
	tail := stack[len(stack)-1]

	oldNext := target.Next
	head.Prev = target.ID
	target.Next = head.ID
	tail.Next = oldNext
	if n := p.Find(oldNext); n != nil {
		n.Prev = tail.ID
	}
	relayout(p, target)
}

// relayout re-stacks workspace positions below an anchor so the chain
// interlocks with zero visual gap.
func relayout(p *program.Program, anchor *program.Block) {
	seen := map[string]bool{anchor.ID: true}
	prev := anchor
	for cur := p.Find(anchor.Next); cur != nil && !seen[cur.ID]; cur = p.Find(cur.Next) {
		seen[cur.ID] = true
		cur.X = prev.X
		cur.Y = prev.Y + BlockHeight
		prev = cur
	}
}
