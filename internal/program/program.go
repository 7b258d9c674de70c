package program

import "fmt"

// DefaultRepeatCount is the count a freshly created repeat block carries.
const DefaultRepeatCount = 2

// MaxRepeatCount is the practical UI bound on a repeat count. It is not a
// correctness invariant; SetRepeatCount simply refuses larger values.
const MaxRepeatCount = 99

// Default workspace position of the entry marker.
const (
	EntryX = 40
	EntryY = 40
)

// Program is the arena of placed blocks, keyed by id.
//
// Iteration over Blocks follows insertion order so that snap-target searches
// and expansion are deterministic.
type Program struct {
	gen     BlockIDGenerator
	blocks  map[string]*Block
	order   []string
	entryID string
}

// New creates an empty program holding only the entry marker at its default
// workspace position. The generator also names the entry marker's id.
func New(gen BlockIDGenerator) *Program {
	p := &Program{
		gen:    gen,
		blocks: make(map[string]*Block),
	}
	entry := &Block{
		ID:   gen.Generate(),
		Kind: KindEntry,
		X:    EntryX,
		Y:    EntryY,
	}
	p.blocks[entry.ID] = entry
	p.order = append(p.order, entry.ID)
	p.entryID = entry.ID
	return p
}

// NewBlock creates a disconnected block of the given kind at a workspace
// position. Repeat blocks start with count DefaultRepeatCount and no children.
//
// Returns an error if the kind is not instantiable by user action. This is a
// catalog/code defect, not a runtime condition to recover from.
func (p *Program) NewBlock(kind Kind, x, y float64) (*Block, error) {
	if !kind.Instantiable() {
		return nil, fmt.Errorf("instruction kind %q is not instantiable", kind)
	}
	b := &Block{
		ID:   p.gen.Generate(),
		Kind: kind,
		X:    x,
		Y:    y,
	}
	if kind == KindRepeat {
		b.Count = DefaultRepeatCount
	}
	p.blocks[b.ID] = b
	p.order = append(p.order, b.ID)
	return b, nil
}

// Find returns the block with the given id, or nil if unknown.
func (p *Program) Find(id string) *Block {
	return p.blocks[id]
}

// Entry returns the program's entry marker.
func (p *Program) Entry() *Block {
	return p.blocks[p.entryID]
}

// Blocks returns every block in insertion order.
func (p *Program) Blocks() []*Block {
	out := make([]*Block, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.blocks[id])
	}
	return out
}

// Len returns the number of blocks, entry marker included.
func (p *Program) Len() int { return len(p.blocks) }

// CollectStack returns the block plus every block transitively reachable via
// Next, in chain order. Dragging a block moves this whole downstream stack.
//
// Traversal is bounded by the block count so a violated acyclicity invariant
// cannot hang the editor.
func (p *Program) CollectStack(id string) []*Block {
	var stack []*Block
	seen := make(map[string]bool)
	for cur := p.blocks[id]; cur != nil && !seen[cur.ID] && len(stack) < len(p.blocks); cur = p.blocks[cur.Next] {
		seen[cur.ID] = true
		stack = append(stack, cur)
	}
	return stack
}

// TranslateStack moves a block and its downstream stack by the same offset.
func (p *Program) TranslateStack(id string, dx, dy float64) {
	for _, b := range p.CollectStack(id) {
		b.X += dx
		b.Y += dy
	}
}

// Detach clears every connection edge touching the given block: neighbors'
// Prev/Next pointers, membership in any repeat's child list, and the block's
// own connection record. The block's downstream neighbor becomes a
// disconnected root. No-op if the id is unknown.
func (p *Program) Detach(id string) {
	b := p.blocks[id]
	if b == nil {
		return
	}
	if prev := p.blocks[b.Prev]; prev != nil && prev.Next == id {
		prev.Next = ""
	}
	if next := p.blocks[b.Next]; next != nil && next.Prev == id {
		next.Prev = ""
	}
	if parent := p.blocks[b.ParentRepeat]; parent != nil {
		parent.removeChild(id)
	}
	b.Prev = ""
	b.Next = ""
	b.ParentRepeat = ""
}

// DetachHead severs a block from whatever sits above or contains it (the
// prev neighbor's Next pointer, any repeat child-list membership) while
// leaving the block's own downstream stack connected. Used when a drag
// gesture lifts a stack out of the graph. No-op if the id is unknown.
func (p *Program) DetachHead(id string) {
	b := p.blocks[id]
	if b == nil {
		return
	}
	if prev := p.blocks[b.Prev]; prev != nil && prev.Next == id {
		prev.Next = ""
	}
	if parent := p.blocks[b.ParentRepeat]; parent != nil {
		parent.removeChild(id)
	}
	b.Prev = ""
	b.ParentRepeat = ""
}

// Remove detaches a block and deletes it from the arena. A removed repeat
// orphans its children in place as disconnected roots. The entry marker
// cannot be removed. No-op if the id is unknown.
func (p *Program) Remove(id string) {
	b := p.blocks[id]
	if b == nil || b.IsEntry() {
		return
	}
	p.Detach(id)
	for _, c := range b.Children {
		if child := p.blocks[c]; child != nil {
			child.Prev = ""
			child.ParentRepeat = ""
		}
	}
	delete(p.blocks, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// SetRepeatCount updates a repeat block's count. Silent no-op if the id is
// unknown, the kind is not repeat, or the count is outside [1, MaxRepeatCount];
// a failed parameter edit never surfaces as an error to the player.
func (p *Program) SetRepeatCount(id string, count int) {
	b := p.blocks[id]
	if b == nil || b.Kind != KindRepeat {
		return
	}
	if count < 1 || count > MaxRepeatCount {
		return
	}
	b.Count = count
}
