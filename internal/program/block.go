package program

// Block is a placed instance of an instruction kind.
//
// X and Y are workspace (presentation) coordinates, not grid coordinates.
// Prev and Next link the block into the single top-level chain; ParentRepeat
// names the repeat block whose child list holds it. A block is never both a
// top-level chain member and a repeat child.
type Block struct {
	ID   string
	Kind Kind
	X, Y float64

	// Connection record. Empty string means no link.
	Prev         string
	Next         string
	ParentRepeat string

	// Repeat payload. Zero-valued on every other kind.
	Count    int
	Children []string
}

// IsEntry reports whether the block is the program's entry marker.
func (b *Block) IsEntry() bool { return b.Kind == KindEntry }

// removeChild deletes id from a repeat's child list, preserving order.
// No-op if the block is not a repeat or does not hold id.
func (b *Block) removeChild(id string) {
	for i, c := range b.Children {
		if c == id {
			b.Children = append(b.Children[:i], b.Children[i+1:]...)
			return
		}
	}
}
