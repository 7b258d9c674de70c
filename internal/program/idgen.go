package program

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// BlockIDGenerator produces unique identifiers for new blocks.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type BlockIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 block ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, which keeps ids
// sortable by creation time when inspecting a saved program.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns sequential "block-0001"-style ids for deterministic
// tests and golden trace comparison.
//
// Thread-safety: safe for concurrent use via internal mutex, though the
// single-writer model means only one goroutine normally calls it.
type FixedGenerator struct {
	mu sync.Mutex
	n  int
}

// NewFixedGenerator creates a generator starting at block-0001.
func NewFixedGenerator() *FixedGenerator {
	return &FixedGenerator{}
}

// Generate returns the next sequential id.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("block-%04d", g.n)
}
