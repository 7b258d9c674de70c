// Package program provides the block-program data model for the Loopy
// simulator.
//
// This package contains the authoritative set of placed instruction blocks,
// their workspace positions, and their connection links. All other internal
// packages import program; program imports nothing internal. This ensures the
// model remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Blocks form a tagged variant over a closed Kind enumeration; kind-specific
//     payload (repeat count, child list) exists only on the repeat variant.
//   - Top-level next/prev links form a simple path anchored at the entry
//     marker, never a cycle. The snap package enforces this on every attach.
//   - A block lives in exactly one place: the top-level chain or one repeat's
//     child list, never both.
//   - All mutation is single-writer: the model is owned by one interactive
//     session and is never touched concurrently.
package program
