// Package snap implements the snapping engine for the Loopy block editor.
//
// Given a block dropped or moved to a candidate workspace position, the
// engine decides whether it attaches beneath another block and performs the
// graph surgery: splicing into the single top-level chain, or appending to a
// repeat block's child list. Every attach re-checks the moved block's full
// descendant closure so the chain can never become a cycle.
//
// The engine never returns an error. An invalid drop simply leaves the block
// unattached at its raw dropped coordinates; the game never surfaces an error
// dialog for a failed drag gesture.
package snap
