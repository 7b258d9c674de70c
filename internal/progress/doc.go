// Package progress persists the player's progress: unlocked levels, best
// star ratings, and the last-active level.
//
// The store is deliberately forgiving. Load never fails: a missing database,
// a malformed row, or an out-of-range value falls back to the default record
// (level 1 unlocked, no stars) rather than blocking gameplay. Save is
// best-effort; a persistence failure forgoes durability, nothing more. Only
// an explicit Clear resets the stored record.
package progress
