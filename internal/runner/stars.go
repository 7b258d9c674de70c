package runner

// Stars maps a successful run's used-block count to a 1–3 star rating
// relative to the level's par. The count comes from compile.UsedCount: a
// repeat block counts as one regardless of its children, matching how the
// editor counts placed blocks.
func Stars(usedCount, par int) int {
	switch {
	case usedCount <= par:
		return 3
	case usedCount <= par+2:
		return 2
	default:
		return 1
	}
}
