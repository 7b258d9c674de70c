package progress

// FirstLevelID is always unlocked; a fresh record starts there.
const FirstLevelID = 1

// Progress is the player's persistence record.
type Progress struct {
	// Unlocked is the set of playable level ids. FirstLevelID is always a
	// member.
	Unlocked map[int]bool

	// Stars maps level id to the best rating achieved, 1–3.
	Stars map[int]int

	// LastLevel is the most recently active level id.
	LastLevel int
}

// Default returns a fresh record: level 1 unlocked, no stars.
func Default() *Progress {
	return &Progress{
		Unlocked:  map[int]bool{FirstLevelID: true},
		Stars:     map[int]int{},
		LastLevel: FirstLevelID,
	}
}

// IsUnlocked reports whether a level is playable. FirstLevelID is implicitly
// unlocked even if the stored set lost it.
func (p *Progress) IsUnlocked(id int) bool {
	return id == FirstLevelID || p.Unlocked[id]
}

// Record applies a successful run's star rating for a level.
//
// The rating only overwrites the stored best when strictly greater; on
// improvement the next sequential level id joins the unlocked set, provided
// hasLevel says the catalog defines it. Returns whether the record changed.
func (p *Progress) Record(levelID, stars int, hasLevel func(int) bool) bool {
	if stars < 1 || stars > 3 {
		return false
	}
	if stars <= p.Stars[levelID] {
		return false
	}
	p.Stars[levelID] = stars
	if next := levelID + 1; hasLevel(next) {
		p.Unlocked[next] = true
	}
	return true
}

// Visit marks a level as the last-active one.
func (p *Progress) Visit(levelID int) {
	p.LastLevel = levelID
}

// valid reports whether a loaded record is structurally sound. Anything else
// falls back to the default record.
func (p *Progress) valid() bool {
	if p.LastLevel < 1 {
		return false
	}
	for id := range p.Unlocked {
		if id < 1 {
			return false
		}
	}
	for id, s := range p.Stars {
		if id < 1 || s < 1 || s > 3 {
			return false
		}
	}
	return true
}
