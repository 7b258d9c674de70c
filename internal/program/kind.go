package program

import "fmt"

// Kind identifies an instruction block variant.
//
// The enumeration is closed: heading-set kinds, the heading-relative move,
// legacy absolute moves (kept for pre-heading level data), the repeat control
// block, and the entry marker that anchors the executable chain.
type Kind string

const (
	// KindEntry is the "when run" marker. Exactly one exists per program,
	// created by the initializer; it is never expanded into a move and never
	// attaches to anything.
	KindEntry Kind = "entry"

	// Heading-set kinds. Each sets an absolute heading; none moves the actor.
	KindPointUp    Kind = "point-up"
	KindPointRight Kind = "point-right"
	KindPointDown  Kind = "point-down"
	KindPointLeft  Kind = "point-left"

	// KindMoveForward displaces the actor one tile along the current heading.
	KindMoveForward Kind = "move-forward"

	// Legacy absolute moves. They ignore the current heading, move one tile in
	// a hardcoded direction, and force the heading to match so the sprite
	// still orients correctly. New levels should not offer them.
	KindMoveUp    Kind = "move-up"
	KindMoveDown  Kind = "move-down"
	KindMoveLeft  Kind = "move-left"
	KindMoveRight Kind = "move-right"

	// KindRepeat holds a positive count and an ordered child list; expansion
	// unrolls the children count times.
	KindRepeat Kind = "repeat"
)

// Heading is the actor's facing direction in degrees clockwise from north.
// Only 0, 90, 180, and 270 are valid.
type Heading int

const (
	HeadingUp    Heading = 0
	HeadingRight Heading = 90
	HeadingDown  Heading = 180
	HeadingLeft  Heading = 270
)

// Delta returns the unit displacement for the heading in grid coordinates,
// with y increasing downward.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingRight:
		return 1, 0
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	}
	return 0, 0
}

// Valid reports whether h is one of the four cardinal headings.
func (h Heading) Valid() bool {
	switch h {
	case HeadingUp, HeadingRight, HeadingDown, HeadingLeft:
		return true
	}
	return false
}

// allKinds maps every kind name to its Kind for parsing.
var allKinds = map[string]Kind{
	string(KindEntry):       KindEntry,
	string(KindPointUp):     KindPointUp,
	string(KindPointRight):  KindPointRight,
	string(KindPointDown):   KindPointDown,
	string(KindPointLeft):   KindPointLeft,
	string(KindMoveForward): KindMoveForward,
	string(KindMoveUp):      KindMoveUp,
	string(KindMoveDown):    KindMoveDown,
	string(KindMoveLeft):    KindMoveLeft,
	string(KindMoveRight):   KindMoveRight,
	string(KindRepeat):      KindRepeat,
}

// ParseKind converts a kind name into a Kind.
// Returns an error for names outside the closed enumeration.
func ParseKind(s string) (Kind, error) {
	k, ok := allKinds[s]
	if !ok {
		return "", fmt.Errorf("unknown instruction kind %q", s)
	}
	return k, nil
}

// Instantiable reports whether user action may create a block of this kind.
// The entry marker is created only by the program initializer.
func (k Kind) Instantiable() bool {
	_, known := allKinds[string(k)]
	return known && k != KindEntry
}

// SetsHeading returns the heading a heading-set kind establishes.
// ok is false for every other kind.
func (k Kind) SetsHeading() (h Heading, ok bool) {
	switch k {
	case KindPointUp:
		return HeadingUp, true
	case KindPointRight:
		return HeadingRight, true
	case KindPointDown:
		return HeadingDown, true
	case KindPointLeft:
		return HeadingLeft, true
	}
	return 0, false
}

// LegacyMove returns the hardcoded heading a legacy move kind both travels
// along and forces onto the actor. ok is false for every other kind.
func (k Kind) LegacyMove() (h Heading, ok bool) {
	switch k {
	case KindMoveUp:
		return HeadingUp, true
	case KindMoveDown:
		return HeadingDown, true
	case KindMoveLeft:
		return HeadingLeft, true
	case KindMoveRight:
		return HeadingRight, true
	}
	return 0, false
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }
