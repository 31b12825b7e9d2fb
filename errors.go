package twistycube

import "errors"

// Sentinel errors for the twistycube package.
// None of them is fatal: the puzzle state is unchanged whenever one is returned.
var (
	// Gesture no-ops
	ErrNoAnchor     = errors.New("twistycube: release without a prior anchor pick")
	ErrDragTooShort = errors.New("twistycube: drag shorter than one piece")
	ErrNoLockedAxis = errors.New("twistycube: anchor pick is not on an outer face")

	// Malformed picks
	ErrReleaseOffLayer = errors.New("twistycube: release has no component off the locked axis")
	ErrEmptyLayer      = errors.New("twistycube: no pieces in the selected layer")
	ErrUnknownPiece    = errors.New("twistycube: unknown piece")
	ErrInvalidMove     = errors.New("twistycube: invalid move")

	// Move scheduling
	ErrMoveInFlight = errors.New("twistycube: a move is already in flight")
	ErrNoLegalMove  = errors.New("twistycube: puzzle has no legal layer turn")

	// Parsing and configuration
	ErrInvalidNotation = errors.New("twistycube: invalid move notation")
	ErrInvalidSize     = errors.New("twistycube: invalid puzzle size")
	ErrInvalidColor    = errors.New("twistycube: invalid color")
	ErrInvalidTurnStep = errors.New("twistycube: turn step must be a positive angle")
	ErrInvalidDrag     = errors.New("twistycube: drag threshold must be positive")
)

// IsNoop reports whether err belongs to the user-gesture no-op class
// (short drag, click without an anchor, pick off the outer faces).
func IsNoop(err error) bool {
	return errors.Is(err, ErrNoAnchor) ||
		errors.Is(err, ErrDragTooShort) ||
		errors.Is(err, ErrNoLockedAxis)
}
