package twistycube

import (
	"fmt"
	"strconv"
	"strings"
)

// Move is a single quarter-turn of one layer.
// Direction +1 is a right-handed turn about the positive axis
// (counter-clockwise seen from +axis towards the centre), -1 the opposite.
type Move struct {
	Axis      Axis    `json:"axis"`
	Direction int     `json:"direction"`
	Layer     float64 `json:"layer"`
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	m.Direction = -m.Direction
	return m
}

// String returns a compact axis/layer/direction form, e.g. "z0+" or "x-1-".
func (m Move) String() string {
	sign := "+"
	if m.Direction < 0 {
		sign = "-"
	}
	return m.Axis.String() + strconv.FormatFloat(m.Layer, 'g', -1, 64) + sign
}

// Notation returns face notation for outer-layer moves and the compact form
// for inner layers.
func (m Move) Notation(g Geometry) string {
	edge := g.MaxCoord()
	var face Face
	switch {
	case Equals(m.Layer, edge, g.Epsilon):
		face = FaceOf(m.Axis, 1)
	case Equals(m.Layer, -edge, g.Epsilon):
		face = FaceOf(m.Axis, -1)
	default:
		return m.String()
	}
	// Clockwise seen from outside the face is a negative turn about its outward normal.
	if m.Direction*face.Sign() < 0 {
		return face.Letter()
	}
	return face.Letter() + "'"
}

// Turn is the direction and magnitude of a face turn in notation.
type Turn int

const (
	CW     Turn = 1  // Clockwise (90 degrees)
	CCW    Turn = -1 // Counter-clockwise (90 degrees)
	Double Turn = 2  // Half turn (180 degrees)
)

// FaceTurn is a move in standard face notation (R, U', F2 ...).
type FaceTurn struct {
	Face Face
	Turn Turn
}

// Notation returns the standard notation string.
func (t FaceTurn) Notation() string {
	suffix := ""
	switch t.Turn {
	case CCW:
		suffix = "'"
	case Double:
		suffix = "2"
	}
	return t.Face.Letter() + suffix
}

func (t FaceTurn) String() string {
	return t.Notation()
}

// Inverse returns the inverse face turn. Double turns are their own inverse.
func (t FaceTurn) Inverse() FaceTurn {
	inv := t
	switch t.Turn {
	case CW:
		inv.Turn = CCW
	case CCW:
		inv.Turn = CW
	}
	return inv
}

// LayerMoves expands the face turn into quarter-turn layer moves.
func (t FaceTurn) LayerMoves(g Geometry) []Move {
	sign := t.Face.Sign()
	m := Move{
		Axis:      t.Face.Axis(),
		Direction: -sign,
		Layer:     float64(sign) * g.MaxCoord(),
	}
	switch t.Turn {
	case CCW:
		return []Move{m.Inverse()}
	case Double:
		return []Move{m, m}
	default:
		return []Move{m}
	}
}

// ParseFaceTurn parses a single notation token such as R, R', R2.
func ParseFaceTurn(s string) (FaceTurn, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return FaceTurn{}, ErrInvalidNotation
	}

	var face Face
	switch s[0] {
	case 'R', 'r':
		face = FaceRight
	case 'L', 'l':
		face = FaceLeft
	case 'U', 'u':
		face = FaceTop
	case 'D', 'd':
		face = FaceBottom
	case 'F', 'f':
		face = FaceFront
	case 'B', 'b':
		face = FaceBack
	default:
		return FaceTurn{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	turn := CW
	if len(s) > 1 {
		switch s[1:] {
		case "'", "`":
			turn = CCW
		case "2", "2'", "2`":
			turn = Double
		default:
			return FaceTurn{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
		}
	}

	return FaceTurn{Face: face, Turn: turn}, nil
}

// ParseFaceTurns parses a space-separated sequence such as "R U R' U'".
func ParseFaceTurns(s string) ([]FaceTurn, error) {
	parts := strings.Fields(s)
	turns := make([]FaceTurn, 0, len(parts))
	for _, part := range parts {
		t, err := ParseFaceTurn(part)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// FormatFaceTurns joins face turns with spaces.
func FormatFaceTurns(turns []FaceTurn) string {
	parts := make([]string, len(turns))
	for i, t := range turns {
		parts[i] = t.Notation()
	}
	return strings.Join(parts, " ")
}

// FormatMoves joins the notation of layer moves with spaces.
func FormatMoves(moves []Move, g Geometry) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation(g)
	}
	return strings.Join(parts, " ")
}
