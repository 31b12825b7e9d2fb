package twistycube

import (
	"fmt"
	"strings"
)

// Predefined face turns.
//
// Example:
//
//	ctrl.ApplyTurns(twistycube.R, twistycube.U, twistycube.RPrime, twistycube.UPrime)
var (
	R      = FaceTurn{Face: FaceRight, Turn: CW}
	RPrime = FaceTurn{Face: FaceRight, Turn: CCW}
	R2     = FaceTurn{Face: FaceRight, Turn: Double}

	L      = FaceTurn{Face: FaceLeft, Turn: CW}
	LPrime = FaceTurn{Face: FaceLeft, Turn: CCW}
	L2     = FaceTurn{Face: FaceLeft, Turn: Double}

	U      = FaceTurn{Face: FaceTop, Turn: CW}
	UPrime = FaceTurn{Face: FaceTop, Turn: CCW}
	U2     = FaceTurn{Face: FaceTop, Turn: Double}

	D      = FaceTurn{Face: FaceBottom, Turn: CW}
	DPrime = FaceTurn{Face: FaceBottom, Turn: CCW}
	D2     = FaceTurn{Face: FaceBottom, Turn: Double}

	F      = FaceTurn{Face: FaceFront, Turn: CW}
	FPrime = FaceTurn{Face: FaceFront, Turn: CCW}
	F2     = FaceTurn{Face: FaceFront, Turn: Double}

	B      = FaceTurn{Face: FaceBack, Turn: CW}
	BPrime = FaceTurn{Face: FaceBack, Turn: CCW}
	B2     = FaceTurn{Face: FaceBack, Turn: Double}
)

// SexyMove is R U R' U'. Six repetitions return to the start.
var SexyMove = []FaceTurn{R, U, RPrime, UPrime}

// Difficulty selects how many moves a scramble makes.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers from easiest to hardest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Moves returns the scramble length of the tier.
func (d Difficulty) Moves() int {
	switch d {
	case Easy:
		return 3
	case Medium:
		return 6
	case Hard:
		return 30
	default:
		return 0
	}
}

// ParseDifficulty parses a tier name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("twistycube: unknown difficulty %q", s)
}
