package twistycube

import (
	"errors"
	"testing"
)

func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := New(append([]Option{WithLogger(discardLogger()), WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestParseFaceTurns(t *testing.T) {
	turns, err := ParseFaceTurns("R U' F2 b")
	if err != nil {
		t.Fatalf("ParseFaceTurns: %v", err)
	}
	want := []FaceTurn{R, UPrime, F2, B}
	if len(turns) != len(want) {
		t.Fatalf("got %d turns, want %d", len(turns), len(want))
	}
	for i := range want {
		if turns[i] != want[i] {
			t.Errorf("turn %d = %v, want %v", i, turns[i], want[i])
		}
	}
	if got := FormatFaceTurns(turns); got != "R U' F2 B" {
		t.Errorf("FormatFaceTurns = %q", got)
	}

	for _, bad := range []string{"X", "R3", "R''"} {
		if _, err := ParseFaceTurns(bad); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseFaceTurns(%q) err = %v, want ErrInvalidNotation", bad, err)
		}
	}
}

func TestFaceTurnLayerMoves(t *testing.T) {
	g := defaultConfig().geom
	tests := []struct {
		turn FaceTurn
		want Move
	}{
		{R, Move{AxisX, -1, 1}},
		{L, Move{AxisX, 1, -1}},
		{U, Move{AxisY, -1, 1}},
		{D, Move{AxisY, 1, -1}},
		{F, Move{AxisZ, -1, 1}},
		{B, Move{AxisZ, 1, -1}},
		{RPrime, Move{AxisX, 1, 1}},
	}
	for _, tt := range tests {
		moves := tt.turn.LayerMoves(g)
		if len(moves) != 1 || moves[0] != tt.want {
			t.Errorf("%s.LayerMoves = %v, want %v", tt.turn, moves, tt.want)
		}
		if got := moves[0].Notation(g); got != tt.turn.Notation() {
			t.Errorf("%s round-trips to %q", tt.turn, got)
		}
	}
	if got := len(R2.LayerMoves(g)); got != 2 {
		t.Errorf("R2 expands to %d moves, want 2", got)
	}
	if got := (Move{Axis: AxisZ, Direction: 1, Layer: 0}).Notation(g); got != "z0+" {
		t.Errorf("inner layer notation = %q, want z0+", got)
	}
}

func TestRMovesTopFrontToTopBack(t *testing.T) {
	c := newTestController(t)
	id, _ := c.PieceAt(NewVec(1, 1, 1))
	if err := c.ApplyTurns(R); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.PieceAt(NewVec(1, 1, -1)); got != id {
		t.Errorf("R should carry the UFR corner to UBR")
	}
}

func TestFourQuarterTurnsReturnToSolved(t *testing.T) {
	for _, ft := range []FaceTurn{R, L, U, D, F, B} {
		c := newTestController(t)
		if err := c.ApplyTurns(ft, ft, ft, ft); err != nil {
			t.Fatal(err)
		}
		if !c.IsSolved() {
			t.Errorf("%s x 4 should return to solved", ft)
		}
	}
}

func TestR2R2ReturnsToSolved(t *testing.T) {
	c := newTestController(t)
	if err := c.ApplyNotation("R2 R2"); err != nil {
		t.Fatal(err)
	}
	if !c.IsSolved() {
		t.Error("R2 R2 should return to solved")
	}
	if c.Moves() != 4 {
		t.Errorf("Moves = %d, want 4 quarter turns", c.Moves())
	}
}

func TestSexyMoveSixTimesReturnsToSolved(t *testing.T) {
	c := newTestController(t)
	for i := 0; i < 6; i++ {
		if err := c.ApplyTurns(SexyMove...); err != nil {
			t.Fatal(err)
		}
		if i == 0 && c.IsSolved() {
			t.Error("one sexy move should not leave the puzzle solved")
		}
	}
	if !c.IsSolved() {
		t.Error("sexy move x 6 should return to solved")
	}
}

func TestApplyNotationRejectsWholeSequence(t *testing.T) {
	c := newTestController(t)
	if err := c.ApplyNotation("R U Q"); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("err = %v, want ErrInvalidNotation", err)
	}
	if c.Moves() != 0 {
		t.Errorf("Moves = %d, nothing should run on a parse error", c.Moves())
	}
}

func TestDifficulty(t *testing.T) {
	want := map[Difficulty]int{Easy: 3, Medium: 6, Hard: 30}
	for _, d := range Difficulties {
		if d.Moves() != want[d] {
			t.Errorf("%s.Moves() = %d, want %d", d, d.Moves(), want[d])
		}
	}
	if d, err := ParseDifficulty(" Hard "); err != nil || d != Hard {
		t.Errorf("ParseDifficulty = %v, %v", d, err)
	}
	if _, err := ParseDifficulty("insane"); err == nil {
		t.Error("unknown difficulty should fail")
	}
}
