package notation

import (
	"testing"

	"github.com/SeamusWaldron/twistycube"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		turn twistycube.FaceTurn
		want string
	}{
		{twistycube.R, "R up"},
		{twistycube.RPrime, "R down"},
		{twistycube.L, "L down"},
		{twistycube.U, "T rotate right"},
		{twistycube.DPrime, "B rotate left"},
		{twistycube.F2, "F rotate clockwise x 2"},
		{twistycube.BPrime, "Back rotate anti-clockwise"},
	}
	for _, tt := range tests {
		if got := Describe(tt.turn); got != tt.want {
			t.Errorf("Describe(%s) = %q, want %q", tt.turn, got, tt.want)
		}
	}
}

func TestFormatDescribed(t *testing.T) {
	turns, err := twistycube.ParseFaceTurns("R U' F2")
	if err != nil {
		t.Fatal(err)
	}
	want := "R up, T rotate left, F rotate clockwise x 2"
	if got := FormatDescribed(turns); got != want {
		t.Errorf("FormatDescribed = %q, want %q", got, want)
	}
}
