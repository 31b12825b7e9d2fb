package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/twistycube"
)

func newTestController(t *testing.T, opts ...twistycube.Option) *twistycube.Controller {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	c, err := twistycube.New(append([]twistycube.Option{twistycube.WithLogger(log)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNetCoversEverySticker(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4} {
		c := newTestController(t, twistycube.WithSize(n))
		l := netLayout{geom: c.Geometry(), top: 2, left: 2}

		seen := make(map[stickerKey]bool)
		for y := 0; y < l.top+l.Height()+2; y++ {
			for x := 0; x < l.left+l.Width()+2; x++ {
				s, ok := l.hit(x, y)
				if !ok {
					continue
				}
				if _, found := c.PickSticker(s.Coord, s.Face); !found {
					t.Fatalf("N=%d cell (%d,%d) maps to empty %v", n, x, y, s.Coord)
				}
				if twistycube.Component(s.Coord, s.Face.Axis()) != float64(s.Face.Sign())*l.geom.MaxCoord() {
					t.Errorf("N=%d sticker %v is not on face %s", n, s.Coord, s.Face)
				}
				seen[stickerKey{s.Coord, s.Face}] = true
			}
		}
		if len(seen) != 6*n*n {
			t.Errorf("N=%d net exposes %d stickers, want %d", n, len(seen), 6*n*n)
		}
	}
}

func TestNetNeighbours(t *testing.T) {
	l := netLayout{geom: newTestController(t).Geometry()}
	tests := []struct {
		x, y int
		want sticker
	}{
		{l.faceW(), l.faceH(), sticker{twistycube.FaceFront, twistycube.NewVec(-1, 1, 1)}},
		{2*l.faceW() + 2*cellW, 2*l.faceH() - 2, sticker{twistycube.FaceRight, twistycube.NewVec(1, -1, -1)}},
		{l.faceW() + 2*cellW + 1, l.faceH() - 2, sticker{twistycube.FaceTop, twistycube.NewVec(1, 1, 1)}},
		{l.faceW(), 2 * l.faceH(), sticker{twistycube.FaceBottom, twistycube.NewVec(-1, -1, 1)}},
		{3 * l.faceW(), l.faceH(), sticker{twistycube.FaceBack, twistycube.NewVec(1, 1, -1)}},
	}
	for _, tt := range tests {
		got, ok := l.hit(tt.x, tt.y)
		if !ok || got != tt.want {
			t.Errorf("hit(%d,%d) = %+v %v, want %+v", tt.x, tt.y, got, ok, tt.want)
		}
	}

	// gaps between faces and the empty corners of the cross
	for _, p := range [][2]int{{l.faceW() - 1, l.faceH()}, {0, 0}, {l.faceW(), l.faceH() - 1}} {
		if s, ok := l.hit(p[0], p[1]); ok {
			t.Errorf("hit(%d,%d) = %+v, want nothing", p[0], p[1], s)
		}
	}
}

func TestNetDragTurnsLayer(t *testing.T) {
	c := newTestController(t)
	l := netLayout{geom: c.Geometry(), top: 2, left: 2}
	cell := func(f twistycube.Face, row, col int) (int, int) {
		pos := netPos[f]
		return l.left + pos[0]*l.faceW() + col*cellW, l.top + pos[1]*l.faceH() + row
	}

	// Drag the centre of the right face up one sticker.
	x, y := cell(twistycube.FaceRight, 1, 1)
	down, _ := l.hit(x, y)
	x, y = cell(twistycube.FaceRight, 0, 1)
	up, _ := l.hit(x, y)

	pick, _ := c.PickSticker(down.Coord, down.Face)
	if err := c.PointerDown(pick); err != nil {
		t.Fatal(err)
	}
	rel, _ := c.PickPiece(up.Coord)
	m, err := c.PointerUp(rel)
	if err != nil {
		t.Fatal(err)
	}
	if want := (twistycube.Move{Axis: twistycube.AxisZ, Direction: 1, Layer: 0}); m != want {
		t.Errorf("move = %+v, want %+v", m, want)
	}
}

func TestNetText(t *testing.T) {
	c := newTestController(t)
	text := netText(c.Snapshot())
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want 11:\n%s", len(lines), text)
	}
	if got := strings.TrimSpace(lines[0]); got != "U U U" {
		t.Errorf("first line = %q", got)
	}
	if got := lines[4]; got != "L L L  F F F  R R R  B B B" {
		t.Errorf("middle line = %q", got)
	}

	if err := c.ApplyNotation("R"); err != nil {
		t.Fatal(err)
	}
	lines = strings.Split(netText(c.Snapshot()), "\n")
	if got := lines[4]; got != "L L L  F F D  R R R  U B B" {
		t.Errorf("after R middle line = %q", got)
	}
}
