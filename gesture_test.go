package twistycube

import (
	"errors"
	"testing"
)

func anchorOn(g Geometry, coord Vec3, face Face) AnchorPick {
	return AnchorPick{Piece: -1, Coord: coord, Centroid: g.StickerCentroid(coord, face)}
}

func resolve(t *testing.T, in *Interpreter, anchor AnchorPick, release Vec3) (Resolution, error) {
	t.Helper()
	g, err := in.Anchor(anchor)
	if err != nil {
		t.Fatalf("Anchor(%v): %v", anchor.Coord, err)
	}
	return in.Resolve(g, ReleasePick{Piece: -1, Coord: release})
}

func TestGestureRightFaceDragUp(t *testing.T) {
	geom := defaultConfig().geom
	in := NewInterpreter(geom, DefaultDragThreshold)

	res, err := resolve(t, in, anchorOn(geom, NewVec(1, 0, 0), FaceRight), NewVec(1, 1, 0))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Locked != AxisX || res.Drive != AxisY {
		t.Errorf("locked/drive = %s/%s, want x/y", res.Locked, res.Drive)
	}
	want := Move{Axis: AxisZ, Direction: 1, Layer: 0}
	if res.Move != want {
		t.Errorf("Move = %+v, want %+v", res.Move, want)
	}
}

// Each case drags a facelet one piece along a world axis. The expected turn
// is the one that carries the grabbed facelet along the drag.
func TestGestureSignTable(t *testing.T) {
	geom := defaultConfig().geom
	in := NewInterpreter(geom, DefaultDragThreshold)

	tests := []struct {
		name    string
		face    Face
		anchor  Vec3
		release Vec3
		want    Move
	}{
		{"right +y", FaceRight, NewVec(1, 0, 0), NewVec(1, 1, 0), Move{AxisZ, 1, 0}},
		{"right -y", FaceRight, NewVec(1, 0, 0), NewVec(1, -1, 0), Move{AxisZ, -1, 0}},
		{"right +z", FaceRight, NewVec(1, 0, 0), NewVec(1, 0, 1), Move{AxisY, -1, 0}},
		{"right -z corner", FaceRight, NewVec(1, 1, 1), NewVec(1, 1, 0), Move{AxisY, 1, 1}},
		{"left +y", FaceLeft, NewVec(-1, 0, 0), NewVec(-1, 1, 0), Move{AxisZ, -1, 0}},
		{"left +z", FaceLeft, NewVec(-1, 0, 0), NewVec(-1, 0, 1), Move{AxisY, 1, 0}},
		{"top +x", FaceTop, NewVec(0, 1, 0), NewVec(1, 1, 0), Move{AxisZ, -1, 0}},
		{"top +z", FaceTop, NewVec(0, 1, 0), NewVec(0, 1, 1), Move{AxisX, 1, 0}},
		{"bottom +x", FaceBottom, NewVec(0, -1, 0), NewVec(1, -1, 0), Move{AxisZ, 1, 0}},
		{"bottom +z", FaceBottom, NewVec(0, -1, 0), NewVec(0, -1, 1), Move{AxisX, -1, 0}},
		{"front +x", FaceFront, NewVec(0, 0, 1), NewVec(1, 0, 1), Move{AxisY, 1, 0}},
		{"front +y", FaceFront, NewVec(0, 0, 1), NewVec(0, 1, 1), Move{AxisX, -1, 0}},
		{"back +x", FaceBack, NewVec(0, 0, -1), NewVec(1, 0, -1), Move{AxisY, -1, 0}},
		{"back +y", FaceBack, NewVec(0, 0, -1), NewVec(0, 1, -1), Move{AxisX, 1, 0}},
		{"front edge layer", FaceFront, NewVec(1, 0, 1), NewVec(1, 1, 1), Move{AxisX, -1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolve(t, in, anchorOn(geom, tt.anchor, tt.face), tt.release)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if res.Move != tt.want {
				t.Errorf("Move = %+v, want %+v (base %d, flipPair %v, flipSide %v)",
					res.Move, tt.want, res.Base, res.FlipPair, res.FlipSide)
			}
		})
	}
}

func TestGestureFlipRules(t *testing.T) {
	for pair, axis := range rotationAxes {
		locked := pair[0]
		flipped := flipPairs[[2]Axis{locked, axis}]
		// Exactly one of (locked, rotation) and its mirror flips.
		mirror := flipPairs[[2]Axis{axis, locked}]
		if flipped == mirror {
			t.Errorf("pair (%s,%s) and its mirror both flip=%v", locked, axis, flipped)
		}
	}
	if len(flipPairs) != 3 {
		t.Errorf("flipPairs has %d entries, want 3", len(flipPairs))
	}
}

// For every outer facelet and every release on the same face, the grabbed
// point must move along the dominant drag component.
func TestGestureFollowsDrag(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		p := newTestPuzzle(t, n)
		geom := p.Geometry()
		in := NewInterpreter(geom, DefaultDragThreshold)

		checked := 0
		for _, piece := range p.pieces {
			for _, f := range piece.Facelets {
				face := p.CurrentFace(piece.ID, f)
				anchor := AnchorPick{
					Piece:    piece.ID,
					Coord:    p.index.Coord(piece.ID),
					Centroid: p.FaceletCentroid(piece.ID, f),
				}
				g, err := in.Anchor(anchor)
				if err != nil {
					t.Fatalf("N=%d Anchor(%v %s): %v", n, anchor.Coord, face, err)
				}
				if g.Locked != face.Axis() {
					t.Fatalf("N=%d locked %s for %s face", n, g.Locked, face)
				}

				edge := float64(face.Sign()) * geom.MaxCoord()
				for _, other := range p.index.LayerMembers(face.Axis(), edge) {
					if other == piece.ID {
						continue
					}
					release := p.index.Coord(other)
					res, err := in.Resolve(g, ReleasePick{Piece: other, Coord: release})
					if err != nil {
						t.Fatalf("N=%d Resolve %v -> %v: %v", n, anchor.Coord, release, err)
					}

					m := res.Move
					if m.Axis == res.Locked || m.Axis == res.Drive || res.Locked == res.Drive {
						t.Fatalf("axes not distinct: locked %s drive %s rotation %s", res.Locked, res.Drive, m.Axis)
					}
					v := cross(m.Axis.Unit(), anchor.Coord)
					got := Component(v, res.Drive) * float64(m.Direction)
					want := Component(res.Drag, res.Drive)
					if got*want <= 0 {
						t.Errorf("N=%d %s face %v -> %v: move %s carries facelet %+.1f along %s, drag %+.1f",
							n, face, anchor.Coord, release, m, got, res.Drive, want)
					}
					if !Equals(m.Layer, Component(anchor.Coord, m.Axis), 1e-12) {
						t.Errorf("layer %v does not contain the anchor %v", m.Layer, anchor.Coord)
					}
					checked++
				}
			}
		}
		t.Logf("N=%d: checked %d gestures", n, checked)
	}
}

func cross(a, b Vec3) Vec3 {
	return NewVec(a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X)
}

func TestGestureTieBreak(t *testing.T) {
	geom := defaultConfig().geom
	in := NewInterpreter(geom, DefaultDragThreshold)

	// Right face, diagonal drag: y beats z.
	res, err := resolve(t, in, anchorOn(geom, NewVec(1, 0, 0), FaceRight), NewVec(1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if res.Drive != AxisY || res.Move.Axis != AxisZ {
		t.Errorf("drive/rotation = %s/%s, want y/z", res.Drive, res.Move.Axis)
	}

	// Top face, diagonal drag: x beats z.
	res, err = resolve(t, in, anchorOn(geom, NewVec(0, 1, 0), FaceTop), NewVec(1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if res.Drive != AxisX || res.Move.Axis != AxisZ {
		t.Errorf("drive/rotation = %s/%s, want x/z", res.Drive, res.Move.Axis)
	}
}

func TestGestureNoops(t *testing.T) {
	geom := defaultConfig().geom
	in := NewInterpreter(geom, DefaultDragThreshold)

	_, err := resolve(t, in, anchorOn(geom, NewVec(1, 0, 0), FaceRight), NewVec(1, 0, 0))
	if !errors.Is(err, ErrDragTooShort) || !IsNoop(err) {
		t.Errorf("zero drag: err = %v, want ErrDragTooShort", err)
	}

	_, err = in.Anchor(AnchorPick{Coord: NewVec(0, 0, 0), Centroid: NewVec(0, 0, 0)})
	if !errors.Is(err, ErrNoLockedAxis) || !IsNoop(err) {
		t.Errorf("interior anchor: err = %v, want ErrNoLockedAxis", err)
	}

	// Straight through the puzzle: nothing left once x is locked.
	_, err = resolve(t, in, anchorOn(geom, NewVec(1, 0, 0), FaceRight), NewVec(-1, 0, 0))
	if !errors.Is(err, ErrReleaseOffLayer) {
		t.Errorf("through drag: err = %v, want ErrReleaseOffLayer", err)
	}
	if IsNoop(err) {
		t.Error("ErrReleaseOffLayer should not be a gesture no-op")
	}
}

func TestGestureThreshold(t *testing.T) {
	geom := defaultConfig().geom
	in := NewInterpreter(geom, 2)

	_, err := resolve(t, in, anchorOn(geom, NewVec(1, -1, 0), FaceRight), NewVec(1, 0, 0))
	if !errors.Is(err, ErrDragTooShort) {
		t.Errorf("one-piece drag with threshold 2: err = %v", err)
	}
	if _, err := resolve(t, in, anchorOn(geom, NewVec(1, -1, 0), FaceRight), NewVec(1, 1, 0)); err != nil {
		t.Errorf("two-piece drag with threshold 2: %v", err)
	}
}
