package twistycube

import (
	"math"
	"testing"

	"github.com/westphae/quaternion"
)

func TestAxisAngleIsRightHanded(t *testing.T) {
	tests := []struct {
		axis Axis
		in   Vec3
		want Vec3
	}{
		{AxisZ, NewVec(1, 0, 0), NewVec(0, 1, 0)},
		{AxisX, NewVec(0, 1, 0), NewVec(0, 0, 1)},
		{AxisY, NewVec(0, 0, 1), NewVec(1, 0, 0)},
	}
	for _, tt := range tests {
		got := Rotate(AxisAngle(tt.axis, math.Pi/2), tt.in)
		if !VecEquals(got, tt.want, 1e-9) {
			t.Errorf("R%s(+90) %v = %v, want %v", tt.axis, tt.in, got, tt.want)
		}
	}
}

func TestRotationMatrixQuarterTurnZ(t *testing.T) {
	want := [3][3]int{
		{0, -1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
	if got := RotationMatrix(AxisAngle(AxisZ, math.Pi/2)); got != want {
		t.Errorf("RotationMatrix = %v, want %v", got, want)
	}
}

func TestSnapRotationKeepsAxisAlignedRotations(t *testing.T) {
	for _, a := range Axes {
		for k := 0; k < 4; k++ {
			for _, b := range Axes {
				for l := 0; l < 4; l++ {
					q := quaternion.Prod(AxisAngle(a, float64(k)*math.Pi/2), AxisAngle(b, float64(l)*math.Pi/2))
					// Add drift the way accumulated ticks do.
					drifted := quaternion.Prod(q, AxisAngle(AxisX, 1e-4))
					snapped := SnapRotation(drifted)

					if RotationMatrix(snapped) != RotationMatrix(q) {
						t.Errorf("SnapRotation changed rotation %v -> %v", RotationMatrix(q), RotationMatrix(snapped))
					}
					n := math.Sqrt(snapped.W*snapped.W + snapped.X*snapped.X + snapped.Y*snapped.Y + snapped.Z*snapped.Z)
					if math.Abs(n-1) > 1e-9 {
						t.Errorf("SnapRotation norm = %v, want 1", n)
					}
				}
			}
		}
	}
}

func TestSnapRotationHalfTurnsAndDiagonals(t *testing.T) {
	halfX := AxisAngle(AxisX, math.Pi)
	if got := RotationMatrix(SnapRotation(halfX)); got != RotationMatrix(halfX) {
		t.Errorf("half turn x snapped to %v", got)
	}

	// 120 degrees about (1,1,1) maps x to y.
	diag := quaternion.Prod(AxisAngle(AxisY, math.Pi/2), AxisAngle(AxisZ, math.Pi/2))
	snapped := SnapRotation(diag)
	for _, a := range Axes {
		if !VecEquals(Rotate(snapped, a.Unit()), Rotate(diag, a.Unit()), 1e-9) {
			t.Errorf("diagonal rotation differs on %s", a)
		}
	}
}

func TestGeometrySnap(t *testing.T) {
	odd := Geometry{Size: 3}
	even := Geometry{Size: 4}

	tests := []struct {
		g    Geometry
		in   float64
		want float64
	}{
		{odd, 0.9999, 1},
		{odd, -1.0002, -1},
		{odd, -0.0000001, 0},
		{even, 1.4999, 1.5},
		{even, -0.52, -0.5},
		{even, 0.47, 0.5},
	}
	for _, tt := range tests {
		if got := tt.g.Snap(tt.in); got != tt.want {
			t.Errorf("Size %d Snap(%v) = %v, want %v", tt.g.Size, tt.in, got, tt.want)
		}
	}
	if math.Signbit(odd.Snap(-0.0000001)) {
		t.Error("Snap should fold -0 into 0")
	}
}

func TestGeometryHalfExtent(t *testing.T) {
	g := defaultConfig().geom
	if got := g.HalfExtent(); math.Abs(got-3.06) > 1e-12 {
		t.Errorf("HalfExtent = %v, want 3.06", got)
	}
	if !g.OnLattice(NewVec(1, -1, 0)) {
		t.Error("(1,-1,0) should be on the 3x3x3 lattice")
	}
	if g.OnLattice(NewVec(2, 0, 0)) || g.OnLattice(NewVec(0.5, 0, 0)) {
		t.Error("points outside the 3x3x3 lattice reported on it")
	}
}

func TestGeometryValidate(t *testing.T) {
	g := defaultConfig().geom
	if err := g.Validate(); err != nil {
		t.Fatalf("default geometry invalid: %v", err)
	}
	g.Size = 0
	if err := g.Validate(); err == nil {
		t.Error("size 0 should be invalid")
	}
}

func TestFaceFromNormal(t *testing.T) {
	tests := []struct {
		v    Vec3
		want Face
	}{
		{NewVec(1, 0, 0), FaceRight},
		{NewVec(-0.9, 0.2, 0.1), FaceLeft},
		{NewVec(0.1, 0.95, -0.2), FaceTop},
		{NewVec(0, -1, 0), FaceBottom},
		{NewVec(0.3, -0.2, 0.8), FaceFront},
		{NewVec(-0.1, 0.4, -0.7), FaceBack},
	}
	for _, tt := range tests {
		if got := FaceFromNormal(tt.v); got != tt.want {
			t.Errorf("FaceFromNormal(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}
