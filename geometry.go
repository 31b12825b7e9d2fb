package twistycube

import (
	"fmt"
	"math"
	"strings"

	"github.com/westphae/quaternion"
)

/*
         y    z
         |   /
         |  /
         | /
-x ------+------ x
        /|
       / |
      /  |
    -z  -y
*/

// Vec3 is a point or direction in puzzle space.
type Vec3 = quaternion.Vec3

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the axes in precedence order (x > y > z).
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// ParseAxis parses "x", "y" or "z".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: axis %q", ErrInvalidMove, s)
}

// MarshalText encodes the axis as "x", "y" or "z".
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an axis written by MarshalText.
func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Unit returns the positive unit vector along the axis.
func (a Axis) Unit() Vec3 {
	return withComponent(Vec3{}, a, 1)
}

// NewVec creates a vector from its components.
func NewVec(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Component returns the component of v along axis a.
func Component(v Vec3, a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func withComponent(v Vec3, a Axis, f float64) Vec3 {
	switch a {
	case AxisX:
		v.X = f
	case AxisY:
		v.Y = f
	default:
		v.Z = f
	}
	return v
}

func add(a, b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func sub(a, b Vec3) Vec3 {
	return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func scale(v Vec3, f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func length(v Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Equals compares two floats within tol.
func Equals(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// VecEquals compares two vectors component-wise within tol.
func VecEquals(a, b Vec3, tol float64) bool {
	return Equals(a.X, b.X, tol) && Equals(a.Y, b.Y, tol) && Equals(a.Z, b.Z, tol)
}

// Transform is a rigid placement: rotation applied first, then translation.
type Transform struct {
	Position Vec3
	Rotation quaternion.Quaternion
}

// Identity is the unit quaternion.
var Identity = quaternion.Quaternion{W: 1}

// AxisAngle returns the right-handed rotation of angle radians about a.
func AxisAngle(a Axis, angle float64) quaternion.Quaternion {
	s, c := math.Sincos(angle / 2)
	q := quaternion.Quaternion{W: c}
	switch a {
	case AxisX:
		q.X = s
	case AxisY:
		q.Y = s
	default:
		q.Z = s
	}
	return q
}

// Rotate applies q to v.
func Rotate(q quaternion.Quaternion, v Vec3) Vec3 {
	return v.Rotate(q)
}

// compose returns the transform of child expressed in parent's frame.
func compose(parent, child Transform) Transform {
	return Transform{
		Position: add(parent.Position, Rotate(parent.Rotation, child.Position)),
		Rotation: quaternion.Prod(parent.Rotation, child.Rotation),
	}
}

// SnapRotation rounds q to the nearest of the 24 axis-aligned rotations.
func SnapRotation(q quaternion.Quaternion) quaternion.Quaternion {
	var m [3][3]float64
	for j, a := range Axes {
		col := Rotate(q, a.Unit())
		for i, b := range Axes {
			m[i][j] = zero(math.Round(Component(col, b)))
		}
	}
	return fromMatrix(m)
}

// RotationMatrix returns the integer matrix of an axis-aligned rotation.
// Column j is the image of the j-th basis vector.
func RotationMatrix(q quaternion.Quaternion) [3][3]int {
	var m [3][3]int
	for j, a := range Axes {
		col := Rotate(q, a.Unit())
		for i, b := range Axes {
			m[i][j] = int(math.Round(Component(col, b)))
		}
	}
	return m
}

func fromMatrix(m [3][3]float64) quaternion.Quaternion {
	var q quaternion.Quaternion
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quaternion.Quaternion{
			W: 0.25 * s,
			X: (m[2][1] - m[1][2]) / s,
			Y: (m[0][2] - m[2][0]) / s,
			Z: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math.Sqrt(1+m[0][0]-m[1][1]-m[2][2]) * 2
		q = quaternion.Quaternion{
			W: (m[2][1] - m[1][2]) / s,
			X: 0.25 * s,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := math.Sqrt(1+m[1][1]-m[0][0]-m[2][2]) * 2
		q = quaternion.Quaternion{
			W: (m[0][2] - m[2][0]) / s,
			X: (m[0][1] + m[1][0]) / s,
			Y: 0.25 * s,
			Z: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := math.Sqrt(1+m[2][2]-m[0][0]-m[1][1]) * 2
		q = quaternion.Quaternion{
			W: (m[1][0] - m[0][1]) / s,
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: 0.25 * s,
		}
	}
	return q
}

// zero folds -0 into +0 so snapped coordinates print cleanly.
func zero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}
