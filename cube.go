package twistycube

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB facelet color.
type Color uint32

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

func (c Color) String() string {
	return c.Hex()
}

// RGB splits the color into its channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ParseColor parses "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// Face identifies one of the six faces of a piece or of the whole puzzle.
type Face int

const (
	FaceRight  Face = 0 // +x
	FaceLeft   Face = 1 // -x
	FaceTop    Face = 2 // +y
	FaceBottom Face = 3 // -y
	FaceFront  Face = 4 // +z
	FaceBack   Face = 5 // -z
)

// Faces lists all six faces.
var Faces = [6]Face{FaceRight, FaceLeft, FaceTop, FaceBottom, FaceFront, FaceBack}

func (f Face) String() string {
	switch f {
	case FaceRight:
		return "right"
	case FaceLeft:
		return "left"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	default:
		return "?"
	}
}

// Letter returns the single-letter notation of the face (R, L, U, D, F, B).
func (f Face) Letter() string {
	switch f {
	case FaceRight:
		return "R"
	case FaceLeft:
		return "L"
	case FaceTop:
		return "U"
	case FaceBottom:
		return "D"
	case FaceFront:
		return "F"
	case FaceBack:
		return "B"
	default:
		return "?"
	}
}

// Axis returns the axis the face is perpendicular to.
func (f Face) Axis() Axis {
	return Axis(int(f) / 2)
}

// Sign returns +1 for the positive face of its axis and -1 otherwise.
func (f Face) Sign() int {
	if int(f)%2 == 0 {
		return 1
	}
	return -1
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() Vec3 {
	return withComponent(Vec3{}, f.Axis(), float64(f.Sign()))
}

// FaceOf returns the face on axis a with the given sign.
func FaceOf(a Axis, sign int) Face {
	if sign < 0 {
		return Face(int(a)*2 + 1)
	}
	return Face(int(a) * 2)
}

// FaceFromNormal returns the face whose normal is closest to v.
func FaceFromNormal(v Vec3) Face {
	best := AxisX
	for _, a := range Axes[1:] {
		if math.Abs(Component(v, a)) > math.Abs(Component(v, best)) {
			best = a
		}
	}
	if Component(v, best) < 0 {
		return FaceOf(best, -1)
	}
	return FaceOf(best, 1)
}

// ParseFace parses a face name or notation letter.
func ParseFace(s string) (Face, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "right":
		return FaceRight, nil
	case "l", "left":
		return FaceLeft, nil
	case "u", "up", "top":
		return FaceTop, nil
	case "d", "down", "bottom":
		return FaceBottom, nil
	case "f", "front":
		return FaceFront, nil
	case "b", "back":
		return FaceBack, nil
	}
	return 0, fmt.Errorf("twistycube: unknown face %q", s)
}

// Scheme assigns a solved color to each face.
type Scheme [6]Color

// DefaultScheme is the stock sticker palette.
var DefaultScheme = Scheme{
	FaceRight:  0xa240e4,
	FaceLeft:   0xed5b2c,
	FaceTop:    0x41a9f7,
	FaceBottom: 0xffffff,
	FaceFront:  0x3eb8cd,
	FaceBack:   0xb08d57,
}
