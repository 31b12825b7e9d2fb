// Package notation turns face turns into plain-language instructions.
package notation

import (
	"strings"

	"github.com/SeamusWaldron/twistycube"
)

// Describe converts a face turn to a spoken instruction, holding the cube
// with the top face up and the front face towards you.
//
//	R  -> "R up"                  R' -> "R down"
//	L  -> "L down"                L' -> "L up"
//	U  -> "T rotate right"        U' -> "T rotate left"
//	D  -> "B rotate right"        D' -> "B rotate left"
//	F  -> "F rotate clockwise"    F' -> "F rotate anti-clockwise"
//	B  -> "Back rotate clockwise" B' -> "Back rotate anti-clockwise"
//
// Half turns use the clockwise phrase followed by "x 2".
func Describe(t twistycube.FaceTurn) string {
	cw := t.Turn != twistycube.CCW
	var s string
	switch t.Face {
	case twistycube.FaceRight:
		s = pick(cw, "R up", "R down")
	case twistycube.FaceLeft:
		s = pick(cw, "L down", "L up")
	case twistycube.FaceTop:
		s = pick(cw, "T rotate right", "T rotate left")
	case twistycube.FaceBottom:
		s = pick(cw, "B rotate right", "B rotate left")
	case twistycube.FaceFront:
		s = pick(cw, "F rotate clockwise", "F rotate anti-clockwise")
	case twistycube.FaceBack:
		s = pick(cw, "Back rotate clockwise", "Back rotate anti-clockwise")
	default:
		return t.Notation()
	}
	if t.Turn == twistycube.Double {
		s += " x 2"
	}
	return s
}

func pick(cw bool, a, b string) string {
	if cw {
		return a
	}
	return b
}

// DescribeSequence converts turns to instructions.
func DescribeSequence(turns []twistycube.FaceTurn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = Describe(t)
	}
	return out
}

// FormatDescribed joins the instructions for turns with commas.
func FormatDescribed(turns []twistycube.FaceTurn) string {
	return strings.Join(DescribeSequence(turns), ", ")
}
