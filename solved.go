package twistycube

import "math"

// FaceColors returns the colors of every facelet lying on the outer plane of
// face, in piece order.
func (p *Puzzle) FaceColors(face Face) []Color {
	half := p.geom.HalfExtent()
	target := float64(face.Sign()) * half
	var colors []Color
	for _, piece := range p.pieces {
		for _, f := range piece.Facelets {
			c := p.FaceletCentroid(piece.ID, f)
			if Equals(Component(c, face.Axis()), target, p.geom.Epsilon) {
				colors = append(colors, f.Color)
			}
		}
	}
	return colors
}

// FaceSolved reports whether every facelet on face shows the same color.
// An empty face counts as solved.
func (p *Puzzle) FaceSolved(face Face) bool {
	colors := p.FaceColors(face)
	for _, c := range colors[min(len(colors), 1):] {
		if c != colors[0] {
			return false
		}
	}
	return true
}

// IsSolved reports whether all six faces are uniform.
func (p *Puzzle) IsSolved() bool {
	for _, f := range Faces {
		if !p.FaceSolved(f) {
			return false
		}
	}
	return true
}

// Progress summarises how many faces are uniform.
type Progress struct {
	Faces  [6]bool
	Solved int
}

// Complete reports whether all faces are uniform.
func (pr Progress) Complete() bool {
	return pr.Solved == len(pr.Faces)
}

// Percent returns the share of uniform faces as a whole percentage.
func (pr Progress) Percent() int {
	return int(math.Round(float64(pr.Solved) * 100 / float64(len(pr.Faces))))
}

// Progress evaluates every face.
func (p *Puzzle) Progress() Progress {
	var pr Progress
	for _, f := range Faces {
		if p.FaceSolved(f) {
			pr.Faces[f] = true
			pr.Solved++
		}
	}
	return pr
}
