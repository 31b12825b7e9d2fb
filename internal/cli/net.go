package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/twistycube"
)

const cellW = 2

// Face positions in the unfolded net, in face units.
//
//	   U
//	L  F  R  B
//	   D
var netPos = [6][2]int{
	twistycube.FaceRight:  {2, 1},
	twistycube.FaceLeft:   {0, 1},
	twistycube.FaceTop:    {1, 0},
	twistycube.FaceBottom: {1, 2},
	twistycube.FaceFront:  {1, 1},
	twistycube.FaceBack:   {3, 1},
}

// sticker identifies one cell of the net.
type sticker struct {
	Face  twistycube.Face
	Coord twistycube.Vec3
}

// netLayout maps between screen cells and stickers.
type netLayout struct {
	geom      twistycube.Geometry
	top, left int
}

func (l netLayout) faceW() int { return l.geom.Size*cellW + 1 }
func (l netLayout) faceH() int { return l.geom.Size + 1 }

// Width and Height of the rendered net in cells.
func (l netLayout) Width() int  { return 4*l.faceW() - 1 }
func (l netLayout) Height() int { return 3*l.faceH() - 1 }

// coord returns the lattice coordinate of the piece drawn at row, col of
// face, as seen from outside the puzzle.
func (l netLayout) coord(f twistycube.Face, row, col int) twistycube.Vec3 {
	m := l.geom.MaxCoord()
	inc := func(i int) float64 { return float64(i) - m }
	dec := func(i int) float64 { return m - float64(i) }
	switch f {
	case twistycube.FaceFront:
		return twistycube.NewVec(inc(col), dec(row), m)
	case twistycube.FaceRight:
		return twistycube.NewVec(m, dec(row), dec(col))
	case twistycube.FaceBack:
		return twistycube.NewVec(dec(col), dec(row), -m)
	case twistycube.FaceLeft:
		return twistycube.NewVec(-m, dec(row), inc(col))
	case twistycube.FaceTop:
		return twistycube.NewVec(inc(col), m, inc(row))
	default:
		return twistycube.NewVec(inc(col), -m, dec(row))
	}
}

// hit returns the sticker under screen cell x, y.
func (l netLayout) hit(x, y int) (sticker, bool) {
	x -= l.left
	y -= l.top
	if x < 0 || y < 0 {
		return sticker{}, false
	}
	fc, fr := x/l.faceW(), y/l.faceH()
	cx, cy := x%l.faceW(), y%l.faceH()
	n := l.geom.Size
	if cx >= n*cellW || cy >= n {
		return sticker{}, false
	}
	for f, pos := range netPos {
		if pos == [2]int{fc, fr} {
			face := twistycube.Face(f)
			return sticker{Face: face, Coord: l.coord(face, cy, cx/cellW)}, true
		}
	}
	return sticker{}, false
}

type stickerKey struct {
	coord twistycube.Vec3
	face  twistycube.Face
}

// stickers indexes the snapshot by position and current face, and
// collects the positions of pieces in the turning layer.
func stickers(st twistycube.State) (map[stickerKey]twistycube.FaceletState, map[twistycube.Vec3]bool) {
	facelets := make(map[stickerKey]twistycube.FaceletState)
	moving := make(map[twistycube.Vec3]bool)
	for _, p := range st.Pieces {
		if p.Attached {
			moving[p.Coord] = true
		}
		for _, f := range p.Facelets {
			facelets[stickerKey{p.Coord, f.Face}] = f
		}
	}
	return facelets, moving
}

func (l netLayout) blankLines() [][]string {
	lines := make([][]string, l.Height())
	for i := range lines {
		lines[i] = make([]string, 4)
		for c := range lines[i] {
			lines[i][c] = strings.Repeat(" ", l.faceW())
		}
	}
	return lines
}

func (l netLayout) join(lines [][]string) string {
	var out strings.Builder
	pad := strings.Repeat(" ", l.left)
	for _, line := range lines {
		out.WriteString(pad)
		out.WriteString(strings.TrimRight(strings.Join(line, ""), " "))
		out.WriteString("\n")
	}
	return out.String()
}

// netText draws the net with the home face letter of every sticker.
func netText(st twistycube.State) string {
	l := netLayout{geom: st.Geometry}
	facelets, _ := stickers(st)
	n := st.Geometry.Size
	lines := l.blankLines()
	for f, pos := range netPos {
		face := twistycube.Face(f)
		for row := 0; row < n; row++ {
			var b strings.Builder
			for col := 0; col < n; col++ {
				fs := facelets[stickerKey{l.coord(face, row, col), face}]
				b.WriteString(fs.Home.Letter())
				b.WriteString(" ")
			}
			b.WriteString(" ")
			lines[pos[1]*l.faceH()+row][pos[0]] = b.String()
		}
	}
	return l.join(lines)
}

// renderNet draws the net in sticker colors. The anchor sticker, if any,
// is marked.
func renderNet(st twistycube.State, l netLayout, anchor *sticker) string {
	facelets, moving := stickers(st)
	n := st.Geometry.Size

	lines := l.blankLines()
	for f, pos := range netPos {
		face := twistycube.Face(f)
		for row := 0; row < n; row++ {
			var b strings.Builder
			for col := 0; col < n; col++ {
				coord := l.coord(face, row, col)
				color := facelets[stickerKey{coord, face}].Color
				cell := "  "
				switch {
				case anchor != nil && anchor.Face == face && anchor.Coord == coord:
					cell = "[]"
				case moving[coord]:
					cell = "░░"
				}
				style := lipgloss.NewStyle().
					Background(lipgloss.Color(color.Hex())).
					Foreground(lipgloss.Color("0"))
				b.WriteString(style.Render(cell))
			}
			b.WriteString(" ")
			lines[pos[1]*l.faceH()+row][pos[0]] = b.String()
		}
	}

	return l.join(lines)
}
