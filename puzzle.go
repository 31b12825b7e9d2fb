package twistycube

import (
	"fmt"
	"math"
)

// Geometry holds the physical dimensions of the puzzle.
// Lattice coordinates are centred on the puzzle: integers for odd sizes,
// half-integers for even sizes. World coordinates are lattice * Spacing.
type Geometry struct {
	Size        int     // pieces per edge (N)
	Spacing     float64 // distance between neighbouring piece centres
	PieceSize   float64 // edge length of one piece
	StickerLift float64 // how far a facelet sits above its piece face
	Epsilon     float64 // tolerance for lattice and extent comparisons
}

// MaxCoord is the lattice coordinate of the outermost layer.
func (g Geometry) MaxCoord() float64 {
	return float64(g.Size-1) / 2
}

// HalfExtent is the distance from the centre to an outer facelet plane.
func (g Geometry) HalfExtent() float64 {
	return g.MaxCoord()*g.Spacing + g.PieceSize/2 + g.StickerLift
}

// Snap rounds a lattice coordinate to the nearest lattice value.
func (g Geometry) Snap(v float64) float64 {
	off := 0.0
	if g.Size%2 == 0 {
		off = 0.5
	}
	return zero(math.Round(v-off) + off)
}

// SnapVec snaps every component of v.
func (g Geometry) SnapVec(v Vec3) Vec3 {
	return Vec3{X: g.Snap(v.X), Y: g.Snap(v.Y), Z: g.Snap(v.Z)}
}

// OnLattice reports whether v is a lattice point inside the puzzle.
func (g Geometry) OnLattice(v Vec3) bool {
	for _, a := range Axes {
		c := Component(v, a)
		if math.Abs(c-g.Snap(c)) > 1e-9 || math.Abs(c) > g.MaxCoord()+1e-9 {
			return false
		}
	}
	return true
}

// StickerCentroid returns the world-space centre of the facelet of the
// piece at lattice coord that faces f.
func (g Geometry) StickerCentroid(coord Vec3, f Face) Vec3 {
	lift := g.PieceSize/2 + g.StickerLift
	return add(scale(coord, g.Spacing), scale(f.Normal(), lift))
}

// Validate checks that the geometry describes a buildable puzzle.
func (g Geometry) Validate() error {
	switch {
	case g.Size < 1:
		return fmt.Errorf("%w: %d", ErrInvalidSize, g.Size)
	case g.Spacing <= 0 || g.PieceSize <= 0 || g.PieceSize > g.Spacing:
		return fmt.Errorf("%w: spacing %g piece %g", ErrInvalidSize, g.Spacing, g.PieceSize)
	case g.Epsilon <= 0 || g.Epsilon >= 0.5:
		return fmt.Errorf("%w: epsilon %g", ErrInvalidSize, g.Epsilon)
	}
	return nil
}

// Facelet is a colored sticker glued to one home face of a piece.
type Facelet struct {
	Home  Face
	Color Color
}

const (
	parentScene = -1
	parentPivot = 0
)

// Piece is one cell of the puzzle.
// Pieces live in an arena and reference their parent by index, so attaching a
// piece to the pivot never creates an ownership cycle.
type Piece struct {
	ID       int
	Home     Vec3
	Facelets []Facelet

	parent int
	local  Transform
}

// Attached reports whether the piece currently rides on the pivot.
func (p *Piece) Attached() bool {
	return p.parent == parentPivot
}

// Puzzle is the arena of pieces plus the pivot they attach to during a move.
type Puzzle struct {
	geom   Geometry
	scheme Scheme
	pieces []*Piece
	index  *Index
	pivot  Transform
}

// NewPuzzle builds a solved puzzle.
func NewPuzzle(geom Geometry, scheme Scheme) (*Puzzle, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return newPuzzle(geom, scheme), nil
}

func newPuzzle(geom Geometry, scheme Scheme) *Puzzle {
	n := geom.Size
	p := &Puzzle{
		geom:   geom,
		scheme: scheme,
		pieces: make([]*Piece, 0, n*n*n),
		pivot:  Transform{Rotation: Identity},
	}
	edge := geom.MaxCoord()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				home := NewVec(float64(i)-edge, float64(j)-edge, float64(k)-edge)
				piece := &Piece{
					ID:     len(p.pieces),
					Home:   home,
					parent: parentScene,
					local:  Transform{Position: scale(home, geom.Spacing), Rotation: Identity},
				}
				for _, f := range Faces {
					if Component(home, f.Axis()) == float64(f.Sign())*edge {
						piece.Facelets = append(piece.Facelets, Facelet{Home: f, Color: scheme[f]})
					}
				}
				p.pieces = append(p.pieces, piece)
			}
		}
	}
	p.index = newIndex(geom.Epsilon, p.pieces)
	return p
}

// Len returns the number of pieces.
func (p *Puzzle) Len() int {
	return len(p.pieces)
}

// Geometry returns the puzzle dimensions.
func (p *Puzzle) Geometry() Geometry {
	return p.geom
}

// Index returns the spatial index.
func (p *Puzzle) Index() *Index {
	return p.index
}

func (p *Puzzle) piece(id int) (*Piece, bool) {
	if id < 0 || id >= len(p.pieces) {
		return nil, false
	}
	return p.pieces[id], true
}

// World returns the rendered world transform of a piece.
func (p *Puzzle) World(id int) Transform {
	piece := p.pieces[id]
	if piece.parent == parentPivot {
		return compose(p.pivot, piece.local)
	}
	return piece.local
}

// CurrentFace returns the face a facelet of piece id currently points at.
func (p *Puzzle) CurrentFace(id int, f Facelet) Face {
	return FaceFromNormal(Rotate(p.World(id).Rotation, f.Home.Normal()))
}

// FaceletCentroid returns the world-space centre of a facelet.
func (p *Puzzle) FaceletCentroid(id int, f Facelet) Vec3 {
	w := p.World(id)
	lift := p.geom.PieceSize/2 + p.geom.StickerLift
	return add(w.Position, Rotate(w.Rotation, scale(f.Home.Normal(), lift)))
}

// FaceletOn returns the facelet of piece id currently facing face.
func (p *Puzzle) FaceletOn(id int, face Face) (Facelet, bool) {
	piece, ok := p.piece(id)
	if !ok {
		return Facelet{}, false
	}
	for _, f := range piece.Facelets {
		if p.CurrentFace(id, f) == face {
			return f, true
		}
	}
	return Facelet{}, false
}

// PieceState is a read-only view of a piece for renderers.
type PieceState struct {
	ID       int
	Home     Vec3
	Coord    Vec3
	World    Transform
	Attached bool
	Facelets []FaceletState
}

// FaceletState is a read-only view of a facelet.
type FaceletState struct {
	Home     Face
	Face     Face
	Color    Color
	Centroid Vec3
}

func (p *Puzzle) snapshot() []PieceState {
	out := make([]PieceState, len(p.pieces))
	for i, piece := range p.pieces {
		st := PieceState{
			ID:       piece.ID,
			Home:     piece.Home,
			Coord:    p.index.Coord(piece.ID),
			World:    p.World(piece.ID),
			Attached: piece.Attached(),
			Facelets: make([]FaceletState, len(piece.Facelets)),
		}
		for j, f := range piece.Facelets {
			st.Facelets[j] = FaceletState{
				Home:     f.Home,
				Face:     p.CurrentFace(piece.ID, f),
				Color:    f.Color,
				Centroid: p.FaceletCentroid(piece.ID, f),
			}
		}
		out[i] = st
	}
	return out
}
