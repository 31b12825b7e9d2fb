package twistycube

// Index maps every piece to its current lattice coordinate.
// It is written only at move completion; all queries are tolerant to
// floating drift.
type Index struct {
	eps    float64
	coords []Vec3
}

func newIndex(eps float64, pieces []*Piece) *Index {
	idx := &Index{
		eps:    eps,
		coords: make([]Vec3, len(pieces)),
	}
	for i, p := range pieces {
		idx.coords[i] = p.Home
	}
	return idx
}

// Len returns the number of indexed pieces.
func (idx *Index) Len() int {
	return len(idx.coords)
}

// Coord returns the lattice coordinate of a piece.
func (idx *Index) Coord(id int) Vec3 {
	return idx.coords[id]
}

// UpdatePosition records the new lattice coordinate of a piece.
func (idx *Index) UpdatePosition(id int, c Vec3) {
	idx.coords[id] = c
}

// LayerMembers returns the pieces whose coordinate along axis equals value
// within tolerance, in piece order.
func (idx *Index) LayerMembers(axis Axis, value float64) []int {
	var ids []int
	for id, c := range idx.coords {
		if Equals(Component(c, axis), value, idx.eps) {
			ids = append(ids, id)
		}
	}
	return ids
}

// PieceAt returns the piece occupying lattice coordinate c.
func (idx *Index) PieceAt(c Vec3) (int, bool) {
	for id, pc := range idx.coords {
		if VecEquals(pc, c, idx.eps) {
			return id, true
		}
	}
	return -1, false
}
