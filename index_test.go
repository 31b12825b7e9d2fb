package twistycube

import "testing"

func newTestPuzzle(t *testing.T, n int) *Puzzle {
	t.Helper()
	g := defaultConfig().geom
	g.Size = n
	p, err := NewPuzzle(g, DefaultScheme)
	if err != nil {
		t.Fatalf("NewPuzzle(%d): %v", n, err)
	}
	return p
}

func TestIndexLayerMembers(t *testing.T) {
	p := newTestPuzzle(t, 3)
	idx := p.Index()

	if idx.Len() != 27 {
		t.Fatalf("Len = %d, want 27", idx.Len())
	}
	for _, a := range Axes {
		for _, v := range []float64{-1, 0, 1} {
			if got := len(idx.LayerMembers(a, v)); got != 9 {
				t.Errorf("LayerMembers(%s, %v) = %d pieces, want 9", a, v, got)
			}
		}
	}

	// Drift within tolerance still matches.
	if got := len(idx.LayerMembers(AxisX, 1.004)); got != 9 {
		t.Errorf("LayerMembers(x, 1.004) = %d pieces, want 9", got)
	}
	if got := idx.LayerMembers(AxisX, 2); len(got) != 0 {
		t.Errorf("LayerMembers(x, 2) = %v, want none", got)
	}
}

func TestIndexEvenSize(t *testing.T) {
	p := newTestPuzzle(t, 4)
	idx := p.Index()
	for _, v := range []float64{-1.5, -0.5, 0.5, 1.5} {
		if got := len(idx.LayerMembers(AxisY, v)); got != 16 {
			t.Errorf("LayerMembers(y, %v) = %d pieces, want 16", v, got)
		}
	}
	if got := idx.LayerMembers(AxisY, 0); len(got) != 0 {
		t.Errorf("a 4x4x4 has no layer at 0, got %v", got)
	}
}

func TestIndexPieceAtAndUpdate(t *testing.T) {
	p := newTestPuzzle(t, 3)
	idx := p.Index()

	id, ok := idx.PieceAt(NewVec(1, 0, 0))
	if !ok {
		t.Fatal("no piece at (1,0,0)")
	}
	if !VecEquals(idx.Coord(id), NewVec(1, 0, 0), 1e-12) {
		t.Errorf("Coord(%d) = %v", id, idx.Coord(id))
	}

	other, ok := idx.PieceAt(NewVec(0, 1, 0))
	if !ok {
		t.Fatal("no piece at (0,1,0)")
	}
	idx.UpdatePosition(id, NewVec(0, 1, 0))
	idx.UpdatePosition(other, NewVec(1, 0, 0))
	if got, _ := idx.PieceAt(NewVec(0, 1, 0)); got != id {
		t.Errorf("PieceAt(0,1,0) after swap = %d, want %d", got, id)
	}
	if got, _ := idx.PieceAt(NewVec(1, 0, 0)); got != other {
		t.Errorf("PieceAt(1,0,0) after swap = %d, want %d", got, other)
	}
	if _, ok := idx.PieceAt(NewVec(5, 5, 5)); ok {
		t.Error("PieceAt found a piece outside the puzzle")
	}
}

func TestFaceletsOnlyOnBoundary(t *testing.T) {
	p := newTestPuzzle(t, 3)
	total := 0
	for _, piece := range p.pieces {
		total += len(piece.Facelets)
		if piece.Home == (Vec3{}) && len(piece.Facelets) != 0 {
			t.Error("core piece has facelets")
		}
	}
	if total != 54 {
		t.Errorf("3x3x3 has %d facelets, want 54", total)
	}

	single := newTestPuzzle(t, 1)
	if got := len(single.pieces[0].Facelets); got != 6 {
		t.Errorf("1x1x1 piece has %d facelets, want 6", got)
	}
}
