package twistycube

import (
	"fmt"
	"math"
)

// AnchorPick is the result of picking a facelet on pointer-down.
type AnchorPick struct {
	Piece    int  // picked piece, informational
	Coord    Vec3 // lattice coordinate of the picked piece
	Centroid Vec3 // world-space centre of the picked facelet
}

// ReleasePick is the result of picking a piece on pointer-up.
type ReleasePick struct {
	Piece int
	Coord Vec3
}

// Gesture is the state held between pointer-down and pointer-up.
type Gesture struct {
	Anchor Vec3
	Locked Axis
}

// Resolution explains how a drag became a move.
type Resolution struct {
	Locked   Axis
	Drive    Axis
	Drag     Vec3
	Base     int // sign of the drag along the drive axis
	FlipPair bool
	FlipSide bool
	Move     Move
}

// rotationAxes maps (locked, drive) to the remaining axis.
var rotationAxes = map[[2]Axis]Axis{
	{AxisX, AxisY}: AxisZ,
	{AxisX, AxisZ}: AxisY,
	{AxisY, AxisX}: AxisZ,
	{AxisY, AxisZ}: AxisX,
	{AxisZ, AxisX}: AxisY,
	{AxisZ, AxisY}: AxisX,
}

// flipPairs lists the (locked, rotation) pairs whose turn sense is reversed.
// The remaining pairs, (x,z), (y,x) and (z,y), keep the drag sign.
var flipPairs = map[[2]Axis]bool{
	{AxisX, AxisY}: true,
	{AxisY, AxisZ}: true,
	{AxisZ, AxisX}: true,
}

// Interpreter turns an anchor pick and a release pick into a Move.
// It holds no state of its own; the Controller keeps the Gesture.
type Interpreter struct {
	geom      Geometry
	threshold float64
}

// NewInterpreter creates an interpreter for the given geometry.
// Drags shorter than threshold lattice units are ignored.
func NewInterpreter(geom Geometry, threshold float64) *Interpreter {
	return &Interpreter{geom: geom, threshold: threshold}
}

// LockedAxis returns the axis along which centroid lies on the outer
// half-extent of the puzzle.
func (in *Interpreter) LockedAxis(centroid Vec3) (Axis, bool) {
	half := in.geom.HalfExtent()
	for _, a := range Axes {
		if Equals(math.Abs(Component(centroid, a)), half, in.geom.Epsilon) {
			return a, true
		}
	}
	return 0, false
}

// Anchor validates an anchor pick and returns the gesture state it starts.
func (in *Interpreter) Anchor(p AnchorPick) (Gesture, error) {
	locked, ok := in.LockedAxis(p.Centroid)
	if !ok {
		return Gesture{}, fmt.Errorf("%w: centroid %v", ErrNoLockedAxis, p.Centroid)
	}
	anchor := p.Coord
	// A zero component on the locked axis only happens for N=1; take the
	// side from the centroid so the flip rule still sees the picked face.
	if Component(anchor, locked) == 0 && Component(p.Centroid, locked) < 0 {
		anchor = withComponent(anchor, locked, math.Copysign(0, -1))
	}
	return Gesture{Anchor: anchor, Locked: locked}, nil
}

// Resolve turns a gesture and its release pick into a move.
func (in *Interpreter) Resolve(g Gesture, r ReleasePick) (Resolution, error) {
	drag := sub(r.Coord, g.Anchor)
	if length(drag)+in.geom.Epsilon < in.threshold {
		return Resolution{}, ErrDragTooShort
	}

	planar := withComponent(drag, g.Locked, 0)
	drive, ok := dominantAxis(planar, g.Locked, in.geom.Epsilon)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: drag %v locked %s", ErrReleaseOffLayer, drag, g.Locked)
	}

	axis := rotationAxes[[2]Axis{g.Locked, drive}]
	res := Resolution{
		Locked: g.Locked,
		Drive:  drive,
		Drag:   drag,
		Base:   1,
	}
	if Component(planar, drive) < 0 {
		res.Base = -1
	}

	dir := res.Base
	if flipPairs[[2]Axis{g.Locked, axis}] {
		res.FlipPair = true
		dir = -dir
	}
	if math.Signbit(Component(g.Anchor, g.Locked)) {
		res.FlipSide = true
		dir = -dir
	}

	res.Move = Move{
		Axis:      axis,
		Direction: dir,
		Layer:     zero(Component(g.Anchor, axis)),
	}
	return res, nil
}

// dominantAxis returns the axis with the largest absolute component,
// skipping locked. Ties go to the first axis in x, y, z order.
func dominantAxis(v Vec3, locked Axis, eps float64) (Axis, bool) {
	best, found := AxisX, false
	bestAbs := 0.0
	for _, a := range Axes {
		if a == locked {
			continue
		}
		c := math.Abs(Component(v, a))
		if c < eps {
			continue
		}
		if !found || c > bestAbs+eps {
			best, bestAbs, found = a, c, true
		}
	}
	return best, found
}
