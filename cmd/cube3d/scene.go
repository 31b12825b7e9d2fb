package main

import (
	"math"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/SeamusWaldron/twistycube"
)

// scene mirrors what the controller reports to its renderer. Transforms
// come from snapshots each frame; the scene tracks the pivot group and
// facelet colors between them.
type scene struct {
	mu       sync.Mutex
	attached map[int]bool
	axis     twistycube.Axis
	angle    float64
	colors   map[faceletKey]twistycube.Color
}

type faceletKey struct {
	piece int
	home  twistycube.Face
}

func newScene() *scene {
	return &scene{
		attached: make(map[int]bool),
		colors:   make(map[faceletKey]twistycube.Color),
	}
}

func (s *scene) Attach(piece int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached[piece] = true
}

func (s *scene) Detach(piece int, _ twistycube.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attached, piece)
	if len(s.attached) == 0 {
		s.angle = 0
	}
}

func (s *scene) SetPivotAngle(axis twistycube.Axis, radians float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.axis, s.angle = axis, radians
}

func (s *scene) RedrawFacelet(piece int, home twistycube.Face, c twistycube.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors[faceletKey{piece, home}] = c
}

// pivot returns the current pivot rotation for the HUD.
func (s *scene) pivot() (twistycube.Axis, float64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.axis, s.angle, len(s.attached)
}

func (s *scene) color(piece int, f twistycube.FaceletState) twistycube.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.colors[faceletKey{piece, f.Home}]; ok {
		return c
	}
	return f.Color
}

var bodyColor = rl.NewColor(20, 20, 24, 255)

// draw renders every piece of st with its world transform.
func (s *scene) draw(st twistycube.State, hover *hit) {
	g := st.Geometry
	size := float32(g.PieceSize)
	thin := float32(0.02)
	face := size * 0.86
	lift := float32(g.PieceSize/2 + g.StickerLift)

	for _, p := range st.Pieces {
		rl.PushMatrix()
		pos := p.World.Position
		rl.Translatef(float32(pos.X), float32(pos.Y), float32(pos.Z))
		angle, ax := axisAngle(p.World)
		if angle != 0 {
			rl.Rotatef(angle, ax.X, ax.Y, ax.Z)
		}

		rl.DrawCube(rl.Vector3{}, size, size, size, bodyColor)
		for _, f := range p.Facelets {
			n := f.Home.Normal()
			center := rl.Vector3{X: float32(n.X) * lift, Y: float32(n.Y) * lift, Z: float32(n.Z) * lift}
			dims := [3]float32{face, face, face}
			dims[f.Home.Axis()] = thin
			col := toRL(s.color(p.ID, f))
			if hover != nil && hover.piece == p.ID && hover.face == f.Face {
				col = rl.ColorBrightness(col, 0.35)
			}
			rl.DrawCube(center, dims[0], dims[1], dims[2], col)
		}
		rl.PopMatrix()
	}
}

// axisAngle converts a piece rotation to degrees about a unit axis.
func axisAngle(t twistycube.Transform) (float32, rl.Vector3) {
	q := t.Rotation
	w := math.Max(-1, math.Min(1, q.W))
	sin := math.Sqrt(1 - w*w)
	if sin < 1e-9 {
		return 0, rl.Vector3{}
	}
	deg := 2 * math.Acos(w) * 180 / math.Pi
	return float32(deg), rl.Vector3{X: float32(q.X / sin), Y: float32(q.Y / sin), Z: float32(q.Z / sin)}
}

func toRL(c twistycube.Color) rl.Color {
	r, g, b := c.RGB()
	return rl.NewColor(r, g, b, 255)
}

// hit is a sticker under the mouse.
type hit struct {
	piece int
	coord twistycube.Vec3
	face  twistycube.Face
}

// pick casts ray against the piece boxes. Pieces in the pivot group are
// skipped while a layer is turning.
func pick(ray rl.Ray, st twistycube.State) (hit, bool) {
	half := float32(st.Geometry.PieceSize / 2)
	best := hit{}
	bestDist := float32(math.MaxFloat32)
	found := false
	for _, p := range st.Pieces {
		if p.Attached {
			continue
		}
		c := p.World.Position
		center := rl.Vector3{X: float32(c.X), Y: float32(c.Y), Z: float32(c.Z)}
		box := rl.NewBoundingBox(
			rl.Vector3{X: center.X - half, Y: center.Y - half, Z: center.Z - half},
			rl.Vector3{X: center.X + half, Y: center.Y + half, Z: center.Z + half},
		)
		col := rl.GetRayCollisionBox(ray, box)
		if !col.Hit || col.Distance >= bestDist {
			continue
		}
		bestDist = col.Distance
		n := twistycube.NewVec(float64(col.Normal.X), float64(col.Normal.Y), float64(col.Normal.Z))
		best = hit{piece: p.ID, coord: p.Coord, face: twistycube.FaceFromNormal(n)}
		found = true
	}
	return best, found
}
