package twistycube

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// EngineState is the state of the layer rotation engine.
type EngineState int

const (
	Idle EngineState = iota
	Rotating
)

func (s EngineState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rotating:
		return "rotating"
	default:
		return "unknown"
	}
}

const quarterTurn = math.Pi / 2

// Engine animates one quarter-turn at a time.
//
// StartMove attaches the layer to the pivot, Tick advances the pivot, and the
// tick that reaches 90 degrees detaches the layer with lattice-aligned
// transforms and updates the index.
type Engine struct {
	puzzle   *Puzzle
	renderer Renderer
	log      logrus.FieldLogger
	step     float64

	state  EngineState
	move   Move
	angle  float64
	active []int
}

// NewEngine creates an idle engine for puzzle. step is the pivot
// advance per tick in radians.
func NewEngine(p *Puzzle, r Renderer, log logrus.FieldLogger, step float64) *Engine {
	if r == nil {
		r = NopRenderer{}
	}
	if log == nil {
		log = discardLogger()
	}
	return &Engine{
		puzzle:   p,
		renderer: r,
		log:      log,
		step:     step,
	}
}

// State returns the current engine state.
func (e *Engine) State() EngineState {
	return e.state
}

// Current returns the move in flight and its accumulated angle.
func (e *Engine) Current() (Move, float64, bool) {
	return e.move, e.angle, e.state == Rotating
}

// Active returns the pieces attached to the pivot.
func (e *Engine) Active() []int {
	return append([]int(nil), e.active...)
}

// StartMove begins m. It fails without touching any state if a move is
// already in flight or the layer is empty.
func (e *Engine) StartMove(m Move) error {
	fields := logrus.Fields{"axis": m.Axis, "layer": m.Layer, "direction": m.Direction}
	if e.state == Rotating {
		e.log.WithFields(fields).WithField("in_flight", e.move.String()).Debug("move rejected")
		return ErrMoveInFlight
	}
	if m.Axis < AxisX || m.Axis > AxisZ || (m.Direction != 1 && m.Direction != -1) {
		return fmt.Errorf("%w: %+v", ErrInvalidMove, m)
	}

	members := e.puzzle.index.LayerMembers(m.Axis, m.Layer)
	if len(members) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyLayer, m)
	}

	e.puzzle.pivot = Transform{Rotation: Identity}
	for _, id := range members {
		piece := e.puzzle.pieces[id]
		// With an identity pivot the local transform equals the world one.
		piece.parent = parentPivot
		e.renderer.Attach(id)
	}

	e.move = m
	e.angle = 0
	e.active = members
	e.state = Rotating
	e.log.WithFields(fields).WithField("pieces", len(members)).Debug("move started")
	return nil
}

// Tick advances the pivot by one step. It reports whether this tick
// completed the move in flight.
func (e *Engine) Tick() (Move, bool) {
	if e.state != Rotating {
		return Move{}, false
	}

	e.angle += e.step * float64(e.move.Direction)
	done := math.Abs(e.angle) >= quarterTurn-1e-9
	if done {
		e.angle = quarterTurn * float64(e.move.Direction)
	}
	e.puzzle.pivot.Rotation = AxisAngle(e.move.Axis, e.angle)
	e.renderer.SetPivotAngle(e.move.Axis, e.angle)

	if !done {
		return Move{}, false
	}
	m := e.move
	e.complete()
	return m, true
}

// Finish runs the move in flight to completion.
func (e *Engine) Finish() (Move, bool) {
	for e.state == Rotating {
		if m, done := e.Tick(); done {
			return m, true
		}
	}
	return Move{}, false
}

func (e *Engine) complete() {
	geom := e.puzzle.geom
	for _, id := range e.active {
		piece := e.puzzle.pieces[id]
		world := compose(e.puzzle.pivot, piece.local)
		e.renderer.Detach(id, world)

		coord := geom.SnapVec(scale(world.Position, 1/geom.Spacing))
		piece.parent = parentScene
		piece.local = Transform{
			Position: scale(coord, geom.Spacing),
			Rotation: SnapRotation(world.Rotation),
		}
		e.puzzle.index.UpdatePosition(id, coord)
	}

	e.puzzle.pivot = Transform{Rotation: Identity}
	e.log.WithFields(logrus.Fields{
		"axis":      e.move.Axis,
		"layer":     e.move.Layer,
		"direction": e.move.Direction,
	}).Debug("move completed")

	e.active = nil
	e.angle = 0
	e.move = Move{}
	e.state = Idle
}
