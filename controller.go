package twistycube

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Source identifies what requested a move.
type Source string

const (
	SourcePointer  Source = "pointer"
	SourceScramble Source = "scramble"
	SourceNotation Source = "notation"
	SourceDevice   Source = "device"
	SourceAPI      Source = "api"
)

// MoveEvent is published after every completed move.
type MoveEvent struct {
	Session string    `json:"session"`
	Index   int       `json:"index"`
	Move    Move      `json:"move"`
	Source  Source    `json:"source"`
	At      time.Time `json:"at"`
}

// State is a read-only copy of the controller for renderers.
type State struct {
	Session  string
	Geometry Geometry
	Pieces   []PieceState
	Rotating bool
	Move     Move
	Angle    float64
	Moves    int
	Solved   bool
}

// Controller is one game session: the puzzle, its gesture state, the
// rotation engine and the solved latch. All methods are safe for
// concurrent use. Callbacks run outside the lock and may call back in.
type Controller struct {
	mu     sync.Mutex
	cfg    *config
	log    logrus.FieldLogger
	rng    *rand.Rand
	puzzle *Puzzle
	interp *Interpreter
	engine *Engine

	session    string
	started    time.Time
	gesture    *Gesture
	source     Source
	done       chan struct{}
	moves      int
	scrambling bool
	celebrated bool

	onMove   []func(MoveEvent)
	onSolved []func(session string)
}

// New creates a controller holding a solved puzzle.
func New(opts ...Option) (*Controller, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = time.Now().UnixNano()
	}

	c := &Controller{
		cfg: cfg,
		log: cfg.logger,
		rng: rand.New(rand.NewSource(seed)),
	}
	c.rebuild()
	return c, nil
}

func (c *Controller) rebuild() {
	c.puzzle = newPuzzle(c.cfg.geom, c.cfg.scheme)
	c.interp = NewInterpreter(c.cfg.geom, c.cfg.dragThreshold)
	c.engine = NewEngine(c.puzzle, c.cfg.renderer, c.log, c.cfg.turnStep)
	c.session = uuid.New().String()
	c.started = time.Now()
	c.gesture = nil
	c.moves = 0
	c.celebrated = false
}

// OnMove registers a callback fired after every completed move.
func (c *Controller) OnMove(fn func(MoveEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMove = append(c.onMove, fn)
}

// OnSolved registers a callback fired when a move leaves the puzzle
// solved. It fires at most once per session and never during a scramble.
func (c *Controller) OnSolved(fn func(session string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSolved = append(c.onSolved, fn)
}

// Session returns the current session id.
func (c *Controller) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Started returns when the current session began.
func (c *Controller) Started() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Geometry returns the puzzle dimensions.
func (c *Controller) Geometry() Geometry {
	return c.cfg.geom
}

// Scheme returns the current color scheme.
func (c *Controller) Scheme() Scheme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.scheme
}

// Rotating reports whether a move is in flight.
func (c *Controller) Rotating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.State() == Rotating
}

// Scrambling reports whether a scramble is running.
func (c *Controller) Scrambling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrambling
}

// Moves returns the number of moves completed in this session.
func (c *Controller) Moves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moves
}

// IsSolved reports whether every face is uniform. While a move is in flight
// it reports the state before that move.
func (c *Controller) IsSolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine.State() == Rotating {
		return c.solvedBeforeMove()
	}
	return c.puzzle.IsSolved()
}

// solvedBeforeMove evaluates with the pivot at identity.
func (c *Controller) solvedBeforeMove() bool {
	pivot := c.puzzle.pivot
	c.puzzle.pivot = Transform{Rotation: Identity}
	defer func() { c.puzzle.pivot = pivot }()
	return c.puzzle.IsSolved()
}

// Progress returns which faces are uniform.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puzzle.Progress()
}

// Gesture returns the pending gesture, if any.
func (c *Controller) Gesture() (Gesture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gesture == nil {
		return Gesture{}, false
	}
	return *c.gesture, true
}

// PieceAt returns the piece currently at lattice coordinate coord.
func (c *Controller) PieceAt(coord Vec3) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puzzle.index.PieceAt(coord)
}

// PickSticker builds the anchor pick for the sticker facing face on the
// piece at coord. It reports false if no piece is there.
func (c *Controller) PickSticker(coord Vec3, face Face) (AnchorPick, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.puzzle.index.PieceAt(coord)
	if !ok {
		return AnchorPick{}, false
	}
	return AnchorPick{Piece: id, Coord: coord, Centroid: c.cfg.geom.StickerCentroid(coord, face)}, true
}

// PickPiece builds the release pick for the piece at coord.
func (c *Controller) PickPiece(coord Vec3) (ReleasePick, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.puzzle.index.PieceAt(coord)
	if !ok {
		return ReleasePick{}, false
	}
	return ReleasePick{Piece: id, Coord: coord}, true
}

// PointerDown records an anchor pick. A pick that is not on an outer face
// clears the pending gesture and returns ErrNoLockedAxis.
func (c *Controller) PointerDown(p AnchorPick) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, err := c.interp.Anchor(p)
	if err != nil {
		c.gesture = nil
		c.log.WithError(err).Debug("anchor ignored")
		return err
	}
	c.gesture = &g
	c.log.WithFields(logrus.Fields{"piece": p.Piece, "locked": g.Locked}).Debug("anchor")
	return nil
}

// PointerUp resolves the pending gesture against the release pick and starts
// the resulting move.
//
// If a move is already in flight the resolved move is returned together with
// ErrMoveInFlight and the gesture is kept, so the same release can be
// retried once the engine is idle. Every other outcome clears the gesture.
func (c *Controller) PointerUp(r ReleasePick) (Move, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gesture == nil {
		return Move{}, ErrNoAnchor
	}
	res, err := c.interp.Resolve(*c.gesture, r)
	if err != nil {
		c.gesture = nil
		c.log.WithError(err).Debug("release ignored")
		return Move{}, err
	}
	if _, err := c.start(res.Move, SourcePointer); err != nil {
		if errors.Is(err, ErrMoveInFlight) {
			return res.Move, err
		}
		c.gesture = nil
		return res.Move, err
	}
	c.gesture = nil
	return res.Move, nil
}

// CancelGesture drops the pending gesture.
func (c *Controller) CancelGesture() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gesture = nil
}

// StartMove begins m. The returned channel is closed after the move has
// completed and every observer has been notified.
func (c *Controller) StartMove(m Move, src Source) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start(m, src)
}

func (c *Controller) start(m Move, src Source) (chan struct{}, error) {
	if err := c.engine.StartMove(m); err != nil {
		c.log.WithError(err).WithField("source", src).Debug("move not started")
		return nil, err
	}
	c.source = src
	c.done = make(chan struct{})
	return c.done, nil
}

// Done returns the completion channel of the move in flight, or nil.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Tick advances the move in flight by one step. It reports whether the
// move completed on this tick.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	m, completed := c.engine.Tick()
	if !completed {
		c.mu.Unlock()
		return false
	}

	c.moves++
	ev := MoveEvent{
		Session: c.session,
		Index:   c.moves,
		Move:    m,
		Source:  c.source,
		At:      time.Now(),
	}
	solved := false
	if !c.scrambling && c.source != SourceScramble && !c.celebrated && c.puzzle.IsSolved() {
		c.celebrated = true
		solved = true
	}
	done := c.done
	c.done = nil
	onMove := append([]func(MoveEvent){}, c.onMove...)
	onSolved := append([]func(string){}, c.onSolved...)
	session := c.session
	c.mu.Unlock()

	for _, fn := range onMove {
		fn(ev)
	}
	if solved {
		c.log.WithField("session", session).Info("puzzle solved")
		for _, fn := range onSolved {
			fn(session)
		}
	}
	close(done)
	return true
}

// Run ticks the engine once per frame until ctx is done.
func (c *Controller) Run(ctx context.Context, frame time.Duration) error {
	if frame <= 0 {
		frame = DefaultFrame
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Execute starts m and ticks it to completion without animation pacing.
func (c *Controller) Execute(m Move, src Source) error {
	done, err := c.StartMove(m, src)
	if err != nil {
		return err
	}
	for {
		select {
		case <-done:
			return nil
		default:
			c.Tick()
		}
	}
}

// ApplyTurns executes face turns one after another.
func (c *Controller) ApplyTurns(turns ...FaceTurn) error {
	return c.applyTurns(turns, SourceNotation)
}

// ApplyTurnsFrom executes face turns attributed to src.
func (c *Controller) ApplyTurnsFrom(src Source, turns ...FaceTurn) error {
	return c.applyTurns(turns, src)
}

func (c *Controller) applyTurns(turns []FaceTurn, src Source) error {
	for _, t := range turns {
		for _, m := range t.LayerMoves(c.cfg.geom) {
			if err := c.Execute(m, src); err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyNotation parses and executes a sequence such as "R U R' U'".
// Nothing is executed if the sequence does not parse.
func (c *Controller) ApplyNotation(s string) error {
	turns, err := ParseFaceTurns(s)
	if err != nil {
		return err
	}
	return c.ApplyTurns(turns...)
}

// SetFaceColor recolors every facelet whose home is face and asks the
// renderer to redraw it.
func (c *Controller) SetFaceColor(face Face, color Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.scheme[face] = color
	for _, piece := range c.puzzle.pieces {
		for i := range piece.Facelets {
			if piece.Facelets[i].Home == face {
				piece.Facelets[i].Color = color
				c.cfg.renderer.RedrawFacelet(piece.ID, face, color)
			}
		}
	}
}

// Reset rebuilds a solved puzzle and starts a new session.
// It fails with ErrMoveInFlight while a move is rotating.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine.State() == Rotating {
		return ErrMoveInFlight
	}
	c.rebuild()
	c.log.WithField("session", c.session).Debug("reset")
	return nil
}

// Snapshot returns a read-only copy of the puzzle.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, angle, rotating := c.engine.Current()
	st := State{
		Session:  c.session,
		Geometry: c.cfg.geom,
		Pieces:   c.puzzle.snapshot(),
		Rotating: rotating,
		Move:     m,
		Angle:    angle,
		Moves:    c.moves,
	}
	if rotating {
		st.Solved = c.solvedBeforeMove()
	} else {
		st.Solved = c.puzzle.IsSolved()
	}
	return st
}
