package twistycube

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func tickUntilIdle(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; c.Rotating(); i++ {
		if i > 1000 {
			t.Fatal("move never completed")
		}
		c.Tick()
	}
}

func TestControllerPointerScenario(t *testing.T) {
	c := newTestController(t)
	geom := c.Geometry()

	anchorID, _ := c.PieceAt(NewVec(1, 0, 0))
	cornerID, _ := c.PieceAt(NewVec(1, -1, 0))
	releaseID, _ := c.PieceAt(NewVec(1, 1, 0))

	pick := anchorOn(geom, NewVec(1, 0, 0), FaceRight)
	pick.Piece = anchorID
	if err := c.PointerDown(pick); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	m, err := c.PointerUp(ReleasePick{Piece: releaseID, Coord: NewVec(1, 1, 0)})
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if want := (Move{Axis: AxisZ, Direction: 1, Layer: 0}); m != want {
		t.Errorf("move = %+v, want %+v", m, want)
	}
	if _, ok := c.Gesture(); ok {
		t.Error("gesture should be cleared after a started move")
	}
	tickUntilIdle(t, c)

	if got, _ := c.PieceAt(NewVec(1, 1, 0)); got != cornerID {
		t.Errorf("(1,1,0) holds piece %d, want %d", got, cornerID)
	}
	if got, _ := c.PieceAt(NewVec(0, 1, 0)); got != anchorID {
		t.Errorf("(0,1,0) holds piece %d, want %d", got, anchorID)
	}
	if c.IsSolved() {
		t.Error("puzzle should not be solved after one turn")
	}
}

func TestControllerPointerUpWithoutAnchor(t *testing.T) {
	c := newTestController(t)
	_, err := c.PointerUp(ReleasePick{Coord: NewVec(1, 1, 0)})
	if !errors.Is(err, ErrNoAnchor) || !IsNoop(err) {
		t.Errorf("err = %v, want ErrNoAnchor", err)
	}
}

func TestControllerPointerUpRetriesAfterMoveInFlight(t *testing.T) {
	c := newTestController(t)
	geom := c.Geometry()

	if _, err := c.StartMove(Move{Axis: AxisX, Direction: 1, Layer: -1}, SourceAPI); err != nil {
		t.Fatal(err)
	}
	c.Tick()

	if err := c.PointerDown(anchorOn(geom, NewVec(1, 0, 0), FaceRight)); err != nil {
		t.Fatal(err)
	}
	release := ReleasePick{Coord: NewVec(1, 1, 0)}
	m, err := c.PointerUp(release)
	if !errors.Is(err, ErrMoveInFlight) {
		t.Fatalf("PointerUp while rotating: err = %v, want ErrMoveInFlight", err)
	}
	if m.Axis != AxisZ {
		t.Errorf("resolved move = %+v, want a z turn", m)
	}
	if _, ok := c.Gesture(); !ok {
		t.Fatal("gesture should survive a rejected release")
	}

	tickUntilIdle(t, c)
	if _, err := c.PointerUp(release); err != nil {
		t.Fatalf("retried PointerUp: %v", err)
	}
	tickUntilIdle(t, c)
	if c.Moves() != 2 {
		t.Errorf("Moves = %d, want 2", c.Moves())
	}
}

func TestControllerCelebratesOnce(t *testing.T) {
	c := newTestController(t)
	var solved []string
	c.OnSolved(func(session string) {
		solved = append(solved, session)
	})

	first := c.Session()
	if err := c.ApplyNotation("R R'"); err != nil {
		t.Fatal(err)
	}
	if len(solved) != 1 || solved[0] != first {
		t.Fatalf("solved events = %v, want one for %s", solved, first)
	}

	if err := c.ApplyNotation("U U'"); err != nil {
		t.Fatal(err)
	}
	if len(solved) != 1 {
		t.Errorf("celebration fired %d times in one session", len(solved))
	}

	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if c.Session() == first {
		t.Error("Reset should start a new session")
	}
	if err := c.ApplyNotation("F F'"); err != nil {
		t.Fatal(err)
	}
	if len(solved) != 2 {
		t.Errorf("solved events after reset = %d, want 2", len(solved))
	}
}

func TestControllerResetWhileRotating(t *testing.T) {
	c := newTestController(t)
	if _, err := c.StartMove(Move{Axis: AxisY, Direction: 1, Layer: 0}, SourceAPI); err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(); !errors.Is(err, ErrMoveInFlight) {
		t.Errorf("Reset while rotating: err = %v", err)
	}
	tickUntilIdle(t, c)
	if err := c.Reset(); err != nil {
		t.Errorf("Reset when idle: %v", err)
	}
	if c.Moves() != 0 || !c.IsSolved() {
		t.Error("Reset should leave a solved puzzle with no moves")
	}
}

func TestControllerMoveEvents(t *testing.T) {
	c := newTestController(t)
	var events []MoveEvent
	c.OnMove(func(ev MoveEvent) {
		events = append(events, ev)
	})

	done, err := c.StartMove(Move{Axis: AxisX, Direction: -1, Layer: 1}, SourceDevice)
	if err != nil {
		t.Fatal(err)
	}
	tickUntilIdle(t, c)
	select {
	case <-done:
	default:
		t.Fatal("done channel not closed after completion")
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Source != SourceDevice || ev.Index != 1 || ev.Session != c.Session() {
		t.Errorf("event = %+v", ev)
	}
	if ev.Move.Notation(c.Geometry()) != "R" {
		t.Errorf("event move = %s, want R", ev.Move.Notation(c.Geometry()))
	}
}

func TestControllerSetFaceColor(t *testing.T) {
	r := newRecordRenderer()
	c := newTestController(t, WithRenderer(r))

	c.SetFaceColor(FaceTop, 0x123456)
	if r.redraws != 9 {
		t.Errorf("redraws = %d, want 9", r.redraws)
	}
	if c.Scheme()[FaceTop] != 0x123456 {
		t.Error("scheme not updated")
	}
	if !c.IsSolved() {
		t.Error("recoloring a face must not unsolve the puzzle")
	}
	st := c.Snapshot()
	for _, p := range st.Pieces {
		for _, f := range p.Facelets {
			if f.Home == FaceTop && f.Color != 0x123456 {
				t.Errorf("piece %d top facelet is %s", p.ID, f.Color)
			}
		}
	}
}

func TestControllerSnapshotWhileRotating(t *testing.T) {
	c := newTestController(t)
	if _, err := c.StartMove(Move{Axis: AxisZ, Direction: 1, Layer: 1}, SourceAPI); err != nil {
		t.Fatal(err)
	}
	c.Tick()

	st := c.Snapshot()
	if !st.Rotating || st.Angle <= 0 || !st.Solved {
		t.Errorf("snapshot = rotating %v angle %v solved %v", st.Rotating, st.Angle, st.Solved)
	}
	attached := 0
	for _, p := range st.Pieces {
		if p.Attached {
			attached++
		}
	}
	if attached != 9 {
		t.Errorf("attached = %d, want 9", attached)
	}
}

func TestScrambleZeroMoves(t *testing.T) {
	c := newTestController(t)
	if err := c.Scramble(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if !c.IsSolved() || c.Moves() != 0 {
		t.Error("a scramble of 0 moves must leave the puzzle untouched")
	}
}

func TestScrambleRunsExactlyKMoves(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		c := newTestController(t, WithSize(n), WithSeed(int64(n)))

		var mu sync.Mutex
		var sources []Source
		c.OnMove(func(ev MoveEvent) {
			mu.Lock()
			sources = append(sources, ev.Source)
			mu.Unlock()
		})
		var celebrations atomic.Int32
		c.OnSolved(func(string) { celebrations.Add(1) })

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		go c.Run(ctx, time.Millisecond)

		const k = 7
		if err := c.Scramble(ctx, k); err != nil {
			cancel()
			t.Fatalf("N=%d Scramble: %v", n, err)
		}
		cancel()

		mu.Lock()
		got := len(sources)
		for _, s := range sources {
			if s != SourceScramble {
				t.Errorf("N=%d unexpected source %s", n, s)
			}
		}
		mu.Unlock()

		if got != k {
			t.Errorf("N=%d observed %d moves, want %d", n, got, k)
		}
		if c.Rotating() || c.Scrambling() {
			t.Errorf("N=%d controller busy after Scramble returned", n)
		}
		if celebrations.Load() != 0 {
			t.Errorf("N=%d scramble fired the solved event", n)
		}
	}
}

func TestScrambleSingleCube(t *testing.T) {
	c := newTestController(t, WithSize(1))
	if err := c.Scramble(context.Background(), 1); !errors.Is(err, ErrNoLegalMove) {
		t.Errorf("err = %v, want ErrNoLegalMove", err)
	}
}

func TestScrambleCancelled(t *testing.T) {
	c := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Scramble(ctx, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if c.Scrambling() {
		t.Error("scrambling flag left set")
	}
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(WithSize(0)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestControllerPickHelpers(t *testing.T) {
	c := newTestController(t)
	geom := c.Geometry()

	if _, ok := c.PickSticker(NewVec(5, 5, 5), FaceRight); ok {
		t.Error("PickSticker off the lattice should report false")
	}
	if _, ok := c.PickPiece(NewVec(5, 5, 5)); ok {
		t.Error("PickPiece off the lattice should report false")
	}

	anchor, ok := c.PickSticker(NewVec(1, 0, 0), FaceRight)
	if !ok {
		t.Fatal("PickSticker found no piece")
	}
	if want := anchorOn(geom, NewVec(1, 0, 0), FaceRight); anchor.Centroid != want.Centroid {
		t.Errorf("centroid = %+v, want %+v", anchor.Centroid, want.Centroid)
	}
	if err := c.PointerDown(anchor); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}

	release, ok := c.PickPiece(NewVec(1, 1, 0))
	if !ok {
		t.Fatal("PickPiece found no piece")
	}
	m, err := c.PointerUp(release)
	if err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if want := (Move{Axis: AxisZ, Direction: 1, Layer: 0}); m != want {
		t.Errorf("move = %+v, want %+v", m, want)
	}
	tickUntilIdle(t, c)
}

func TestScrambleRearmsSolvedEvent(t *testing.T) {
	c := newTestController(t)
	var celebrations atomic.Int32
	c.OnSolved(func(string) { celebrations.Add(1) })

	if err := c.ApplyNotation("R R'"); err != nil {
		t.Fatal(err)
	}
	if got := celebrations.Load(); got != 1 {
		t.Fatalf("celebrations after R R' = %d, want 1", got)
	}

	var mu sync.Mutex
	var scrambled []Move
	c.OnMove(func(ev MoveEvent) {
		if ev.Source == SourceScramble {
			mu.Lock()
			scrambled = append(scrambled, ev.Move)
			mu.Unlock()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	go c.Run(ctx, time.Millisecond)
	err := c.Scramble(ctx, 3)
	cancel()
	if err != nil {
		t.Fatalf("Scramble: %v", err)
	}
	tickUntilIdle(t, c)

	mu.Lock()
	undo := append([]Move{}, scrambled...)
	mu.Unlock()
	for i := len(undo) - 1; i >= 0; i-- {
		if err := c.Execute(undo[i].Inverse(), SourceAPI); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	if !c.IsSolved() {
		t.Fatal("undoing the scramble should solve the puzzle")
	}
	if got := celebrations.Load(); got != 2 {
		t.Errorf("celebrations after solving the scramble = %d, want 2", got)
	}
}

func TestNewRejectsBadTurnStep(t *testing.T) {
	for _, step := range []float64{0, -math.Pi / 32, math.NaN(), math.Inf(1)} {
		if _, err := New(WithTurnStep(step)); !errors.Is(err, ErrInvalidTurnStep) {
			t.Errorf("step %v: err = %v, want ErrInvalidTurnStep", step, err)
		}
	}
}

func TestNewRejectsBadDragThreshold(t *testing.T) {
	for _, d := range []float64{0, -1, math.NaN()} {
		if _, err := New(WithDragThreshold(d)); !errors.Is(err, ErrInvalidDrag) {
			t.Errorf("threshold %v: err = %v, want ErrInvalidDrag", d, err)
		}
	}
}
