package twistycube

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scramble performs n random legal moves, one at a time. Each move is
// produced the way a player would produce it: an anchor pick on a random
// outer facelet and a release on another piece of the same face layer.
//
// Scramble does not tick the engine; something else must (Run, or a render
// loop calling Tick). It returns once the n-th move has completed and been
// observed. Cancelling ctx stops further moves; the move in flight still
// completes when ticked. A scramble re-arms the solved event, so solving the
// scrambled puzzle celebrates even if the session was solved before.
func (c *Controller) Scramble(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	c.mu.Lock()
	if c.scrambling {
		c.mu.Unlock()
		return fmt.Errorf("%w: scramble already running", ErrMoveInFlight)
	}
	c.scrambling = true
	c.celebrated = false
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.scrambling = false
		c.mu.Unlock()
	}()

	for i := 0; i < n; {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.mu.Lock()
		m, err := c.scrambleMove()
		var done chan struct{}
		if err == nil {
			done, err = c.start(m, SourceScramble)
		}
		busy := c.done
		c.mu.Unlock()

		switch {
		case errors.Is(err, ErrMoveInFlight):
			// Someone else's move; wait for it and try again.
			select {
			case <-busy:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		case err != nil:
			return err
		}

		c.log.WithFields(logrus.Fields{"move": m.String(), "n": i + 1, "of": n}).Debug("scramble move")
		select {
		case <-done:
			i++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// ScrambleDifficulty scrambles with the move count of d.
func (c *Controller) ScrambleDifficulty(ctx context.Context, d Difficulty) error {
	return c.Scramble(ctx, d.Moves())
}

// scrambleMove builds a synthetic gesture and resolves it. Callers hold mu.
func (c *Controller) scrambleMove() (Move, error) {
	if c.engine.State() == Rotating {
		return Move{}, ErrMoveInFlight
	}
	geom := c.puzzle.geom
	if geom.Size < 2 {
		return Move{}, ErrNoLegalMove
	}
	idx := c.puzzle.index

	id := c.rng.Intn(c.puzzle.Len())
	face := Faces[c.rng.Intn(len(Faces))]
	locked := face.Axis()
	edge := float64(face.Sign()) * geom.MaxCoord()

	// Project the piece onto the chosen face.
	coord := withComponent(idx.Coord(id), locked, edge)
	anchorID, ok := idx.PieceAt(coord)
	if !ok {
		return Move{}, fmt.Errorf("%w: no piece at %v", ErrUnknownPiece, coord)
	}
	centroid := add(scale(coord, geom.Spacing), scale(face.Normal(), geom.PieceSize/2+geom.StickerLift))

	g, err := c.interp.Anchor(AnchorPick{Piece: anchorID, Coord: coord, Centroid: centroid})
	if err != nil {
		return Move{}, err
	}

	var others []int
	for _, m := range idx.LayerMembers(locked, edge) {
		if m != anchorID {
			others = append(others, m)
		}
	}
	if len(others) == 0 {
		return Move{}, ErrNoLegalMove
	}
	rel := others[c.rng.Intn(len(others))]

	res, err := c.interp.Resolve(g, ReleasePick{Piece: rel, Coord: idx.Coord(rel)})
	if err != nil {
		return Move{}, err
	}
	return res.Move, nil
}
