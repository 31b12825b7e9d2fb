// Package twistycube is the interaction core of an N×N×N twisty cube
// simulator. It turns pointer drags on a rendered puzzle into quarter-turns
// of one layer, animates those turns tick by tick, and reports when the
// puzzle is solved. Drawing is left to a Renderer.
//
// # Quick Start
//
//	ctrl, err := twistycube.New(twistycube.WithSize(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctrl.OnSolved(func(session string) {
//	    fmt.Println("solved!")
//	})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	go ctrl.Run(ctx, twistycube.DefaultFrame)
//
//	// Six random moves, each one finished before the next starts.
//	ctrl.Scramble(ctx, twistycube.Medium.Moves())
//
// # Gestures
//
// A front-end picks a facelet on pointer-down and a piece on pointer-up:
//
//	ctrl.PointerDown(twistycube.AnchorPick{Coord: anchor, Centroid: centroid})
//	move, err := ctrl.PointerUp(twistycube.ReleasePick{Coord: release})
//
// The face the anchor sits on locks one axis. The largest remaining drag
// component picks the drive axis, the third axis is the rotation axis, and
// the turn sense is chosen so the grabbed facelet follows the pointer.
//
// Short drags and clicks without an anchor are reported with errors for
// which IsNoop returns true. A release while a move is rotating returns
// ErrMoveInFlight and keeps the gesture so the caller can retry.
//
// # Notation
//
// Outer-layer moves can also be given in standard notation:
//
//	ctrl.ApplyNotation("R U R' U'")
//	ctrl.ApplyTurns(twistycube.F, twistycube.B2)
//
// # Coordinates
//
// Lattice coordinates are centred on the puzzle: -1, 0, 1 for a 3×3×3 and
// ±0.5, ±1.5 for a 4×4×4. World coordinates are lattice coordinates times
// the piece spacing.
package twistycube
