package recorder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

// GameState is the lifecycle state of the recorded game.
type GameState int

const (
	StateIdle GameState = iota
	StateScrambling
	StatePlaying
	StateEnded
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScrambling:
		return "scrambling"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Recorder writes every completed move and the solved event of a
// Controller to the database, the game log and the state file.
// Each controller session is one game row.
type Recorder struct {
	ctrl      *twistycube.Controller
	stateFile *StateFile
	gameLog   *GameLogger
	log       logrus.FieldLogger

	games  *storage.GameRepository
	moves  *storage.MoveRepository
	events *storage.EventRepository

	mu         sync.RWMutex
	state      GameState
	gameID     string
	difficulty twistycube.Difficulty
	scramble   []string
	moveCount  int
}

// New creates a recorder for ctrl. stateFile and gameLog may be nil.
func New(ctrl *twistycube.Controller, db *storage.DB, stateFile *StateFile, gameLog *GameLogger, log logrus.FieldLogger) *Recorder {
	if gameLog == nil {
		gameLog = NewGameLogger()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Recorder{
		ctrl:      ctrl,
		stateFile: stateFile,
		gameLog:   gameLog,
		log:       log,
		games:     storage.NewGameRepository(db),
		moves:     storage.NewMoveRepository(db),
		events:    storage.NewEventRepository(db),
	}
	ctrl.OnMove(r.handleMove)
	ctrl.OnSolved(r.handleSolved)
	return r
}

// State returns the recorder state.
func (r *Recorder) State() GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// GameID returns the id of the game being recorded.
func (r *Recorder) GameID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gameID
}

// MoveCount returns the number of moves recorded for the current game.
func (r *Recorder) MoveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.moveCount
}

// Start begins a game for the controller's current session.
func (r *Recorder) Start() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked(r.ctrl.Session())
}

func (r *Recorder) startLocked(session string) (string, error) {
	if r.gameID == session && r.state != StateIdle {
		return session, nil
	}

	id, err := r.games.Create(session, r.ctrl.Geometry().Size, string(r.difficulty), r.ctrl.Started())
	if err != nil {
		return "", err
	}
	r.gameID = id
	r.state = StatePlaying
	r.scramble = nil
	r.moveCount = 0

	if r.stateFile != nil {
		if err := r.stateFile.SetActiveGame(id); err != nil {
			r.log.WithError(err).Warn("failed to update state file")
		}
	}
	r.log.WithField("game", id).Debug("game started")
	return id, nil
}

// BeginScramble marks the following moves as the scramble of a new game.
func (r *Recorder) BeginScramble(d twistycube.Difficulty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.difficulty = d
	if _, err := r.startLocked(r.ctrl.Session()); err != nil {
		return err
	}
	r.state = StateScrambling
	r.gameLog.LogEvent(LogEventScramble, r.gameID, string(d))
	return nil
}

// EndScramble stores the scramble text and switches to playing.
func (r *Recorder) EndScramble() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateScrambling {
		return fmt.Errorf("no scramble in progress")
	}
	r.state = StatePlaying

	text := strings.Join(r.scramble, " ")
	if err := r.games.SetScramble(r.gameID, string(r.difficulty), text); err != nil {
		return err
	}
	_, err := r.events.Create(r.gameID, time.Now(), storage.EventScramble, map[string]any{
		"difficulty": r.difficulty,
		"moves":      len(r.scramble),
		"scramble":   text,
	})
	return err
}

// Finish ends the current game if it is still open.
func (r *Recorder) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishLocked(r.ctrl.IsSolved() && r.moveCount > 0)
}

func (r *Recorder) finishLocked(solved bool) error {
	if r.state == StateIdle || r.state == StateEnded {
		return nil
	}
	if err := r.games.End(r.gameID, solved, time.Now()); err != nil {
		return err
	}
	r.state = StateEnded
	if r.stateFile != nil {
		if err := r.stateFile.ClearActiveGame(); err != nil {
			r.log.WithError(err).Warn("failed to update state file")
		}
	}
	return nil
}

// Reset finishes the current game and resets the controller, which starts a
// new session.
func (r *Recorder) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ctrl.Reset(); err != nil {
		return err
	}
	if err := r.finishLocked(false); err != nil {
		return err
	}
	old := r.gameID
	r.state = StateIdle
	r.difficulty = ""
	r.gameLog.LogEvent(LogEventReset, old, "")
	if old != "" {
		if _, err := r.events.Create(old, time.Now(), storage.EventReset, nil); err != nil {
			r.log.WithError(err).Warn("failed to record reset")
		}
	}
	return nil
}

func (r *Recorder) handleMove(ev twistycube.MoveEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Moves after the solve stay on the ended game of the same session.
	if r.gameID != ev.Session || r.state == StateIdle {
		if _, err := r.startLocked(ev.Session); err != nil {
			r.log.WithError(err).Error("failed to start game")
			return
		}
	}

	notation := ev.Move.Notation(r.ctrl.Geometry())
	if ev.Source == twistycube.SourceScramble {
		r.scramble = append(r.scramble, notation)
	}
	if _, err := r.moves.Create(r.gameID, ev, notation); err != nil {
		r.log.WithError(err).WithField("move", notation).Error("failed to record move")
		return
	}
	r.moveCount++
	r.gameLog.LogMove(ev)
}

func (r *Recorder) handleSolved(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session != r.gameID {
		return
	}

	r.gameLog.LogEvent(LogEventSolved, session, "")
	if _, err := r.events.Create(session, time.Now(), storage.EventSolved, map[string]any{"moves": r.moveCount}); err != nil {
		r.log.WithError(err).Warn("failed to record solved event")
	}
	if err := r.finishLocked(true); err != nil {
		r.log.WithError(err).Error("failed to end game")
	}
}
