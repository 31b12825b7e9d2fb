package recorder

import (
	"fmt"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

// EventMove returns the move of a logged move event and the source to run
// it with. ok is false for every other event.
func EventMove(e LogEvent) (m twistycube.Move, src twistycube.Source, ok bool) {
	if e.EventType != LogEventMove || e.Move == nil {
		return twistycube.Move{}, "", false
	}
	src = e.Source
	if src == "" {
		src = twistycube.SourceAPI
	}
	return *e.Move, src, true
}

// Replay executes the logged moves on ctrl in order, keeping their original
// sources. fn, if set, runs after each move.
func Replay(ctrl *twistycube.Controller, events []LogEvent, fn func(i int, e LogEvent)) error {
	for i, e := range events {
		m, src, ok := EventMove(e)
		if !ok {
			continue
		}
		if err := ctrl.Execute(m, src); err != nil {
			return fmt.Errorf("replay move %d (%s): %w", i, e.Notation, err)
		}
		if fn != nil {
			fn(i, e)
		}
	}
	return nil
}

// FromRecords builds a game log from the moves stored for a game, so that
// games without a log file can be replayed.
func FromRecords(game *storage.Game, records []storage.MoveRecord) (*GameLog, error) {
	events, err := storage.ToEvents(game.GameID, records)
	if err != nil {
		return nil, err
	}
	log := &GameLog{
		Version:   logVersion,
		CreatedAt: game.StartedAt,
		Size:      game.Size,
		Events:    make([]LogEvent, 0, len(events)),
	}
	for i, ev := range events {
		m := ev.Move
		log.Events = append(log.Events, LogEvent{
			Timestamp: ev.At,
			ElapsedMs: ev.At.Sub(game.StartedAt).Milliseconds(),
			EventType: LogEventMove,
			Session:   ev.Session,
			Move:      &m,
			Source:    ev.Source,
			Notation:  records[i].Notation,
		})
	}
	return log, nil
}
