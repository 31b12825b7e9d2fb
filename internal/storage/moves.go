package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/twistycube"
)

// MoveRecord is a completed layer move in the database.
type MoveRecord struct {
	MoveID    int64
	GameID    string
	MoveIndex int
	TsMs      int64
	Axis      string
	Layer     float64
	Direction int
	Notation  string
	Source    string
}

// Move converts the record back to a layer move.
func (m MoveRecord) Move() (twistycube.Move, error) {
	axis, err := twistycube.ParseAxis(m.Axis)
	if err != nil {
		return twistycube.Move{}, err
	}
	return twistycube.Move{Axis: axis, Direction: m.Direction, Layer: m.Layer}, nil
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (game_id, move_index, ts_ms, axis, layer, direction, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Create stores one completed move and returns its row id.
func (r *MoveRepository) Create(gameID string, ev twistycube.MoveEvent, notation string) (int64, error) {
	result, err := r.db.Exec(insertMove, gameID, ev.Index, ev.At.UnixMilli(),
		ev.Move.Axis.String(), ev.Move.Layer, ev.Move.Direction, notation, string(ev.Source))
	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}
	return id, nil
}

// CreateBatch stores several moves in a single transaction.
func (r *MoveRepository) CreateBatch(gameID string, events []twistycube.MoveEvent, g twistycube.Geometry) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for _, ev := range events {
			_, err := tx.Exec(insertMove, gameID, ev.Index, ev.At.UnixMilli(),
				ev.Move.Axis.String(), ev.Move.Layer, ev.Move.Direction, ev.Move.Notation(g), string(ev.Source))
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", ev.Index, err)
			}
		}
		return nil
	})
}

// GetByGame retrieves all moves of a game in order.
func (r *MoveRepository) GetByGame(gameID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, game_id, move_index, ts_ms, axis, layer, direction, notation, source
		FROM moves
		WHERE game_id = ?
		ORDER BY move_index
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.GameID, &m.MoveIndex, &m.TsMs,
			&m.Axis, &m.Layer, &m.Direction, &m.Notation, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// Count returns the number of moves of a game.
func (r *MoveRepository) Count(gameID string) (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE game_id = ?", gameID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// CountBySource returns the number of moves of a game per source.
func (r *MoveRepository) CountBySource(gameID string) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT source, COUNT(*) FROM moves WHERE game_id = ? GROUP BY source
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to count moves by source: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, fmt.Errorf("failed to scan move count: %w", err)
		}
		out[src] = n
	}
	return out, rows.Err()
}

// ToEvents converts records to move events for replay.
func ToEvents(gameID string, records []MoveRecord) ([]twistycube.MoveEvent, error) {
	events := make([]twistycube.MoveEvent, 0, len(records))
	for _, rec := range records {
		m, err := rec.Move()
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", rec.MoveIndex, err)
		}
		events = append(events, twistycube.MoveEvent{
			Session: gameID,
			Index:   rec.MoveIndex,
			Move:    m,
			Source:  twistycube.Source(rec.Source),
			At:      time.UnixMilli(rec.TsMs),
		})
	}
	return events, nil
}
