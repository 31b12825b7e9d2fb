package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types stored alongside moves.
const (
	EventScramble = "scramble"
	EventSolved   = "solved"
	EventReset    = "reset"
	EventGesture  = "gesture"
)

// Event is a non-move game event.
type Event struct {
	EventID     int64
	GameID      string
	TsMs        int64
	EventType   string
	PayloadJSON string
}

// EventRepository provides CRUD operations for events.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create stores an event. payload is marshalled to JSON; nil stores {}.
func (r *EventRepository) Create(gameID string, at time.Time, eventType string, payload any) (int64, error) {
	body := []byte("{}")
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return 0, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
		}
	}

	result, err := r.db.Exec(`
		INSERT INTO events (game_id, ts_ms, event_type, payload_json)
		VALUES (?, ?, ?, ?)
	`, gameID, at.UnixMilli(), eventType, string(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get event ID: %w", err)
	}
	return id, nil
}

// GetByGame retrieves the events of a game, optionally of one type.
func (r *EventRepository) GetByGame(gameID, eventType string) ([]Event, error) {
	query := `
		SELECT event_id, game_id, ts_ms, event_type, payload_json
		FROM events
		WHERE game_id = ?`
	args := []any{gameID}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}
	query += " ORDER BY ts_ms, event_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.EventID, &e.GameID, &e.TsMs, &e.EventType, &e.PayloadJSON); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
