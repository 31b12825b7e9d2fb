package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Game is one play session in the database.
type Game struct {
	GameID       string
	Size         int
	Difficulty   *string
	ScrambleText *string
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   *int64
	Solved       bool
	Notes        *string
}

// GameRepository provides CRUD operations for games.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a game. An empty id gets a fresh UUID. It returns the id.
func (r *GameRepository) Create(id string, size int, difficulty string, startedAt time.Time) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}
	_, err := r.db.Exec(`
		INSERT INTO games (game_id, size, difficulty, started_at)
		VALUES (?, ?, ?, ?)
	`, id, size, nullable(difficulty), startedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return id, nil
}

// SetScramble records the scramble and its difficulty tier.
func (r *GameRepository) SetScramble(id, difficulty, scramble string) error {
	_, err := r.db.Exec(`
		UPDATE games SET difficulty = ?, scramble_text = ? WHERE game_id = ?
	`, nullable(difficulty), nullable(scramble), id)
	if err != nil {
		return fmt.Errorf("failed to set scramble: %w", err)
	}
	return nil
}

// SetNotes replaces the notes of a game.
func (r *GameRepository) SetNotes(id, notes string) error {
	if _, err := r.db.Exec("UPDATE games SET notes = ? WHERE game_id = ?", nullable(notes), id); err != nil {
		return fmt.Errorf("failed to set notes: %w", err)
	}
	return nil
}

// End marks a game finished and stores its duration.
func (r *GameRepository) End(id string, solved bool, endedAt time.Time) error {
	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM games WHERE game_id = ?", id).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get game start time: %w", err)
	}
	startedAt, err := time.Parse(time.RFC3339Nano, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE games
		SET ended_at = ?, duration_ms = ?, solved = ?
		WHERE game_id = ?
	`, endedAt.UTC().Format(time.RFC3339Nano), endedAt.Sub(startedAt).Milliseconds(), solved, id)
	if err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}
	return nil
}

const gameColumns = `game_id, size, difficulty, scramble_text, started_at, ended_at, duration_ms, solved, notes`

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (Game, error) {
	var g Game
	var startedAtStr string
	var endedAtStr sql.NullString
	err := s.Scan(&g.GameID, &g.Size, &g.Difficulty, &g.ScrambleText,
		&startedAtStr, &endedAtStr, &g.DurationMs, &g.Solved, &g.Notes)
	if err != nil {
		return g, err
	}
	g.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, endedAtStr.String)
		g.EndedAt = &t
	}
	return g, nil
}

// Get retrieves a game by id. It returns nil when there is none.
func (r *GameRepository) Get(id string) (*Game, error) {
	g, err := scanGame(r.db.QueryRow("SELECT "+gameColumns+" FROM games WHERE game_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &g, nil
}

// GetLast retrieves the most recent game.
func (r *GameRepository) GetLast() (*Game, error) {
	g, err := scanGame(r.db.QueryRow("SELECT " + gameColumns + " FROM games ORDER BY started_at DESC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last game: %w", err)
	}
	return &g, nil
}

// List retrieves recent games, newest first.
func (r *GameRepository) List(limit int) ([]Game, error) {
	rows, err := r.db.Query("SELECT "+gameColumns+" FROM games ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Delete deletes a game and its moves and events.
func (r *GameRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM games WHERE game_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// Stats summarises finished games.
type Stats struct {
	Games     int
	Solved    int
	BestMs    *int64
	AverageMs *float64
}

// Stats aggregates over all games of the given size.
func (r *GameRepository) Stats(size int) (Stats, error) {
	var s Stats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(solved), 0),
		       MIN(CASE WHEN solved = 1 THEN duration_ms END),
		       AVG(CASE WHEN solved = 1 THEN duration_ms END)
		FROM games
		WHERE size = ?
	`, size).Scan(&s.Games, &s.Solved, &s.BestMs, &s.AverageMs)
	if err != nil {
		return s, fmt.Errorf("failed to compute stats: %w", err)
	}
	return s, nil
}
