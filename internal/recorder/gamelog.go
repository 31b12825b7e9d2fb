package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SeamusWaldron/twistycube"
)

// LogEventType identifies the type of a logged event.
type LogEventType string

const (
	LogEventMove     LogEventType = "move"
	LogEventGesture  LogEventType = "gesture"
	LogEventScramble LogEventType = "scramble"
	LogEventSolved   LogEventType = "solved"
	LogEventReset    LogEventType = "reset"
	LogEventKeyPress LogEventType = "key_press"
)

const logVersion = "1.0"

// LogEvent is one line of a game log.
type LogEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	ElapsedMs   int64             `json:"elapsed_ms"`
	EventType   LogEventType      `json:"event_type"`
	Session     string            `json:"session,omitempty"`
	Move        *twistycube.Move  `json:"move,omitempty"`
	Source      twistycube.Source `json:"source,omitempty"`
	Notation    string            `json:"notation,omitempty"`
	KeyPress    string            `json:"key_press,omitempty"`
	Description string            `json:"description,omitempty"`
}

type logHeader struct {
	Type      string    `json:"type"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Size      int       `json:"size"`
}

// GameLog is a loaded game log.
type GameLog struct {
	Version   string
	CreatedAt time.Time
	Size      int
	Events    []LogEvent
}

// Moves returns the logged moves in order.
func (l *GameLog) Moves() []LogEvent {
	var out []LogEvent
	for _, e := range l.Events {
		if e.EventType == LogEventMove && e.Move != nil {
			out = append(out, e)
		}
	}
	return out
}

// GameLogger appends game events to a JSON-lines file. The first line is a
// header; each following line is a LogEvent. A zero GameLogger is disabled
// and drops every event.
type GameLogger struct {
	mu        sync.Mutex
	file      *os.File
	startTime time.Time
	geom      twistycube.Geometry
}

// NewGameLogger creates a disabled logger; call Start to enable it.
func NewGameLogger() *GameLogger {
	return &GameLogger{}
}

// Start creates game_YYYYMMDD_HHMMSS.jsonl in logDir and writes the header.
func (l *GameLogger) Start(logDir string, geom twistycube.Geometry) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	path := filepath.Join(logDir, fmt.Sprintf("game_%s.jsonl", now.Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.file = file
	l.startTime = now
	l.geom = geom
	return l.writeJSON(logHeader{Type: "header", Version: logVersion, CreatedAt: now, Size: geom.Size})
}

// LogMove logs a completed move.
func (l *GameLogger) LogMove(ev twistycube.MoveEvent) {
	m := ev.Move
	l.log(LogEvent{
		Timestamp: ev.At,
		EventType: LogEventMove,
		Session:   ev.Session,
		Move:      &m,
		Source:    ev.Source,
		Notation:  m.Notation(l.geom),
	})
}

// LogEvent logs a non-move event.
func (l *GameLogger) LogEvent(t LogEventType, session, description string) {
	l.log(LogEvent{Timestamp: time.Now(), EventType: t, Session: session, Description: description})
}

// LogKeyPress logs a key press.
func (l *GameLogger) LogKeyPress(key string) {
	l.log(LogEvent{Timestamp: time.Now(), EventType: LogEventKeyPress, KeyPress: key})
}

func (l *GameLogger) log(e LogEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	e.ElapsedMs = e.Timestamp.Sub(l.startTime).Milliseconds()
	l.writeJSON(e)
}

func (l *GameLogger) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = l.file.Write(append(data, '\n'))
	return err
}

// Close closes the log file.
func (l *GameLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// FilePath returns the current log file path.
func (l *GameLogger) FilePath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Name()
	}
	return ""
}

// LoadGameLog reads a game log written by GameLogger.
func LoadGameLog(path string) (*GameLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	log := &GameLog{}
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var h logHeader
			if err := json.Unmarshal(line, &h); err != nil {
				return nil, fmt.Errorf("failed to parse header: %w", err)
			}
			if h.Type != "header" {
				return nil, fmt.Errorf("%s: missing header line", path)
			}
			log.Version, log.CreatedAt, log.Size = h.Version, h.CreatedAt, h.Size
			continue
		}

		var e LogEvent
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("failed to parse event at line %d: %w", lineNum, err)
		}
		log.Events = append(log.Events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return log, nil
}
