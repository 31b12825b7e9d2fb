// Package recorder persists games played on a twistycube Controller.
package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppState is the persistent application state between runs.
type AppState struct {
	DBPath         string `json:"db_path"`
	ActiveGameID   string `json:"active_game_id,omitempty"`
	LastDeviceID   string `json:"last_device_id,omitempty"`
	LastDeviceName string `json:"last_device_name,omitempty"`
}

// StateFile manages the application state file.
type StateFile struct {
	path  string
	state AppState
}

// DefaultStatePath returns ~/.twistycube/state.json, creating the directory.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".twistycube")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(dir, "state.json"), nil
}

// NewStateFile loads the state file at path. A missing file is not an error.
func NewStateFile(path string) (*StateFile, error) {
	sf := &StateFile{path: path}
	if err := sf.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return sf, nil
}

// NewDefaultStateFile creates a state file manager with the default path.
func NewDefaultStateFile() (*StateFile, error) {
	path, err := DefaultStatePath()
	if err != nil {
		return nil, err
	}
	return NewStateFile(path)
}

// Load loads the state from disk.
func (sf *StateFile) Load() error {
	data, err := os.ReadFile(sf.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &sf.state)
}

// Save saves the state to disk.
func (sf *StateFile) Save() error {
	data, err := json.MarshalIndent(sf.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(sf.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// State returns the current state.
func (sf *StateFile) State() AppState {
	return sf.state
}

// SetDBPath sets the database path.
func (sf *StateFile) SetDBPath(path string) error {
	sf.state.DBPath = path
	return sf.Save()
}

// SetActiveGame records the game being played.
func (sf *StateFile) SetActiveGame(id string) error {
	sf.state.ActiveGameID = id
	return sf.Save()
}

// ClearActiveGame clears the active game.
func (sf *StateFile) ClearActiveGame() error {
	sf.state.ActiveGameID = ""
	return sf.Save()
}

// SetLastDevice records the last mirrored device.
func (sf *StateFile) SetLastDevice(id, name string) error {
	sf.state.LastDeviceID = id
	sf.state.LastDeviceName = name
	return sf.Save()
}

// ActiveGameID returns the active game id, or "".
func (sf *StateFile) ActiveGameID() string {
	return sf.state.ActiveGameID
}

// LastDeviceID returns the last mirrored device id.
func (sf *StateFile) LastDeviceID() string {
	return sf.state.LastDeviceID
}
