package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube/internal/storage"
)

var (
	exportGameID  string
	exportFormat  string
	exportOutput  string
	exportLast    bool
	exportNoScram bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export game data",
	Long:  `Export recorded game data in various formats.`,
}

var exportMovesCmd = &cobra.Command{
	Use:   "moves",
	Short: "Export moves from a game",
	Long: `Export the move sequence of a game in text or JSON format.

Examples:
  twistycube export moves --last
  twistycube export moves --id <game_id> --format json
  twistycube export moves --id <game_id> --format txt -o moves.txt`,
	RunE: runExportMoves,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportMovesCmd)
	exportMovesCmd.Flags().StringVar(&exportGameID, "id", "", "Game ID to export")
	exportMovesCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last game")
	exportMovesCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportMovesCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportMovesCmd.Flags().BoolVar(&exportNoScram, "no-scramble", false, "Leave out the scramble moves")
}

type moveJSON struct {
	MoveIndex int     `json:"move_index"`
	TsMs      int64   `json:"ts_ms"`
	Axis      string  `json:"axis"`
	Layer     float64 `json:"layer"`
	Direction int     `json:"direction"`
	Notation  string  `json:"notation"`
	Source    string  `json:"source"`
}

func runExportMoves(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	game, err := resolveGame(db, exportGameID, exportLast)
	if err != nil {
		return err
	}

	records, err := storage.NewMoveRepository(db).GetByGame(game.GameID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if exportNoScram {
		kept := records[:0]
		for _, r := range records {
			if r.Source != "scramble" {
				kept = append(kept, r)
			}
		}
		records = kept
	}
	if len(records) == 0 {
		return fmt.Errorf("no moves found for game %s", game.GameID)
	}

	output, err := formatMoves(records, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported %d moves to %s\n", len(records), exportOutput)
	return nil
}

func formatMoves(records []storage.MoveRecord, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		notations := make([]string, len(records))
		for i, m := range records {
			notations[i] = m.Notation
		}
		return strings.Join(notations, " "), nil

	case "json":
		out := make([]moveJSON, len(records))
		for i, m := range records {
			out[i] = moveJSON{
				MoveIndex: m.MoveIndex,
				TsMs:      m.TsMs,
				Axis:      m.Axis,
				Layer:     m.Layer,
				Direction: m.Direction,
				Notation:  m.Notation,
				Source:    m.Source,
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown format: %s (use txt or json)", format)
	}
}
