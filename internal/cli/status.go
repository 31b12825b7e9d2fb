package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube/internal/recorder"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

var statusScan bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, recorded games and device information",
	Long:  `Display the config and database in use, the active game, the last connected GoCube and, with --scan, nearby devices.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusScan, "scan", false, "Also scan for GoCube devices")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	state := stateFile.State()

	fmt.Println("twistycube status")
	fmt.Println("=================")
	fmt.Println()

	path, _ := configPath()
	fmt.Printf("Config:   %s\n", path)
	fmt.Printf("Puzzle:   %d×%d×%d, %s scrambles\n", cfg.Size, cfg.Size, cfg.Size, cfg.DifficultyTier())

	db, err := openDB(cfg)
	if err != nil {
		fmt.Printf("Database: unavailable (%v)\n", err)
	} else {
		defer db.Close()
		fmt.Printf("Database: %s\n", db.Path())

		games := storage.NewGameRepository(db)
		if last, err := games.GetLast(); err == nil && last != nil {
			fmt.Printf("Last game: %s (%s)\n", last.StartedAt.Local().Format(time.RFC3339), gameResult(*last))
		}
		if s, err := games.Stats(cfg.Size); err == nil {
			fmt.Printf("Games:    %d played, %d solved\n", s.Games, s.Solved)
		}
	}
	fmt.Println()

	if state.ActiveGameID != "" {
		fmt.Printf("Active game: %s\n", state.ActiveGameID)
		fmt.Println("  (it is closed when play or mirror exits)")
	} else {
		fmt.Println("No active game")
	}
	fmt.Println()

	if state.LastDeviceID != "" {
		fmt.Printf("Last device: %s (%s)\n", state.LastDeviceName, state.LastDeviceID)
	} else {
		fmt.Println("No device history")
	}

	if !statusScan {
		return nil
	}
	fmt.Println()
	_, results, err := scanForGoCube(cmd.Context())
	if err != nil {
		fmt.Printf("Scan error: %v\n", err)
		return nil
	}
	printScanResults(results)
	return nil
}
