// Package cli implements the twistycube command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twistycube"
	"github.com/SeamusWaldron/twistycube/internal/config"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

const version = "0.2.0"

var (
	// Global flags
	cfgPath string
	dbPath  string
	size    int
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "twistycube",
	Short: "Twisty cube puzzle",
	Long: `twistycube - an N×N×N twisty cube you turn by dragging stickers.

Play in the terminal with the mouse, scramble and solve with notation,
mirror a GoCube smart cube over Bluetooth, and review recorded games.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: ~/.twistycube/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.twistycube/twistycube.db)")
	rootCmd.PersistentFlags().IntVarP(&size, "size", "n", 0, "Pieces per edge (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func configPath() (string, error) {
	if cfgPath != "" {
		return cfgPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if size > 0 {
		cfg.Size = size
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

func openDB(cfg *config.Config) (*storage.DB, error) {
	var (
		db  *storage.DB
		err error
	)
	if cfg.DBPath == "" {
		db, err = storage.OpenDefault()
	} else {
		db, err = storage.Open(cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newLogger builds the configured logger writing to w.
func newLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	log := cfg.Logger()
	log.SetOutput(w)
	return log
}

// fileLogger logs to twistycube.log in the log directory, for commands
// that own the terminal.
func fileLogger(cfg *config.Config) (*logrus.Logger, func(), error) {
	dir, err := cfg.ResolveLogDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "twistycube.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log := newLogger(cfg, f)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, func() { f.Close() }, nil
}

func newController(cfg *config.Config, log logrus.FieldLogger, extra ...twistycube.Option) (*twistycube.Controller, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, twistycube.WithLogger(log))
	return twistycube.New(append(opts, extra...)...)
}

// formatDuration formats a duration as m:ss.cc or s.cc.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}

// wrapNotation joins tokens into lines of about width characters.
func wrapNotation(tokens []string, width int) []string {
	var lines []string
	line := ""
	for _, t := range tokens {
		switch {
		case line == "":
			line = t
		case len(line)+len(t)+1 > width:
			lines = append(lines, line)
			line = t
		default:
			line += " " + t
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
