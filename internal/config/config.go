// Package config loads the twistycube YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/twistycube"
)

// Config is the contents of config.yaml. Zero values fall back to the
// package defaults.
type Config struct {
	Size       int               `yaml:"size"`
	Difficulty string            `yaml:"difficulty"`
	TurnStep   float64           `yaml:"turn_step"`
	Spacing    float64           `yaml:"spacing"`
	PieceSize  float64           `yaml:"piece_size"`
	FrameMs    int               `yaml:"frame_ms"`
	Scheme     map[string]string `yaml:"scheme,omitempty"`
	DBPath     string            `yaml:"db_path"`
	LogDir     string            `yaml:"log_dir"`
	FeedAddr   string            `yaml:"feed_addr,omitempty"`
	LogLevel   string            `yaml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Size:       twistycube.DefaultSize,
		Difficulty: string(twistycube.Medium),
		TurnStep:   twistycube.DefaultTurnStep,
		Spacing:    twistycube.DefaultSpacing,
		PieceSize:  twistycube.DefaultPieceSize,
		FrameMs:    int(twistycube.DefaultFrame / time.Millisecond),
		LogDir:     "logs",
		LogLevel:   "warn",
	}
}

// Dir returns ~/.twistycube.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".twistycube"), nil
}

// DefaultPath returns ~/.twistycube/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path on top of Default. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that cannot be deferred to the controller.
func (c *Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("%w: %d", twistycube.ErrInvalidSize, c.Size)
	}
	if c.Difficulty != "" {
		if _, err := twistycube.ParseDifficulty(c.Difficulty); err != nil {
			return err
		}
	}
	if _, err := c.ColorScheme(); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// ColorScheme applies the scheme overrides, keyed by face name or letter,
// to the default scheme.
func (c *Config) ColorScheme() (twistycube.Scheme, error) {
	s := twistycube.DefaultScheme
	for name, hex := range c.Scheme {
		face, err := twistycube.ParseFace(name)
		if err != nil {
			return s, err
		}
		color, err := twistycube.ParseColor(hex)
		if err != nil {
			return s, fmt.Errorf("scheme %s: %w", name, err)
		}
		s[face] = color
	}
	return s, nil
}

// DifficultyTier returns the configured scramble tier.
func (c *Config) DifficultyTier() twistycube.Difficulty {
	d, err := twistycube.ParseDifficulty(c.Difficulty)
	if err != nil {
		return twistycube.Medium
	}
	return d
}

// Frame returns the frame interval.
func (c *Config) Frame() time.Duration {
	if c.FrameMs <= 0 {
		return twistycube.DefaultFrame
	}
	return time.Duration(c.FrameMs) * time.Millisecond
}

// Logger builds a logrus logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	l.SetLevel(level)
	return l
}

// ResolveLogDir returns LogDir, relative paths taken against Dir.
func (c *Config) ResolveLogDir() (string, error) {
	if filepath.IsAbs(c.LogDir) {
		return c.LogDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.LogDir), nil
}

// Options converts the file into controller options.
func (c *Config) Options() ([]twistycube.Option, error) {
	scheme, err := c.ColorScheme()
	if err != nil {
		return nil, err
	}
	opts := []twistycube.Option{
		twistycube.WithSize(c.Size),
		twistycube.WithColorScheme(scheme),
	}
	if c.TurnStep > 0 {
		opts = append(opts, twistycube.WithTurnStep(c.TurnStep))
	}
	if c.Spacing > 0 && c.PieceSize > 0 {
		opts = append(opts, twistycube.WithSpacing(c.Spacing, c.PieceSize))
	}
	return opts, nil
}
