package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SeamusWaldron/twistycube"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 3 || cfg.DifficultyTier() != twistycube.Medium {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
size: 4
difficulty: hard
frame_ms: 10
scheme:
  top: "#000000"
  R: "ff0000"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Size != 4 || cfg.DifficultyTier() != twistycube.Hard {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Spacing != twistycube.DefaultSpacing {
		t.Errorf("unset spacing = %v, want default", cfg.Spacing)
	}
	if cfg.Frame().Milliseconds() != 10 {
		t.Errorf("Frame = %v", cfg.Frame())
	}

	s, err := cfg.ColorScheme()
	if err != nil {
		t.Fatal(err)
	}
	if s[twistycube.FaceTop] != 0 || s[twistycube.FaceRight] != 0xff0000 {
		t.Errorf("scheme = %v", s)
	}
	if s[twistycube.FaceBack] != twistycube.DefaultScheme[twistycube.FaceBack] {
		t.Error("faces without an override keep the default color")
	}

	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	c, err := twistycube.New(opts...)
	if err != nil {
		t.Fatal(err)
	}
	if c.Geometry().Size != 4 || c.Scheme()[twistycube.FaceRight] != 0xff0000 {
		t.Error("options not applied to the controller")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"size", "size: 0\n", twistycube.ErrInvalidSize},
		{"color", "scheme:\n  top: nothex\n", twistycube.ErrInvalidColor},
		{"difficulty", "difficulty: insane\n", nil},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), tt.name+".yaml")
		if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Size = 2
	cfg.FeedAddr = ":8090"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != 2 || got.FeedAddr != ":8090" {
		t.Errorf("loaded %+v", got)
	}
}
