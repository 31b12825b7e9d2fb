package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SeamusWaldron/twistycube/internal/ble"
	"github.com/SeamusWaldron/twistycube/internal/storage"
)

func TestWrapNotation(t *testing.T) {
	tokens := strings.Fields("R U R' U' R' F R2 U' R' U' R U R' F'")
	lines := wrapNotation(tokens, 12)
	for _, l := range lines {
		if len(l) > 12 {
			t.Errorf("line %q longer than 12", l)
		}
	}
	if got := strings.Join(lines, " "); got != strings.Join(tokens, " ") {
		t.Errorf("wrapped text = %q", got)
	}
	if wrapNotation(nil, 10) != nil {
		t.Error("no tokens should give no lines")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{59 * time.Second, "59.00s"},
		{83*time.Second + 250*time.Millisecond, "1:23.25"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatMoves(t *testing.T) {
	records := []storage.MoveRecord{
		{MoveIndex: 1, Axis: "x", Layer: 1, Direction: -1, Notation: "R", Source: "pointer"},
		{MoveIndex: 2, Axis: "y", Layer: 1, Direction: 1, Notation: "U'", Source: "pointer"},
	}

	txt, err := formatMoves(records, "TXT")
	if err != nil || txt != "R U'" {
		t.Errorf("txt = %q, %v", txt, err)
	}

	out, err := formatMoves(records, "json")
	if err != nil {
		t.Fatal(err)
	}
	var decoded []moveJSON
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || decoded[1].Notation != "U'" || decoded[0].Axis != "x" {
		t.Errorf("json = %+v", decoded)
	}

	if _, err := formatMoves(records, "csv"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestResolveGame(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "cli.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	games := storage.NewGameRepository(db)
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"aaaa1111", "aaaa2222", "bbbb3333"} {
		if _, err := games.Create(id, 3, "easy", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		id      string
		last    bool
		want    string
		wantErr bool
	}{
		{id: "aaaa2222", want: "aaaa2222"},
		{id: "bbbb", want: "bbbb3333"},
		{last: true, want: "bbbb3333"},
		{id: "aaaa", wantErr: true},
		{id: "cccc", wantErr: true},
		{wantErr: true},
	}
	for _, tt := range tests {
		g, err := resolveGame(db, tt.id, tt.last)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolveGame(%q, %v) = %s, want error", tt.id, tt.last, g.GameID)
			}
			continue
		}
		if err != nil || g.GameID != tt.want {
			t.Errorf("resolveGame(%q, %v) = %v, %v, want %s", tt.id, tt.last, g, err, tt.want)
		}
	}
}

func TestPickDevice(t *testing.T) {
	results := []ble.ScanResult{
		{Name: "GoCube_A", UUID: "11:22"},
		{Name: "GoCube_B", UUID: "33:44"},
	}
	if r, err := pickDevice(results, ""); err != nil || r.Name != "GoCube_A" {
		t.Errorf("default pick = %+v, %v", r, err)
	}
	if r, err := pickDevice(results, "33:44"); err != nil || r.Name != "GoCube_B" {
		t.Errorf("pick by uuid = %+v, %v", r, err)
	}
	if _, err := pickDevice(results, "55:66"); err == nil {
		t.Error("unknown uuid should fail")
	}
	if _, err := pickDevice(nil, ""); err == nil {
		t.Error("empty scan should fail")
	}
}
