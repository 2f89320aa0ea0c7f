package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mqln/bisonsim/config"
)

func TestNilOutputManagerIsSafe(t *testing.T) {
	var om *OutputManager

	if err := om.WriteYear(YearStats{}); err != nil {
		t.Errorf("nil WriteYear: %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("nil WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\"): %v", err)
	}
	if om != nil {
		t.Error("empty dir should disable output, got non-nil manager")
	}
}

func TestWriteYearCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	rows := []YearStats{
		{RunID: "r", Year: 0, TotalPopulation: 100, OccupiedCells: 12},
		{RunID: "r", Year: 1, TotalPopulation: 104.5, OccupiedCells: 15},
	}
	for _, row := range rows {
		if err := om.WriteYear(row); err != nil {
			t.Fatalf("WriteYear: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "years.csv"))
	if err != nil {
		t.Fatalf("reading years.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	// Header once, then one line per year.
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "year") || !strings.Contains(lines[0], "total_population") {
		t.Errorf("header missing expected columns: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "r,0,100") {
		t.Errorf("row 1 = %s, want prefix r,0,100", lines[1])
	}
	if !strings.HasPrefix(lines[2], "r,1,104.5") {
		t.Errorf("row 2 = %s, want prefix r,1,104.5", lines[2])
	}
}

func TestWriteConfigSnapshot(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	back, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading config snapshot: %v", err)
	}
	if back.Years != cfg.Years {
		t.Errorf("snapshot Years = %d, want %d", back.Years, cfg.Years)
	}
}
