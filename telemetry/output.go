package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/mqln/bisonsim/config"
	"github.com/mqln/bisonsim/sim"
)

// OutputManager handles structured run output with CSV logging. A nil
// OutputManager is valid and silently discards everything, so hosts can
// leave output disabled without branching.
type OutputManager struct {
	dir       string
	yearsFile *os.File

	yearsHeaderWritten bool
}

// NewOutputManager creates the output directory and opens years.csv.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "years.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating years.csv: %w", err)
	}

	return &OutputManager{dir: dir, yearsFile: f}, nil
}

// WriteConfig saves the run's configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteMetadata saves the run metadata (run ID, grid shape, seed) as YAML.
func (om *OutputManager) WriteMetadata(meta sim.Metadata) error {
	if om == nil {
		return nil
	}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling run metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "run.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing run metadata: %w", err)
	}
	return nil
}

// WriteYear appends one year's stats row to years.csv.
func (om *OutputManager) WriteYear(stats YearStats) error {
	if om == nil {
		return nil
	}

	records := []YearStats{stats}

	if !om.yearsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.yearsFile); err != nil {
			return fmt.Errorf("writing year stats: %w", err)
		}
		om.yearsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.yearsFile); err != nil {
			return fmt.Errorf("writing year stats: %w", err)
		}
	}

	return nil
}

// Close flushes and closes the open files.
func (om *OutputManager) Close() error {
	if om == nil || om.yearsFile == nil {
		return nil
	}
	err := om.yearsFile.Close()
	om.yearsFile = nil
	return err
}
