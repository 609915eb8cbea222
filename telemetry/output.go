package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/evosim/config"
)

// OutputManager handles structured run output with CSV logging. A nil
// manager is valid and discards everything, so headless runs can skip
// output entirely.
type OutputManager struct {
	dir          string
	statsFile    *os.File
	snapshotFile *os.File

	statsHeaderWritten    bool
	snapshotHeaderWritten bool
}

// PositionSnapshot is one organism's cell at one recorded step, the CSV
// analogue of a rendered video frame.
type PositionSnapshot struct {
	Generation int `csv:"generation"`
	Step       int `csv:"step"`
	Organism   int `csv:"organism"`
	X          int `csv:"x"`
	Y          int `csv:"y"`
}

// NewOutputManager creates the output directory, removes stale CSV
// artifacts from a previous run, and opens the output files.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := cleanFolder(dir); err != nil {
		return nil, err
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	om.statsFile = f

	f, err = os.Create(filepath.Join(dir, "snapshots.csv"))
	if err != nil {
		om.statsFile.Close()
		return nil, fmt.Errorf("creating snapshots.csv: %w", err)
	}
	om.snapshotFile = f

	return om, nil
}

func cleanFolder(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading output directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".csv") {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("cleaning output directory: %w", err)
			}
		}
	}
	return nil
}

// WriteConfig saves the effective configuration as YAML so the folder
// records the parameters that produced it.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStats appends a generation record to stats.csv. The first write
// includes headers; subsequent writes skip them.
func (om *OutputManager) WriteStats(stats GenerationStats) error {
	if om == nil {
		return nil
	}

	records := []GenerationStats{stats}
	if !om.statsHeaderWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		om.statsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// WriteSnapshots appends position records to snapshots.csv.
func (om *OutputManager) WriteSnapshots(snapshots []PositionSnapshot) error {
	if om == nil || len(snapshots) == 0 {
		return nil
	}

	if !om.snapshotHeaderWritten {
		if err := gocsv.Marshal(snapshots, om.snapshotFile); err != nil {
			return fmt.Errorf("writing snapshots: %w", err)
		}
		om.snapshotHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(snapshots, om.snapshotFile); err != nil {
		return fmt.Errorf("writing snapshots: %w", err)
	}
	return nil
}

// WriteFactorDistribution saves the fingerprint factor histogram as
// factors.csv at simulation end.
func (om *OutputManager) WriteFactorDistribution(counts []FactorCount) error {
	if om == nil {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "factors.csv"))
	if err != nil {
		return fmt.Errorf("creating factors.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(counts, f); err != nil {
		return fmt.Errorf("writing factors: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	if om.statsFile != nil {
		if err := om.statsFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.snapshotFile != nil {
		if err := om.snapshotFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
