package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerNilIsValid(t *testing.T) {
	var om *OutputManager

	if err := om.WriteStats(GenerationStats{}); err != nil {
		t.Errorf("nil manager WriteStats: %v", err)
	}
	if err := om.WriteSnapshots([]PositionSnapshot{{}}); err != nil {
		t.Errorf("nil manager WriteSnapshots: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager Close: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil manager Dir = %q", om.Dir())
	}
}

func TestNewOutputManagerEmptyDirDisablesOutput(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Error("empty dir should return a nil manager")
	}
}

func TestOutputManagerWritesStatsHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteStats(GenerationStats{Generation: 0, Survivors: 12, AvgSimilarity: 0.5, SurvivorsAvg: math.NaN(), SimilarityAvg: math.NaN()}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.WriteStats(GenerationStats{Generation: 1, Survivors: 9, AvgSimilarity: 0.6, SurvivorsAvg: math.NaN(), SimilarityAvg: math.NaN()}); err != nil {
		t.Fatalf("WriteStats: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("reading stats.csv: %v", err)
	}
	content := string(data)

	if count := strings.Count(content, "generation"); count != 1 {
		t.Errorf("header appears %d times, want 1", count)
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Errorf("stats.csv has %d lines, want header + 2 records", len(lines))
	}
	if !strings.Contains(lines[1], "12") || !strings.Contains(lines[2], "9") {
		t.Errorf("records missing survivor counts: %q", content)
	}
}

func TestOutputManagerWritesSnapshots(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	snaps := []PositionSnapshot{
		{Generation: 0, Step: 0, Organism: 0, X: 3, Y: 4},
		{Generation: 0, Step: 0, Organism: 1, X: 5, Y: 6},
	}
	if err := om.WriteSnapshots(snaps); err != nil {
		t.Fatalf("WriteSnapshots: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "snapshots.csv"))
	if err != nil {
		t.Fatalf("reading snapshots.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("snapshots.csv has %d lines, want header + 2 records", len(lines))
	}
}

func TestOutputManagerCleansStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "old_run.csv")
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale csv not removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("non-csv file was removed")
	}
}

func TestOutputManagerFactorDistribution(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	counts := []FactorCount{{Factor: 0, Count: 3}, {Factor: 100, Count: 1}}
	if err := om.WriteFactorDistribution(counts); err != nil {
		t.Fatalf("WriteFactorDistribution: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "factors.csv"))
	if err != nil {
		t.Fatalf("reading factors.csv: %v", err)
	}
	if !strings.Contains(string(data), "factor") {
		t.Errorf("factors.csv missing header: %q", string(data))
	}
}
