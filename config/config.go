// Package config provides configuration loading and access for the simulation.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Run      RunConfig      `yaml:"run"`
	Genome   GenomeConfig   `yaml:"genome"`
	Brain    BrainConfig    `yaml:"brain"`
	Grid     GridConfig     `yaml:"grid"`
	Senses   SensesConfig   `yaml:"senses"`
	Mating   MatingConfig   `yaml:"mating"`
	Survival SurvivalConfig `yaml:"survival"`
	Output   OutputConfig   `yaml:"output"`
}

// RunConfig holds the outer loop dimensions.
type RunConfig struct {
	Generations int `yaml:"generations"`
	Steps       int `yaml:"steps"`
	Organisms   int `yaml:"organisms"`
}

// GenomeConfig holds genome length and mutation parameters.
type GenomeConfig struct {
	Genes        int     `yaml:"genes"`
	MutateChance float64 `yaml:"mutate_chance"`
}

// BrainConfig holds network catalog parameters.
type BrainConfig struct {
	InnerNodes int `yaml:"inner_nodes"`
}

// GridConfig holds world dimensions and obstacle rectangles.
// Each obstacle is [left, right, top, bottom], inclusive on all sides.
type GridConfig struct {
	Width     int      `yaml:"width"`
	Height    int      `yaml:"height"`
	Obstacles [][4]int `yaml:"obstacles"`
}

// SensesConfig holds sensor probe parameters.
type SensesConfig struct {
	Distance int `yaml:"distance"`
}

// MatingConfig selects the breeding strategy.
// Strategy: 0 random, 1 similarity-paired, 2 location-paired.
type MatingConfig struct {
	Strategy          int `yaml:"strategy"`
	SimilarityFactors int `yaml:"similarity_factors"`
}

// SurvivalConfig selects the spatial survival predicate.
// Kind is "side" or "corner"; Side applies to the side kind only.
type SurvivalConfig struct {
	Kind     string `yaml:"kind"`
	Side     string `yaml:"side"`
	Distance int    `yaml:"distance"`
}

// OutputConfig holds recording parameters. ImageScaling is consumed only by
// external renderers; the core validates and carries it.
type OutputConfig struct {
	RecordFrequency int `yaml:"record_frequency"`
	ImageScaling    int `yaml:"image_scaling"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Unknown keys in the user
// file are configuration errors.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// Decoding into the same struct only overwrites fields present in the file.
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate range-checks every parameter and returns the first offending key.
func (c *Config) Validate() error {
	if c.Run.Generations < 1 {
		return fmt.Errorf("config: run.generations must be >= 1, got %d", c.Run.Generations)
	}
	if c.Run.Steps < 1 {
		return fmt.Errorf("config: run.steps must be >= 1, got %d", c.Run.Steps)
	}
	if c.Run.Organisms < 1 {
		return fmt.Errorf("config: run.organisms must be >= 1, got %d", c.Run.Organisms)
	}
	if c.Genome.Genes < 0 {
		return fmt.Errorf("config: genome.genes must be >= 0, got %d", c.Genome.Genes)
	}
	if c.Genome.MutateChance < 0 || c.Genome.MutateChance > 1 {
		return fmt.Errorf("config: genome.mutate_chance must be in [0,1], got %v", c.Genome.MutateChance)
	}
	if c.Brain.InnerNodes < 1 {
		return fmt.Errorf("config: brain.inner_nodes must be >= 1, got %d", c.Brain.InnerNodes)
	}
	if c.Grid.Width < 1 || c.Grid.Height < 1 {
		return fmt.Errorf("config: grid dimensions must be >= 1, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Run.Organisms > c.Grid.Width*c.Grid.Height {
		return fmt.Errorf("config: run.organisms (%d) exceeds grid capacity (%d)",
			c.Run.Organisms, c.Grid.Width*c.Grid.Height)
	}
	for i, obs := range c.Grid.Obstacles {
		if obs[0] > obs[1] || obs[2] > obs[3] {
			return fmt.Errorf("config: grid.obstacles[%d] is not a valid rectangle: %v", i, obs)
		}
	}
	if c.Senses.Distance < 1 {
		return fmt.Errorf("config: senses.distance must be >= 1, got %d", c.Senses.Distance)
	}
	if c.Mating.Strategy < 0 || c.Mating.Strategy > 2 {
		return fmt.Errorf("config: mating.strategy must be 0, 1 or 2, got %d", c.Mating.Strategy)
	}
	if c.Mating.SimilarityFactors < 1 {
		return fmt.Errorf("config: mating.similarity_factors must be >= 1, got %d", c.Mating.SimilarityFactors)
	}
	switch c.Survival.Kind {
	case "side":
		switch c.Survival.Side {
		case "left", "right", "top", "bottom":
		default:
			return fmt.Errorf("config: survival.side must be left/right/top/bottom, got %q", c.Survival.Side)
		}
	case "corner":
	default:
		return fmt.Errorf("config: survival.kind must be side or corner, got %q", c.Survival.Kind)
	}
	if c.Survival.Distance < 1 {
		return fmt.Errorf("config: survival.distance must be >= 1, got %d", c.Survival.Distance)
	}
	if c.Output.RecordFrequency < 1 {
		return fmt.Errorf("config: output.record_frequency must be >= 1, got %d", c.Output.RecordFrequency)
	}
	if c.Output.ImageScaling < 1 {
		return fmt.Errorf("config: output.image_scaling must be >= 1, got %d", c.Output.ImageScaling)
	}
	return nil
}

// WriteYAML saves the configuration to a file, so a run's output folder
// records the exact parameters that produced it.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
