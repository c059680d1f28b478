package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evotsp/evotsp/internal/evo"
)

// Config is the full run configuration. YAML files only need to set the
// fields they want to override; everything else keeps its default.
type Config struct {
	Mode           string  `yaml:"mode" json:"mode"`
	Exploration    float64 `yaml:"exploration" json:"exploration"`
	PopulationSize int     `yaml:"populationSize" json:"populationSize"`
	EliteRatio     float64 `yaml:"eliteRatio" json:"eliteRatio"`
	Generations    int     `yaml:"generations" json:"generations"`
	MutationRate   float64 `yaml:"mutationRate" json:"mutationRate"`
	CrossoverRate  float64 `yaml:"crossoverRate" json:"crossoverRate"`
	TwoOptRate     float64 `yaml:"twoOptRate" json:"twoOptRate"`
	Neighbors      int     `yaml:"neighbors" json:"neighbors"` // k for the sparse oracle; 0 = dense
	Seed           int64   `yaml:"seed" json:"seed"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Mode:           string(evo.ModeFixed),
		Exploration:    2.0,
		PopulationSize: 100,
		EliteRatio:     0.1,
		Generations:    1000,
		MutationRate:   0.01,
		CrossoverRate:  0.8,
		TwoOptRate:     0.1,
		Neighbors:      20,
		Seed:           42,
	}
}

// LoadFile overlays the YAML file at path onto the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + e.Field + " " + e.Reason
}

// Validate checks that the configuration describes a runnable search.
func (c Config) Validate() error {
	switch evo.Mode(c.Mode) {
	case evo.ModeFixed, evo.ModeAdaptive:
	default:
		return &ValidationError{Field: "mode", Reason: fmt.Sprintf("must be %q or %q, got %q", evo.ModeFixed, evo.ModeAdaptive, c.Mode)}
	}
	if c.PopulationSize < 2 {
		return &ValidationError{Field: "populationSize", Reason: "must be at least 2"}
	}
	if c.EliteRatio < 0 || c.EliteRatio > 1 {
		return &ValidationError{Field: "eliteRatio", Reason: "must be in [0,1]"}
	}
	if c.Generations <= 0 {
		return &ValidationError{Field: "generations", Reason: "must be positive"}
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return &ValidationError{Field: "mutationRate", Reason: "must be in [0,1]"}
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return &ValidationError{Field: "crossoverRate", Reason: "must be in [0,1]"}
	}
	if c.TwoOptRate < 0 || c.TwoOptRate > 1 {
		return &ValidationError{Field: "twoOptRate", Reason: "must be in [0,1]"}
	}
	if c.Exploration < 0 {
		return &ValidationError{Field: "exploration", Reason: "must be non-negative"}
	}
	if c.Neighbors < 0 {
		return &ValidationError{Field: "neighbors", Reason: "must be non-negative"}
	}
	return nil
}

// Evo maps the configuration to the optimizer parameters.
func (c Config) Evo() evo.Config {
	return evo.Config{
		Mode:           evo.Mode(c.Mode),
		PopulationSize: c.PopulationSize,
		EliteRatio:     c.EliteRatio,
		Generations:    c.Generations,
		MutationRate:   c.MutationRate,
		CrossoverRate:  c.CrossoverRate,
		TwoOptRate:     c.TwoOptRate,
		Exploration:    c.Exploration,
	}
}
