// Package config loads and saves scenario configuration as YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/jointsim/internal/scenario"
	"github.com/san-kum/jointsim/internal/sim"
)

const (
	DefaultTau      = 0.1
	DefaultMaxTicks = 10000
	DefaultNoise    = 1e-5
	DefaultJoints   = 5
	DefaultPieces   = 3
)

// Goal is one (joint, target) entry of a configured action sequence.
type Goal struct {
	Joint  int     `yaml:"joint"`
	Target float64 `yaml:"target"`
}

type NoiseConfig struct {
	Q   float64 `yaml:"q"`
	Vel float64 `yaml:"vel"`
}

// Config describes a full run: which furniture to build, how to tick it,
// and an optional goal sequence to execute.
type Config struct {
	Scenario string       `yaml:"scenario"`
	Tau      float64      `yaml:"tau"`
	Seed     int64        `yaml:"seed"`
	MaxTicks int          `yaml:"max_ticks"`
	Noise    NoiseConfig  `yaml:"noise"`
	Limits   [][2]float64 `yaml:"limits"`
	Joints   int          `yaml:"joints"`
	Pieces   int          `yaml:"pieces"`
	Goals    []Goal       `yaml:"goals"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "drawer_key",
		Tau:      DefaultTau,
		MaxTicks: DefaultMaxTicks,
		Noise:    NoiseConfig{Q: DefaultNoise, Vel: DefaultNoise},
		Limits:   [][2]float64{{0, 180}, {0, 120}, {0, 90}},
		Joints:   DefaultJoints,
		Pieces:   DefaultPieces,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options converts the config into builder options for the scenario
// registry.
func (c *Config) Options() scenario.Options {
	return scenario.Options{
		Noise:  sim.Noise{Q: c.Noise.Q, Vel: c.Noise.Vel},
		Limits: c.Limits,
		Joints: c.Joints,
		Pieces: c.Pieces,
	}
}
