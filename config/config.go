package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"risksim/battle"
)

// ConfigError reports a missing or invalid configuration key. Detected
// before any battles run; a bad document never starts a simulation.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration key %q %s", e.Key, e.Reason)
}

// document mirrors the YAML layout. Pointer fields distinguish a missing key
// from an explicit zero.
type document struct {
	Simulation struct {
		Iterations   *int    `yaml:"iterations"`
		BatchSize    *int    `yaml:"batch_size"`
		RandomSeed   *uint64 `yaml:"random_seed"`
		Shards       *int    `yaml:"shards"`
		HistoryLimit *int    `yaml:"history_limit"`
		Rules        string  `yaml:"rules"`
	} `yaml:"simulation"`
	Dice struct {
		Attacker *diceDocument `yaml:"attacker"`
		Defender *diceDocument `yaml:"defender"`
	} `yaml:"dice"`
}

type diceDocument struct {
	Count *int `yaml:"count"`
	Sides *int `yaml:"sides"`
}

// Config is the validated simulation configuration. Immutable for the
// lifetime of a run once handed to the runner.
type Config struct {
	Iterations   int
	BatchSize    int
	RandomSeed   *uint64
	Shards       int
	HistoryLimit int
	Rules        string
	Attacker     battle.DiceConfig
	Defender     battle.DiceConfig
}

// Default returns a ready-to-run configuration: 100k standard 3v2 battles.
func Default() *Config {
	return &Config{
		Iterations: 100_000,
		BatchSize:  1_000,
		Shards:     1,
		Rules:      "standard",
		Attacker:   battle.DiceConfig{Count: 3, Sides: 6},
		Defender:   battle.DiceConfig{Count: 2, Sides: 6},
	}
}

// Load reads and validates a YAML configuration document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return Parse(data)
}

// Parse validates a YAML configuration document. Missing required keys fail
// with a ConfigError naming the key.
func Parse(data []byte) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	required := []struct {
		key string
		ok  bool
	}{
		{"simulation.iterations", doc.Simulation.Iterations != nil},
		{"simulation.batch_size", doc.Simulation.BatchSize != nil},
		{"dice.attacker", doc.Dice.Attacker != nil},
		{"dice.defender", doc.Dice.Defender != nil},
	}
	for _, r := range required {
		if !r.ok {
			return nil, &ConfigError{Key: r.key, Reason: "is missing"}
		}
	}
	for side, d := range map[string]*diceDocument{
		"dice.attacker": doc.Dice.Attacker,
		"dice.defender": doc.Dice.Defender,
	} {
		if d.Count == nil {
			return nil, &ConfigError{Key: side + ".count", Reason: "is missing"}
		}
		if d.Sides == nil {
			return nil, &ConfigError{Key: side + ".sides", Reason: "is missing"}
		}
	}

	cfg := &Config{
		Iterations: *doc.Simulation.Iterations,
		BatchSize:  *doc.Simulation.BatchSize,
		RandomSeed: doc.Simulation.RandomSeed,
		Shards:     1,
		Rules:      "standard",
		Attacker:   battle.DiceConfig{Count: *doc.Dice.Attacker.Count, Sides: *doc.Dice.Attacker.Sides},
		Defender:   battle.DiceConfig{Count: *doc.Dice.Defender.Count, Sides: *doc.Dice.Defender.Sides},
	}
	if doc.Simulation.Shards != nil {
		cfg.Shards = *doc.Simulation.Shards
	}
	if doc.Simulation.HistoryLimit != nil {
		cfg.HistoryLimit = *doc.Simulation.HistoryLimit
	}
	if doc.Simulation.Rules != "" {
		cfg.Rules = doc.Simulation.Rules
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return &ConfigError{Key: "simulation.iterations", Reason: "must be positive"}
	}
	if c.BatchSize < 1 {
		return &ConfigError{Key: "simulation.batch_size", Reason: "must be positive"}
	}
	if c.BatchSize > c.Iterations {
		return &ConfigError{Key: "simulation.batch_size", Reason: "must not exceed iterations"}
	}
	if c.Shards < 1 {
		return &ConfigError{Key: "simulation.shards", Reason: "must be positive"}
	}
	if c.HistoryLimit < 0 {
		return &ConfigError{Key: "simulation.history_limit", Reason: "must not be negative"}
	}
	if _, err := battle.RulesFor(c.Rules); err != nil {
		return &ConfigError{Key: "simulation.rules", Reason: err.Error()}
	}
	if err := c.Attacker.Validate(); err != nil {
		return fmt.Errorf("dice.attacker: %w", err)
	}
	if err := c.Defender.Validate(); err != nil {
		return fmt.Errorf("dice.defender: %w", err)
	}
	return nil
}

// TotalBatches returns the number of batches the run partitions into; the
// final batch may be shorter than BatchSize.
func (c *Config) TotalBatches() int {
	return (c.Iterations + c.BatchSize - 1) / c.BatchSize
}
