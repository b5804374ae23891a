package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"risksim/battle"
)

const validDocument = `
simulation:
  iterations: 50000
  batch_size: 500
  random_seed: 7
  shards: 2
  history_limit: 100
  rules: attacker-ties
dice:
  attacker: {count: 3, sides: 6}
  defender: {count: 2, sides: 6}
`

func TestParseValidDocument(t *testing.T) {
	cfg, err := Parse([]byte(validDocument))

	require.NoError(t, err)
	require.Equal(t, 50000, cfg.Iterations)
	require.Equal(t, 500, cfg.BatchSize)
	require.NotNil(t, cfg.RandomSeed)
	require.Equal(t, uint64(7), *cfg.RandomSeed)
	require.Equal(t, 2, cfg.Shards)
	require.Equal(t, 100, cfg.HistoryLimit)
	require.Equal(t, "attacker-ties", cfg.Rules)
	require.Equal(t, battle.DiceConfig{Count: 3, Sides: 6}, cfg.Attacker)
	require.Equal(t, battle.DiceConfig{Count: 2, Sides: 6}, cfg.Defender)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
simulation:
  iterations: 1000
  batch_size: 100
dice:
  attacker: {count: 3, sides: 6}
  defender: {count: 2, sides: 6}
`))

	require.NoError(t, err)
	require.Nil(t, cfg.RandomSeed, "seed should be optional")
	require.Equal(t, 1, cfg.Shards)
	require.Equal(t, 0, cfg.HistoryLimit)
	require.Equal(t, "standard", cfg.Rules)
}

func TestParseMissingKeys(t *testing.T) {
	tests := []struct {
		name     string
		document string
		key      string
	}{
		{
			"missing iterations",
			"simulation:\n  batch_size: 10\ndice:\n  attacker: {count: 3, sides: 6}\n  defender: {count: 2, sides: 6}\n",
			"simulation.iterations",
		},
		{
			"missing batch size",
			"simulation:\n  iterations: 100\ndice:\n  attacker: {count: 3, sides: 6}\n  defender: {count: 2, sides: 6}\n",
			"simulation.batch_size",
		},
		{
			"missing attacker",
			"simulation:\n  iterations: 100\n  batch_size: 10\ndice:\n  defender: {count: 2, sides: 6}\n",
			"dice.attacker",
		},
		{
			"missing defender sides",
			"simulation:\n  iterations: 100\n  batch_size: 10\ndice:\n  attacker: {count: 3, sides: 6}\n  defender: {count: 2}\n",
			"dice.defender.sides",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.document))

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			require.Equal(t, tt.key, configErr.Key, "error should name the missing key")
		})
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"zero iterations", func(cfg *Config) { cfg.Iterations = 0 }},
		{"zero batch size", func(cfg *Config) { cfg.BatchSize = 0 }},
		{"batch size above iterations", func(cfg *Config) { cfg.BatchSize = cfg.Iterations + 1 }},
		{"zero shards", func(cfg *Config) { cfg.Shards = 0 }},
		{"negative history limit", func(cfg *Config) { cfg.HistoryLimit = -1 }},
		{"unknown rules", func(cfg *Config) { cfg.Rules = "coin-flip" }},
		{"one-sided attacker dice", func(cfg *Config) { cfg.Attacker.Sides = 1 }},
		{"zero defender dice", func(cfg *Config) { cfg.Defender.Count = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			require.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestTotalBatches(t *testing.T) {
	cfg := Default()
	cfg.Iterations = 1050
	cfg.BatchSize = 100

	require.Equal(t, 11, cfg.TotalBatches(), "partial final batch should count")
}
