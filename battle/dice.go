package battle

import (
	"sort"

	"risksim/rng"
)

// DiceConfig describes one side's dice: how many to roll and how many faces
// each die has. Immutable value type; one instance per side.
type DiceConfig struct {
	Count int
	Sides int
}

func (dc DiceConfig) Validate() error {
	if dc.Count < 1 {
		return &InvalidConfigError{Field: "count", Value: dc.Count, Reason: "must be at least 1"}
	}
	if dc.Sides < 2 {
		return &InvalidConfigError{Field: "sides", Value: dc.Sides, Reason: "must be at least 2"}
	}
	return nil
}

// Roll draws cfg.Count uniform values in [1, cfg.Sides] from src and returns
// them sorted descending. Two calls with the same configuration and an
// identically seeded source produce identical sequences.
func Roll(cfg DiceConfig, src rng.Source) ([]int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rolls := make([]int, cfg.Count)
	for i := range rolls {
		rolls[i] = src.IntBetween(1, cfg.Sides)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
	return rolls, nil
}
