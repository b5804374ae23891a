package rng

import (
	"time"

	"golang.org/x/exp/rand"
)

// Source yields uniform random integers for dice rolls. Implementations must
// be deterministic for a fixed seed so simulations are reproducible.
type Source interface {
	// IntBetween returns a uniform random integer in [low, high].
	IntBetween(low, high int) int
}

type source struct {
	rand *rand.Rand
}

// NewSeeded returns a Source seeded for reproducible runs.
func NewSeeded(seed uint64) Source {
	return &source{rand: rand.New(rand.NewSource(seed))}
}

// New returns a time-seeded Source.
func New() Source {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

func (s *source) IntBetween(low, high int) int {
	return low + s.rand.Intn(high-low+1)
}

// ShardSeed derives the seed for one shard of a partitioned run. Distinct
// shards must get distinct streams while the run as a whole stays
// reproducible from the base seed.
func ShardSeed(seed uint64, shard int) uint64 {
	return seed ^ uint64(shard)*0x9e3779b97f4a7c15
}
