package metrics

import (
	"sync/atomic"
	"time"

	"risksim/battle"
)

// Metrics aggregates the outcome of a simulation run.
type Metrics struct {
	Battles        int64         `json:"total_battles"`
	AttackerLosses int64         `json:"attacker_losses"`
	DefenderLosses int64         `json:"defender_losses"`
	AttackerWins   int64         `json:"attacker_wins"`
	DefenderWins   int64         `json:"defender_wins"`
	Draws          int64         `json:"draws"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	Throughput     float64       `json:"battles_per_second"`
}

// AttackerWinPct returns the share of decided battles won by the attacker.
func (m Metrics) AttackerWinPct() float64 {
	return winPct(m.AttackerWins, m.DefenderWins)
}

// DefenderWinPct returns the share of decided battles won by the defender.
func (m Metrics) DefenderWinPct() float64 {
	return winPct(m.DefenderWins, m.AttackerWins)
}

func winPct(wins, otherWins int64) float64 {
	total := wins + otherWins
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// Merge sums the counts of two accumulations. Summing is commutative and
// associative, so shard merge order never affects the result. Elapsed and
// Throughput are run-level values; set them with Finalize after merging.
func (m Metrics) Merge(other Metrics) Metrics {
	m.Battles += other.Battles
	m.AttackerLosses += other.AttackerLosses
	m.DefenderLosses += other.DefenderLosses
	m.AttackerWins += other.AttackerWins
	m.DefenderWins += other.DefenderWins
	m.Draws += other.Draws
	return m
}

// Finalize stamps the wall-clock elapsed time and computes throughput.
func (m Metrics) Finalize(elapsed time.Duration) Metrics {
	m.Elapsed = elapsed
	if elapsed > 0 {
		m.Throughput = float64(m.Battles) / elapsed.Seconds()
	}
	return m
}

// Collector accumulates battle results during a run.
type Collector interface {
	Start()
	AddBattle(result battle.Result)
	Complete() Metrics
}

type collector struct {
	startTime      time.Time
	battles        atomic.Int64
	attackerLosses atomic.Int64
	defenderLosses atomic.Int64
	attackerWins   atomic.Int64
	defenderWins   atomic.Int64
	draws          atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
}

func (c *collector) AddBattle(result battle.Result) {
	c.battles.Add(1)
	c.attackerLosses.Add(int64(result.AttackerLosses))
	c.defenderLosses.Add(int64(result.DefenderLosses))
	switch result.Winner() {
	case battle.Attacker:
		c.attackerWins.Add(1)
	case battle.Defender:
		c.defenderWins.Add(1)
	default:
		c.draws.Add(1)
	}
}

func (c *collector) Complete() Metrics {
	return Metrics{
		Battles:        c.battles.Load(),
		AttackerLosses: c.attackerLosses.Load(),
		DefenderLosses: c.defenderLosses.Load(),
		AttackerWins:   c.attackerWins.Load(),
		DefenderWins:   c.defenderWins.Load(),
		Draws:          c.draws.Load(),
		Elapsed:        time.Since(c.startTime),
	}
}

type dummyCollector struct{}

// NewDummyCollector returns a no-op collector for callers that do not want
// accumulation overhead.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start()                         {}
func (c *dummyCollector) AddBattle(result battle.Result) {}
func (c *dummyCollector) Complete() Metrics              { return Metrics{} }
