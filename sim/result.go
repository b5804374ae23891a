package sim

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"risksim/battle"
	"risksim/config"
	"risksim/sim/metrics"
)

// Result is the immutable outcome of a simulation run.
type Result struct {
	ID         string
	Config     *config.Config
	Metrics    metrics.Metrics
	History    []battle.Result
	StartedAt  time.Time
	FinishedAt time.Time
	// Incomplete marks a run cancelled before reaching the configured
	// iteration count; Metrics covers only the battles that completed.
	Incomplete bool
}

// Report renders a human-readable run summary.
func (r *Result) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "RISK DICE SIMULATION REPORT\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Run ID: %s\n", r.ID)
	fmt.Fprintf(&b, "Duration: %s\n", r.Metrics.Elapsed)
	if r.Incomplete {
		fmt.Fprintf(&b, "NOTE: run cancelled before completion\n")
	}
	fmt.Fprintf(&b, "\nBATTLE RESULTS:\n")
	fmt.Fprintf(&b, "  Total Battles: %d\n", r.Metrics.Battles)
	fmt.Fprintf(&b, "  Attacker Wins: %d (%.2f%%)\n", r.Metrics.AttackerWins, r.Metrics.AttackerWinPct())
	fmt.Fprintf(&b, "  Defender Wins: %d (%.2f%%)\n", r.Metrics.DefenderWins, r.Metrics.DefenderWinPct())
	fmt.Fprintf(&b, "  Draws: %d\n", r.Metrics.Draws)
	fmt.Fprintf(&b, "  Attacker Units Lost: %d\n", r.Metrics.AttackerLosses)
	fmt.Fprintf(&b, "  Defender Units Lost: %d\n", r.Metrics.DefenderLosses)
	fmt.Fprintf(&b, "\nPERFORMANCE:\n")
	fmt.Fprintf(&b, "  Battles/Second: %.0f\n", r.Metrics.Throughput)
	fmt.Fprintf(&b, "\nCONFIGURATION:\n")
	fmt.Fprintf(&b, "  Attacker Dice: %dd%d\n", r.Config.Attacker.Count, r.Config.Attacker.Sides)
	fmt.Fprintf(&b, "  Defender Dice: %dd%d\n", r.Config.Defender.Count, r.Config.Defender.Sides)
	fmt.Fprintf(&b, "  Rules: %s\n", r.Config.Rules)
	if r.Config.RandomSeed != nil {
		fmt.Fprintf(&b, "  Random Seed: %d\n", *r.Config.RandomSeed)
	}
	fmt.Fprintf(&b, "  Shards: %d\n", r.Config.Shards)
	fmt.Fprintf(&b, "%s", strings.Repeat("=", 50))
	return b.String()
}

// MarshalJSON surfaces the run for external serialization without dumping
// the full battle history.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string          `json:"id"`
		StartedAt  time.Time       `json:"started_at"`
		FinishedAt time.Time       `json:"finished_at"`
		Incomplete bool            `json:"incomplete,omitempty"`
		Metrics    metrics.Metrics `json:"metrics"`
		Battles    int             `json:"retained_battles"`
	}{
		ID:         r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Incomplete: r.Incomplete,
		Metrics:    r.Metrics,
		Battles:    len(r.History),
	})
}
