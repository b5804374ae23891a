package battle

// Participant names used in results and errors.
const (
	Attacker = "attacker"
	Defender = "defender"
)

// Result is the immutable outcome of a single battle. Every compared pair
// produces exactly one loss, so AttackerLosses + DefenderLosses equals
// min(len(AttackerRolls), len(DefenderRolls)); unpaired dice are ignored.
type Result struct {
	AttackerLosses int
	DefenderLosses int
	AttackerRolls  []int
	DefenderRolls  []int
}

// Winner reports which side lost fewer units, or "" on a draw.
func (r Result) Winner() string {
	switch {
	case r.AttackerLosses < r.DefenderLosses:
		return Attacker
	case r.DefenderLosses < r.AttackerLosses:
		return Defender
	}
	return ""
}

// Resolver applies battle rules to a pair of roll sequences.
//
// Both inputs must already be sorted descending; Roll guarantees that, so the
// resolver trusts the precondition and validates non-emptiness only.
type Resolver struct {
	rules Rules
}

// NewResolver returns a resolver using the given rules, or StandardRules
// when rules is nil.
func NewResolver(rules Rules) *Resolver {
	if rules == nil {
		rules = NewStandardRules()
	}
	return &Resolver{rules: rules}
}

func (r *Resolver) Rules() Rules { return r.rules }

func (r *Resolver) Resolve(attackerRolls, defenderRolls []int) (Result, error) {
	if len(attackerRolls) == 0 {
		return Result{}, &InvalidRollError{Side: Attacker}
	}
	if len(defenderRolls) == 0 {
		return Result{}, &InvalidRollError{Side: Defender}
	}
	attackerLosses, defenderLosses := r.rules.Outcome(attackerRolls, defenderRolls)
	return Result{
		AttackerLosses: attackerLosses,
		DefenderLosses: defenderLosses,
		AttackerRolls:  attackerRolls,
		DefenderRolls:  defenderRolls,
	}, nil
}
