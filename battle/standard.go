package battle

// StandardRules implements the standard Risk attack outcome: paired rolls
// are compared highest to highest and ties favor the defender.
type StandardRules struct{}

func NewStandardRules() *StandardRules {
	return &StandardRules{}
}

func (sr *StandardRules) Name() string { return "standard" }

func (sr *StandardRules) Outcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] > defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}

// AttackerTiesRules is the house-rule variant where ties favor the attacker.
type AttackerTiesRules struct{}

func NewAttackerTiesRules() *AttackerTiesRules {
	return &AttackerTiesRules{}
}

func (ar *AttackerTiesRules) Name() string { return "attacker-ties" }

func (ar *AttackerTiesRules) Outcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] >= defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}
