package battle

import (
	"fmt"
	"sort"
)

// Rules determines unit losses from a pair of roll sequences. Both sequences
// are expected in descending order.
type Rules interface {
	Outcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int)
	Name() string
}

var rulesRegistry = map[string]func() Rules{
	"standard":      func() Rules { return NewStandardRules() },
	"attacker-ties": func() Rules { return NewAttackerTiesRules() },
}

// RulesFor returns the battle rules registered under name.
func RulesFor(name string) (Rules, error) {
	create, ok := rulesRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown battle rules %q (have %v)", name, RuleNames())
	}
	return create(), nil
}

// RuleNames lists the registered rule names in stable order.
func RuleNames() []string {
	names := make([]string, 0, len(rulesRegistry))
	for name := range rulesRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
