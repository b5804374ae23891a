package battle

import "fmt"

// InvalidConfigError reports a dice configuration that violates its
// invariants. The roller re-checks at roll time so a nonsensical
// configuration can never silently produce rolls.
type InvalidConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid dice configuration: %s is %d, %s", e.Field, e.Value, e.Reason)
}

// InvalidRollError reports an empty roll sequence passed to the resolver.
// This indicates a programming error in the caller, not bad user input.
type InvalidRollError struct {
	Side string
}

func (e *InvalidRollError) Error() string {
	return fmt.Sprintf("%s roll sequence is empty", e.Side)
}
