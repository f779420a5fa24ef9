package migration

import "fmt"

// NoPathError reports that no chain of registered steps connects two
// versions.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no migration path from %s to %s", e.From, e.To)
}

// StepError reports that a specific step's transform failed. Steps applied
// before the failing edge are listed in the result's trail.
type StepError struct {
	From  string
	To    string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration step %s -> %s failed: %v", e.From, e.To, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
