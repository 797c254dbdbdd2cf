package axioms

import "fmt"

// PredicateError is raised during encoding when a caller-supplied
// violation/progress/extra predicate references a read index out of
// bounds or an address absent from the trace (spec.md §7). Fatal, raised
// synchronously before the solver is ever invoked.
type PredicateError struct {
	Reason string
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("predicate error: %s", e.Reason)
}

func predicateError(format string, args ...any) error {
	return &PredicateError{Reason: fmt.Sprintf(format, args...)}
}
