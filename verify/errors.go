package verify

import "fmt"

// SolverUnknownError wraps the reason the solver gave up (budget exceeded,
// context cancelled) without claiming Sat or Unsat (spec.md §7). It is
// returned as a value alongside a Result with Outcome == csp.Unknown, not
// raised as a Go error from Verify itself — Verify's error return is
// reserved for fatal errors such as a PredicateError from a predicate
// (MalformedTraceError is raised earlier, by event.BuildTrace).
type SolverUnknownError struct {
	Reason string
}

func (e *SolverUnknownError) Error() string {
	return fmt.Sprintf("solver gave up: %s", e.Reason)
}
