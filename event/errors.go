package event

import "fmt"

// MalformedTraceError is raised synchronously at trace construction
// (spec.md §7: fatal, never surfaced as a later solver result).
type MalformedTraceError struct {
	Reason string
}

func (e *MalformedTraceError) Error() string {
	return fmt.Sprintf("malformed trace: %s", e.Reason)
}

func malformed(format string, args ...any) error {
	return &MalformedTraceError{Reason: fmt.Sprintf(format, args...)}
}
