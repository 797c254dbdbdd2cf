package event

import "sort"

// Trace is an ordered sequence of events: exactly one initial write per
// address mentioned, all positive ids unique across the trace.
type Trace struct {
	events []Event
}

// BuildTrace validates events and constructs a Trace.
//
// Validation performed (spec.md §4.1):
//   - ids are unique within the trace
//   - kind and mode are each one of the enumerated values
//   - thread is -1 iff the event is an initial write (id < 0), and >= 0
//     otherwise
//   - exactly one initial write exists per address referenced by any event
//   - every initial write has val 0, mode sc, and a distinct negative id
func BuildTrace(events []Event) (*Trace, error) {
	seenID := make(map[int]bool, len(events))
	addrsReferenced := make(map[int]bool)
	initialByAddr := make(map[int]Event)

	for _, e := range events {
		if seenID[e.ID] {
			return nil, malformed("duplicate event id %d", e.ID)
		}
		seenID[e.ID] = true

		if !validKind(e.Kind) {
			return nil, malformed("event %d: invalid kind %q", e.ID, e.Kind)
		}
		if !validMode(e.Mode) {
			return nil, malformed("event %d: invalid mode %q", e.ID, e.Mode)
		}

		addrsReferenced[e.Addr] = true

		if e.IsInitial() {
			if e.Thread != -1 {
				return nil, malformed("initial write %d must have thread -1, got %d", e.ID, e.Thread)
			}
			if e.Kind != Write {
				return nil, malformed("event %d has negative id but is not a write", e.ID)
			}
			if e.Val != 0 {
				return nil, malformed("initial write %d must have val 0, got %d", e.ID, e.Val)
			}
			if e.Mode != SC {
				return nil, malformed("initial write %d must have mode sc, got %s", e.ID, e.Mode)
			}
			if prev, ok := initialByAddr[e.Addr]; ok {
				return nil, malformed("addr %d has more than one initial write (ids %d and %d)", e.Addr, prev.ID, e.ID)
			}
			initialByAddr[e.Addr] = e
		} else {
			if e.Thread < 0 {
				return nil, malformed("event %d must have thread >= 0, got %d", e.ID, e.Thread)
			}
		}
	}

	for addr := range addrsReferenced {
		if _, ok := initialByAddr[addr]; !ok {
			return nil, malformed("addr %d is referenced but has no initial write", addr)
		}
	}

	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	return &Trace{events: ordered}, nil
}

// Events returns all events in the trace, ordered by id ascending.
func (t *Trace) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Reads returns the read events, in trace (id) order.
func (t *Trace) Reads() []Event {
	var out []Event
	for _, e := range t.events {
		if e.Kind == Read {
			out = append(out, e)
		}
	}
	return out
}

// Writes returns the write events (including initial writes), in trace
// (id) order.
func (t *Trace) Writes() []Event {
	var out []Event
	for _, e := range t.events {
		if e.Kind == Write {
			out = append(out, e)
		}
	}
	return out
}

// WritesTo returns the writes (including the initial write) to addr, in
// trace (id) order.
func (t *Trace) WritesTo(addr int) []Event {
	var out []Event
	for _, e := range t.events {
		if e.Kind == Write && e.Addr == addr {
			out = append(out, e)
		}
	}
	return out
}

// EventByID returns the event with the given id, if present.
func (t *Trace) EventByID(id int) (Event, bool) {
	for _, e := range t.events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// Addrs returns the set of distinct addresses referenced by the trace, in
// ascending order.
func (t *Trace) Addrs() []int {
	seen := make(map[int]bool)
	var out []int
	for _, e := range t.events {
		if !seen[e.Addr] {
			seen[e.Addr] = true
			out = append(out, e.Addr)
		}
	}
	sort.Ints(out)
	return out
}
