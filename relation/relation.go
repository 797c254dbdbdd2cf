// Package relation implements the pure relation-kernel predicates of
// spec.md §4.2: program order and its mode-dependent preserved subset,
// from-read, and the well-formedness checks on a concrete reads-from/
// coherence assignment.
package relation

import "github.com/sarchlab/axverify/event"

// PO reports whether e1 precedes e2 in program order: same thread, lower
// id. Initial writes (thread -1) are never PO-related to anything.
func PO(e1, e2 event.Event) bool {
	return e1.Thread == e2.Thread && e1.Thread >= 0 && e1.ID < e2.ID
}

// PPOSC is the preserved program order under the sc model: the full
// program order.
func PPOSC(e1, e2 event.Event) bool {
	return PO(e1, e2)
}

// PPORelaxed is the preserved program order under the relaxed model:
// program order restricted to pairs where at least one endpoint is
// SC-tagged. Same-thread non-SC pairs are left unconstrained so the
// solver may reorder them (spec.md §4.2 rationale).
func PPORelaxed(e1, e2 event.Event) bool {
	return PO(e1, e2) && (e1.Mode == event.SC || e2.Mode == event.SC)
}

// RF is a concrete, already-resolved reads-from assignment: RF(r) is the
// write event a read r reads from.
type RF func(r event.Event) (event.Event, bool)

// CO is a concrete, already-resolved coherence order: CO(w1, w2) holds iff
// w1 is coherence-ordered before w2.
type CO func(w1, w2 event.Event) bool

// FR is the derived from-read relation: fr(r, w') iff rf(w, r) and
// co(w, w') for some w.
func FR(rf RF, co CO, r, wPrime event.Event) bool {
	w, ok := rf(r)
	if !ok {
		return false
	}
	return co(w, wPrime)
}

// WellFormedRF reports whether rf is a total function over reads, with
// every edge same-address and same-value, given a concrete trace.
func WellFormedRF(t *event.Trace, rf RF) (bool, string) {
	for _, r := range t.Reads() {
		w, ok := rf(r)
		if !ok {
			return false, eventLabel(r) + " has no rf source"
		}
		if w.Addr != r.Addr {
			return false, eventLabel(r) + " rf source has mismatched address"
		}
		if w.Val != r.Val {
			return false, eventLabel(r) + " rf source has mismatched value"
		}
	}
	return true, ""
}

// WellFormedCO reports whether co is irreflexive and places every initial
// write before every non-initial write to the same address, given a
// concrete trace.
func WellFormedCO(t *event.Trace, co CO) (bool, string) {
	for _, addr := range t.Addrs() {
		writes := t.WritesTo(addr)
		for _, w := range writes {
			if co(w, w) {
				return false, eventLabel(w) + " is co-related to itself"
			}
		}
		for _, w1 := range writes {
			if !w1.IsInitial() {
				continue
			}
			for _, w2 := range writes {
				if w2.IsInitial() {
					continue
				}
				if !co(w1, w2) {
					return false, eventLabel(w1) + " is not co-before non-initial " + eventLabel(w2)
				}
			}
		}
	}
	return true, ""
}

func eventLabel(e event.Event) string {
	return e.String()
}
