package axioms

import (
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
	"github.com/sarchlab/axverify/relation"
)

// emitModeAxioms emits the per-event-mode ordering axioms of spec.md
// §4.4: SC total order + latest-visible for sc-tagged events, and
// release-acquire happens-before for rel/acq pairs. Axioms are driven by
// each event's own Mode tag, not by a single global mode — a trace may
// freely mix sc, rel, acq and rlx events (spec.md §3).
func (enc *Encoder) emitModeAxioms() {
	enc.emitSCTotalOrder()
	enc.emitSCLatestVisible()
	enc.emitReleaseAcquire()
}

// poOrSelf holds between a and b when a is program-order-before b or is
// b itself; used below so a release/acquire's own rank is included in
// the happens-before chain it establishes.
func poOrSelf(a, b event.Event) bool {
	return a.ID == b.ID || relation.PO(a, b)
}

// emitSCTotalOrder posts that every pair of distinct sc-tagged events
// (including initial writes, which are always sc) has a distinct rank,
// so the solver must place them in some single total order (spec.md
// §4.4's SC axiom, first half).
func (enc *Encoder) emitSCTotalOrder() {
	var scEvents []event.Event
	for _, e := range enc.Trace.Events() {
		if e.Mode == event.SC {
			scEvents = append(scEvents, e)
		}
	}
	ranks := make([]*csp.IntVar, len(scEvents))
	for i, e := range scEvents {
		ranks[i] = enc.rank[e.ID]
	}
	enc.Model.AllDifferent(ranks)
}

// emitSCLatestVisible posts that every sc-tagged read observes the
// coherence-latest write visible to it: if rf(w,r) holds and w'' is
// coherence-ordered after w (co(w,w'')), w'' may not sit before r in the
// rank order (spec.md §4.4's SC axiom, second half — this is what rules
// out a stale read under full sc). The co(w,w'') gate matters: without
// it, the always-co-minimal initial write would wrongly be forbidden
// from ranking before r whenever r reads from some later, non-initial
// write.
func (enc *Encoder) emitSCLatestVisible() {
	for _, r := range enc.reads {
		if r.Mode != event.SC {
			continue
		}
		candidates := enc.Trace.WritesTo(r.Addr)
		rankR := enc.rank[r.ID]
		for _, w := range candidates {
			rfv := enc.rfVar[[2]int{r.ID, w.ID}]
			for _, wPrime := range candidates {
				if wPrime.ID == w.ID {
					continue
				}
				coVars, coCond := enc.co(w, wPrime)
				condVars := append([]*csp.IntVar{rfv}, coVars...)
				cond := func(get func(*csp.IntVar) int) bool {
					return get(rfv) == 1 && coCond(get)
				}
				rankWPrime := enc.rank[wPrime.ID]
				enc.Model.PostIf(
					"sc-latest-visible",
					condVars, cond,
					[]*csp.IntVar{rankWPrime, rankR}, func(get func(*csp.IntVar) int) bool {
						return !(get(rankWPrime) < get(rankR))
					},
				)
			}
		}
	}
}

// emitReleaseAcquire posts the release-acquire happens-before axiom
// (spec.md §4.4): when a release write's value is read by an acquire
// read on the same address, everything program-order-before the release
// happens-before everything program-order-after the acquire. Under
// Opts.ForceReleaseAcquireEverywhere the edge is asserted unconditionally
// for every same-address rel/acq pair rather than gated on rf (Analyze's
// "ra" mode, spec.md §6).
func (enc *Encoder) emitReleaseAcquire() {
	events := enc.Trace.Events()

	isRelease := func(e event.Event) bool {
		return e.Kind == event.Write && (e.Mode == event.Rel || e.Mode == event.SC)
	}
	isAcquire := func(e event.Event) bool {
		return e.Kind == event.Read && (e.Mode == event.Acq || e.Mode == event.SC)
	}

	for _, w := range events {
		if !isRelease(w) {
			continue
		}
		for _, r := range events {
			if !isAcquire(r) || r.Addr != w.Addr {
				continue
			}

			var condVars []*csp.IntVar
			var cond func(get func(*csp.IntVar) int) bool
			if enc.Opts.ForceReleaseAcquireEverywhere {
				condVars = nil
				cond = func(get func(*csp.IntVar) int) bool { return true }
			} else {
				rfv, ok := enc.rfVar[[2]int{r.ID, w.ID}]
				if !ok {
					continue
				}
				condVars = []*csp.IntVar{rfv}
				cond = func(get func(*csp.IntVar) int) bool { return get(rfv) == 1 }
			}

			for _, e1 := range events {
				if !poOrSelf(e1, w) {
					continue
				}
				for _, e2 := range events {
					if !poOrSelf(r, e2) {
						continue
					}
					rank1, rank2 := enc.rank[e1.ID], enc.rank[e2.ID]
					enc.Model.PostIf(
						"release-acquire-hb",
						condVars, cond,
						[]*csp.IntVar{rank1, rank2}, func(get func(*csp.IntVar) int) bool {
							return get(rank1) < get(rank2)
						},
					)
				}
			}
		}
	}
}
