package verify

import (
	"context"
	"fmt"

	"github.com/sarchlab/axverify/axioms"
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
)

// Replay re-solves trace under opts with the witness's rf and co choices
// pinned as hard constraints, and reports whether the resulting rank order
// reproduces the witness's rendered (rank, id) order exactly. This is the
// round-trip property of spec.md §8, grounded on the step-through-and-check
// shape of the teacher's funcsim.go, adapted from "replay a fixed kernel
// program" to "replay a fixed rf/co assignment."
func Replay(ctx context.Context, trace *event.Trace, opts axioms.Options, w *Witness) (bool, error) {
	enc, err := axioms.NewEncoder(trace, opts)
	if err != nil {
		return false, err
	}

	for _, row := range w.Rows {
		if !row.HasRF {
			continue
		}
		rf, err := enc.Ctx().RF(row.RFSource, row.Event.ID)
		if err != nil {
			return false, err
		}
		enc.Model.AssertTrue(rf)
	}

	if err := pinCoherenceOrder(enc, trace, w); err != nil {
		return false, err
	}

	res := enc.Model.Solve(ctx, defaultNodeBudget)
	if res.Outcome != csp.Sat {
		return false, fmt.Errorf("replay: pinned rf/co choices are not jointly satisfiable (%s)", res.Outcome)
	}

	replayed, err := renderWitness(enc, res.Assignment)
	if err != nil {
		return false, err
	}

	return sameOrder(w, replayed), nil
}

// pinCoherenceOrder asserts, for every pair of writes to the same address,
// the co direction the witness's own rank order already implies (co(w1,w2)
// forces rank[w1]<rank[w2], and co is total per address, so the witness's
// rank order among same-address writes uniquely determines its co order).
// Without this, a trace with more than one non-initial write to an address
// leaves co underdetermined on replay, and the solver is free to pick a
// different legal coherence order than the one the witness actually used.
func pinCoherenceOrder(enc *axioms.Encoder, trace *event.Trace, w *Witness) error {
	rankOf := make(map[int]int, len(w.Rows))
	for _, row := range w.Rows {
		rankOf[row.Event.ID] = row.Rank
	}

	for _, addr := range trace.Addrs() {
		writes := trace.WritesTo(addr)
		for _, w1 := range writes {
			for _, w2 := range writes {
				if w1.ID == w2.ID || rankOf[w1.ID] >= rankOf[w2.ID] {
					continue
				}
				co, err := enc.Ctx().CO(w1.ID, w2.ID)
				if err != nil {
					return err
				}
				enc.Model.AssertTrue(co)
			}
		}
	}

	return nil
}

func sameOrder(a, b *Witness) bool {
	if len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Rows {
		if a.Rows[i].Event.ID != b.Rows[i].Event.ID {
			return false
		}
	}
	return true
}
