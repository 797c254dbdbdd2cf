package axioms

import (
	"fmt"

	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
)

// Encoder holds the symbolic encoding of a trace (spec.md §4.3): a csp.Model
// plus the rf boolean matrix, co_rank and rank integer variables, and the
// read-value variables, indexed by event id.
type Encoder struct {
	Trace *event.Trace
	Opts  Options
	Model *csp.Model

	reads  []event.Event
	writes []event.Event

	rfVar   map[[2]int]*csp.IntVar // key {r.ID, w.ID}, only for matching addr
	coRank  map[int]*csp.IntVar    // key w.ID
	rank    map[int]*csp.IntVar    // key e.ID
	readVal map[int]*csp.IntVar    // key r.ID
}

// NewEncoder allocates all symbolic variables and emits the base
// constraints of spec.md §4.3: rf well-formedness (one-hot + value
// implication), co well-formedness (distinctness + init-minimality), and
// the acyclicity witness over ppo ∪ rf ∪ co ∪ fr. It then emits the
// mode-dependent ordering axioms (§4.4) itself, via emitModeAxioms (see
// axioms.go).
func NewEncoder(trace *event.Trace, opts Options) (*Encoder, error) {
	if opts.PPO == nil {
		opts = DefaultOptions()
	}

	enc := &Encoder{
		Trace:   trace,
		Opts:    opts,
		Model:   csp.NewModel(),
		reads:   trace.Reads(),
		writes:  trace.Writes(),
		rfVar:   make(map[[2]int]*csp.IntVar),
		coRank:  make(map[int]*csp.IntVar),
		rank:    make(map[int]*csp.IntVar),
		readVal: make(map[int]*csp.IntVar),
	}

	enc.allocRanks()
	enc.allocCoRanks()
	enc.allocRF()
	enc.allocReadValues()

	enc.emitRFWellFormed()
	enc.emitCOWellFormed()
	enc.emitAcyclicity()
	if opts.PerLocationOrder {
		enc.emitPerLocationOrder()
	}
	enc.emitModeAxioms()

	return enc, nil
}

// Ctx returns the predicate-facing view of this encoder's symbolic
// state (spec.md §6).
func (enc *Encoder) Ctx() *Ctx { return newCtx(enc) }

// RFSource returns the id of the write a's rf choice selects for the
// given read, if any. Used by the witness renderer (spec.md §4.6).
func (enc *Encoder) RFSource(readID int, a csp.Assignment) (int, bool) {
	r, ok := enc.Trace.EventByID(readID)
	if !ok || r.Kind != event.Read {
		return 0, false
	}
	for _, w := range enc.Trace.WritesTo(r.Addr) {
		v, ok := enc.rfVar[[2]int{r.ID, w.ID}]
		if ok && a.Value(v) == 1 {
			return w.ID, true
		}
	}
	return 0, false
}

// ResolvedValue returns the value a assigns to the given read.
func (enc *Encoder) ResolvedValue(readID int, a csp.Assignment) (int, bool) {
	v, ok := enc.readVal[readID]
	if !ok {
		return 0, false
	}
	return a.Value(v), true
}

// RankOf returns the rank a assigns to the given event.
func (enc *Encoder) RankOf(eventID int, a csp.Assignment) (int, bool) {
	v, ok := enc.rank[eventID]
	if !ok {
		return 0, false
	}
	return a.Value(v), true
}

func (enc *Encoder) minMaxID() (int, int) {
	min, max := 0, 0
	for i, e := range enc.Trace.Events() {
		if i == 0 || e.ID < min {
			min = e.ID
		}
		if i == 0 || e.ID > max {
			max = e.ID
		}
	}
	return min, max
}

// allocRanks allocates one integer rank variable per event and pins
// initial-write ranks to their negative ids (spec.md §4.3 step 5),
// preventing them from floating above program events.
func (enc *Encoder) allocRanks() {
	minID, _ := enc.minMaxID()
	n := len(enc.Trace.Events())
	hi := n*3 + 10

	for _, e := range enc.Trace.Events() {
		v := enc.Model.NewIntVar(fmt.Sprintf("rank[%d]", e.ID), minID-1, hi)
		enc.rank[e.ID] = v
		if e.IsInitial() {
			enc.Model.EqConst(v, e.ID)
		} else {
			enc.Model.Post(fmt.Sprintf("rank[%d]>0", e.ID), []*csp.IntVar{v}, func(get func(*csp.IntVar) int) bool {
				return get(v) > 0
			})
		}
	}
}

// allocCoRanks allocates one integer co_rank variable per write and emits
// the per-address distinctness and init-minimality constraints (spec.md
// §4.3 step 3).
func (enc *Encoder) allocCoRanks() {
	n := len(enc.writes)

	for _, w := range enc.writes {
		v := enc.Model.NewIntVar(fmt.Sprintf("co_rank[%d]", w.ID), 0, n+2)
		enc.coRank[w.ID] = v
	}

	for _, addr := range enc.Trace.Addrs() {
		writesToAddr := enc.Trace.WritesTo(addr)
		vars := make([]*csp.IntVar, len(writesToAddr))
		for i, w := range writesToAddr {
			vars[i] = enc.coRank[w.ID]
		}
		enc.Model.AllDifferent(vars)

		for _, w1 := range writesToAddr {
			if !w1.IsInitial() {
				continue
			}
			for _, w2 := range writesToAddr {
				if w2.IsInitial() {
					continue
				}
				enc.Model.Lt(enc.coRank[w1.ID], enc.coRank[w2.ID])
			}
		}
	}
}

// allocRF allocates a boolean rf variable for every (read, write) pair on
// the same address. Mismatched-address pairs get no variable at all: the
// implication addr(r)=addr(w) they would otherwise require is vacuously
// true by construction, so omitting them is a standard encoder-size
// optimization, not a semantic change.
func (enc *Encoder) allocRF() {
	for _, r := range enc.reads {
		for _, w := range enc.Trace.WritesTo(r.Addr) {
			v := enc.Model.NewBoolVar(fmt.Sprintf("rf[%d,%d]", w.ID, r.ID))
			enc.rfVar[[2]int{r.ID, w.ID}] = v
		}
	}
}

// allocReadValues allocates the symbolic value of each read, bounded by
// the concrete values of the writes that could possibly supply it.
func (enc *Encoder) allocReadValues() {
	for _, r := range enc.reads {
		candidates := enc.Trace.WritesTo(r.Addr)
		lo, hi := candidates[0].Val, candidates[0].Val
		for _, w := range candidates {
			if w.Val < lo {
				lo = w.Val
			}
			if w.Val > hi {
				hi = w.Val
			}
		}
		enc.readVal[r.ID] = enc.Model.NewIntVar(fmt.Sprintf("val[%d]", r.ID), lo, hi)
	}
}

// emitRFWellFormed emits: every read has exactly one rf source among its
// same-address candidates, and the implication-based value identity
// C[r][w] ⇒ val(r)=val(w) (spec.md §9's documented simpler equivalent of
// the weighted-sum encoding).
func (enc *Encoder) emitRFWellFormed() {
	for _, r := range enc.reads {
		candidates := enc.Trace.WritesTo(r.Addr)
		vars := make([]*csp.IntVar, len(candidates))
		for i, w := range candidates {
			vars[i] = enc.rfVar[[2]int{r.ID, w.ID}]
		}
		enc.Model.ExactlyOne(vars)

		rv := enc.readVal[r.ID]
		for _, w := range candidates {
			rfv := enc.rfVar[[2]int{r.ID, w.ID}]
			wVal := w.Val
			enc.Model.PostIf(fmt.Sprintf("rf[%d,%d]=>val", w.ID, r.ID),
				[]*csp.IntVar{rfv}, func(get func(*csp.IntVar) int) bool { return get(rfv) == 1 },
				[]*csp.IntVar{rv}, func(get func(*csp.IntVar) int) bool { return get(rv) == wVal })
		}
	}
}

// emitCOWellFormed is a no-op beyond what allocCoRanks already posted;
// kept as a named step so the encoding pipeline mirrors spec.md §4.3's
// step numbering one-for-one.
func (enc *Encoder) emitCOWellFormed() {}

// co reports the symbolic co(w1, w2): same address and co_rank[w1] <
// co_rank[w2].
func (enc *Encoder) co(w1, w2 event.Event) (condVars []*csp.IntVar, cond func(get func(*csp.IntVar) int) bool) {
	if w1.Addr != w2.Addr {
		return nil, func(get func(*csp.IntVar) int) bool { return false }
	}
	r1, r2 := enc.coRank[w1.ID], enc.coRank[w2.ID]
	return []*csp.IntVar{r1, r2}, func(get func(*csp.IntVar) int) bool { return get(r1) < get(r2) }
}

// emitAcyclicity emits the rank-strictly-increases implication for every
// edge of ppo ∪ rf ∪ co ∪ fr (spec.md §4.3 step 4 / §9's rank trick).
func (enc *Encoder) emitAcyclicity() {
	events := enc.Trace.Events()

	// ppo edges are static (known at encode time from the concrete
	// trace), so they are hard constraints, not conditional ones.
	for _, e1 := range events {
		for _, e2 := range events {
			if e1.ID == e2.ID {
				continue
			}
			if enc.Opts.PPO(e1, e2) {
				enc.Model.Lt(enc.rank[e1.ID], enc.rank[e2.ID])
			}
		}
	}

	// rf edges: rf(w,r) ⇒ rank[w] < rank[r]. This doubles as the
	// standalone "rf timing" axiom of spec.md §4.4, required even
	// though po/co/fr imply much of it because rf edges cross threads.
	for _, r := range enc.reads {
		for _, w := range enc.Trace.WritesTo(r.Addr) {
			rfv := enc.rfVar[[2]int{r.ID, w.ID}]
			rw, re := enc.rank[w.ID], enc.rank[r.ID]
			enc.Model.PostIf(fmt.Sprintf("rf[%d,%d]=>rank", w.ID, r.ID),
				[]*csp.IntVar{rfv}, func(get func(*csp.IntVar) int) bool { return get(rfv) == 1 },
				[]*csp.IntVar{rw, re}, func(get func(*csp.IntVar) int) bool { return get(rw) < get(re) })
		}
	}

	// co edges: co(w1,w2) ⇒ rank[w1] < rank[w2].
	for _, addr := range enc.Trace.Addrs() {
		writesToAddr := enc.Trace.WritesTo(addr)
		for _, w1 := range writesToAddr {
			for _, w2 := range writesToAddr {
				if w1.ID == w2.ID {
					continue
				}
				condVars, cond := enc.co(w1, w2)
				rw1, rw2 := enc.rank[w1.ID], enc.rank[w2.ID]
				enc.Model.PostIf(fmt.Sprintf("co[%d,%d]=>rank", w1.ID, w2.ID),
					condVars, cond,
					[]*csp.IntVar{rw1, rw2}, func(get func(*csp.IntVar) int) bool { return get(rw1) < get(rw2) })
			}
		}
	}

	// fr edges: fr(r,w') ⇔ ∃w. rf(w,r) ∧ co(w,w') ⇒ rank[r] < rank[w'].
	for _, r := range enc.reads {
		for _, w := range enc.Trace.WritesTo(r.Addr) {
			rfv := enc.rfVar[[2]int{r.ID, w.ID}]
			for _, wPrime := range enc.Trace.WritesTo(r.Addr) {
				if wPrime.ID == w.ID {
					continue
				}
				coVars, coCond := enc.co(w, wPrime)
				condVars := append([]*csp.IntVar{rfv}, coVars...)
				cond := func(get func(*csp.IntVar) int) bool {
					return get(rfv) == 1 && coCond(get)
				}
				rr, rwp := enc.rank[r.ID], enc.rank[wPrime.ID]
				enc.Model.PostIf(fmt.Sprintf("fr[%d,%d]=>rank", r.ID, wPrime.ID),
					condVars, cond,
					[]*csp.IntVar{rr, rwp}, func(get func(*csp.IntVar) int) bool { return get(rr) < get(rwp) })
			}
		}
	}
}

// emitPerLocationOrder is the opt-in coherence-per-location strengthening
// flagged in spec.md §9's Open Questions: every same-address, same-thread
// pair gets rank order equal to program order, even when neither endpoint
// is sc, whichever rf/co/fr edge (if any) connects them.
func (enc *Encoder) emitPerLocationOrder() {
	events := enc.Trace.Events()
	for _, e1 := range events {
		for _, e2 := range events {
			if e1.ID == e2.ID || e1.Addr != e2.Addr {
				continue
			}
			samePO := e1.Thread == e2.Thread && e1.Thread >= 0 && e1.ID < e2.ID
			if !samePO {
				continue
			}
			// Same-thread, same-address, po-ordered: force rank order
			// to match po order directly (a strictly stronger,
			// always-applicable constraint than gating on which rf/co
			// edge happens to connect them).
			enc.Model.Lt(enc.rank[e1.ID], enc.rank[e2.ID])
		}
	}
}
