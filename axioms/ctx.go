package axioms

import (
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
)

// Ctx is the view of an Encoder's symbolic state exposed to
// violation/progress/extra predicates (spec.md §6). Predicates build
// csp.Expr values over the variables Ctx exposes; they never touch the
// csp.Model directly.
type Ctx struct {
	enc *Encoder
}

// Predicate is a caller-supplied formula over the symbolic encoding of a
// trace. Verify and Analyze assert each supplied predicate (violation,
// progress and, if non-nil, extra) true, so the search looks for an
// execution that exhibits the violation while the progress predicate holds.
type Predicate func(ctx *Ctx) (csp.Expr, error)

func newCtx(enc *Encoder) *Ctx { return &Ctx{enc: enc} }

// ReadValue returns the IntVar holding the symbolic value read by the
// read event with the given id. It is not itself boolean-valued; use
// ValueEq, or compare it directly with csp.Eq/csp.EqV, to build an Expr.
func (c *Ctx) ReadValue(readID int) (*csp.IntVar, error) {
	v, ok := c.enc.readVal[readID]
	if !ok {
		return nil, predicateError("event %d is not a read in this trace", readID)
	}
	return v, nil
}

// RF returns an expression that is true iff the read reads from the
// write, i.e. rf(write, read) holds in the chosen execution.
func (c *Ctx) RF(writeID, readID int) (csp.Expr, error) {
	r, ok := c.enc.Trace.EventByID(readID)
	if !ok || r.Kind != event.Read {
		return nil, predicateError("event %d is not a read in this trace", readID)
	}
	w, ok := c.enc.Trace.EventByID(writeID)
	if !ok || w.Kind != event.Write {
		return nil, predicateError("event %d is not a write in this trace", writeID)
	}
	v, ok := c.enc.rfVar[[2]int{r.ID, w.ID}]
	if !ok {
		return csp.Const(false), nil
	}
	return csp.Var(v), nil
}

// CO returns an expression that is true iff w1 is coherence-ordered
// before w2 in the chosen execution.
func (c *Ctx) CO(w1ID, w2ID int) (csp.Expr, error) {
	w1, ok := c.enc.Trace.EventByID(w1ID)
	if !ok || w1.Kind != event.Write {
		return nil, predicateError("event %d is not a write in this trace", w1ID)
	}
	w2, ok := c.enc.Trace.EventByID(w2ID)
	if !ok || w2.Kind != event.Write {
		return nil, predicateError("event %d is not a write in this trace", w2ID)
	}
	condVars, cond := c.enc.co(w1, w2)
	return rawExpr{condVars, cond}, nil
}

// Rank returns the IntVar holding the symbolic total-order rank of the
// given event. Exposed so predicates can express "happens before"
// directly without going through rf/co.
func (c *Ctx) Rank(eventID int) (*csp.IntVar, error) {
	v, ok := c.enc.rank[eventID]
	if !ok {
		return nil, predicateError("event %d is not in this trace", eventID)
	}
	return v, nil
}

// ValueEq returns an expression that is true iff the read's symbolic
// value equals c.
func (c *Ctx) ValueEq(readID int, val int) (csp.Expr, error) {
	v, ok := c.enc.readVal[readID]
	if !ok {
		return nil, predicateError("event %d is not a read in this trace", readID)
	}
	return csp.Eq(v, val), nil
}

// RankBefore returns an expression that is true iff e1 is ordered before
// e2 in the chosen execution's total rank order.
func (c *Ctx) RankBefore(e1ID, e2ID int) (csp.Expr, error) {
	r1, ok := c.enc.rank[e1ID]
	if !ok {
		return nil, predicateError("event %d is not in this trace", e1ID)
	}
	r2, ok := c.enc.rank[e2ID]
	if !ok {
		return nil, predicateError("event %d is not in this trace", e2ID)
	}
	return csp.LtV(r1, r2), nil
}

// rawExpr adapts an ad hoc (condVars, cond) pair — as produced by
// Encoder.co, for same-address and mismatched-address pairs alike — into
// an Expr.
type rawExpr struct {
	vars []*csp.IntVar
	cond func(get func(*csp.IntVar) int) bool
}

func (e rawExpr) Reify(m *csp.Model) *csp.IntVar {
	b := m.NewBoolVar("raw")
	vars := append([]*csp.IntVar{b}, e.vars...)
	m.Post("raw-def", vars, func(get func(*csp.IntVar) int) bool {
		want := 0
		if e.cond(get) {
			want = 1
		}
		return get(b) == want
	})
	return b
}
