// Package csp is a small bounded finite-domain constraint solver. It stands
// in for an external SMT binding (spec.md's "SMT-backed execution
// synthesizer"): no such binding exists anywhere in the example corpus this
// module was grounded on, so rather than fabricate one behind a fake
// module, this package implements the same shape by hand — finite-domain
// integer/boolean variables, a list of constraints conjoined at solve time,
// and a reified boolean expression algebra — in the idiom of the
// minikanren/FD constraint solver referenced in the corpus (posted
// constraints over named finite-domain variables, equality reified into a
// fresh boolean).
//
// The search itself is plain depth-first backtracking with
// constraint-readiness pruning (a constraint is checked as soon as every
// variable it mentions is bound, not only once the whole assignment is
// complete). That is adequate for the bounded, single-digit-event traces
// this verifier targets; a node budget and context deadline both surface
// as Unknown rather than a silent Unsat, matching spec.md §7.
package csp

import "fmt"

// IntVar is a finite-domain integer variable with an inclusive [Lo, Hi]
// domain. A BoolVar is an IntVar with domain [0, 1].
type IntVar struct {
	id     int
	name   string
	lo, hi int
}

func (v *IntVar) String() string { return v.name }

// ID is the variable's position in its owning Model; stable for the
// lifetime of the model.
func (v *IntVar) ID() int { return v.id }

type constraint struct {
	name  string
	vars  []*IntVar
	check func(get func(*IntVar) int) bool
}

func maxVarID(vars []*IntVar) int {
	max := 0
	for _, v := range vars {
		if v.id > max {
			max = v.id
		}
	}
	return max
}

// Model owns a set of variables and the constraints posted over them.
type Model struct {
	vars        []*IntVar
	constraints []*constraint
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewIntVar allocates a fresh integer variable with domain [lo, hi].
func (m *Model) NewIntVar(name string, lo, hi int) *IntVar {
	v := &IntVar{id: len(m.vars), name: name, lo: lo, hi: hi}
	m.vars = append(m.vars, v)
	return v
}

// NewBoolVar allocates a fresh boolean (0/1) variable.
func (m *Model) NewBoolVar(name string) *IntVar {
	return m.NewIntVar(name, 0, 1)
}

// Post adds a named constraint over vars; check is evaluated once every
// variable in vars is bound during search.
func (m *Model) Post(name string, vars []*IntVar, check func(get func(*IntVar) int) bool) {
	m.constraints = append(m.constraints, &constraint{name: name, vars: vars, check: check})
}

// PostIf posts a conditional constraint: `then` is only required to hold
// when `cond` holds; it is trivially satisfied otherwise. This is the
// workhorse used to emit the memory-model axioms, which are almost all of
// the form "if this rf/co choice was made, then this ordering is required."
func (m *Model) PostIf(name string, condVars []*IntVar, cond func(get func(*IntVar) int) bool, thenVars []*IntVar, then func(get func(*IntVar) int) bool) {
	all := make([]*IntVar, 0, len(condVars)+len(thenVars))
	all = append(all, condVars...)
	all = append(all, thenVars...)
	m.Post(name, all, func(get func(*IntVar) int) bool {
		if !cond(get) {
			return true
		}
		return then(get)
	})
}

// EqConst posts v == c.
func (m *Model) EqConst(v *IntVar, c int) {
	m.Post(fmt.Sprintf("%s==%d", v.name, c), []*IntVar{v}, func(get func(*IntVar) int) bool {
		return get(v) == c
	})
}

// Eq posts a == b.
func (m *Model) Eq(a, b *IntVar) {
	m.Post(fmt.Sprintf("%s==%s", a.name, b.name), []*IntVar{a, b}, func(get func(*IntVar) int) bool {
		return get(a) == get(b)
	})
}

// NotEq posts a != b.
func (m *Model) NotEq(a, b *IntVar) {
	m.Post(fmt.Sprintf("%s!=%s", a.name, b.name), []*IntVar{a, b}, func(get func(*IntVar) int) bool {
		return get(a) != get(b)
	})
}

// Lt posts a < b.
func (m *Model) Lt(a, b *IntVar) {
	m.Post(fmt.Sprintf("%s<%s", a.name, b.name), []*IntVar{a, b}, func(get func(*IntVar) int) bool {
		return get(a) < get(b)
	})
}

// ExactlyOne posts that exactly one of vars (each assumed boolean) is 1.
func (m *Model) ExactlyOne(vars []*IntVar) {
	cp := append([]*IntVar{}, vars...)
	m.Post("exactly-one", cp, func(get func(*IntVar) int) bool {
		count := 0
		for _, v := range cp {
			count += get(v)
		}
		return count == 1
	})
}

// AllDifferent posts pairwise inequality over vars.
func (m *Model) AllDifferent(vars []*IntVar) {
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			m.NotEq(vars[i], vars[j])
		}
	}
}
