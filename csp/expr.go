package csp

// Expr is a boolean-valued expression over a Model's variables. Violation
// and progress predicates (spec.md §6) build Exprs and hand them back to
// the driver, which reifies and asserts them; this is what lets a
// predicate like `(read_tail1>=1 && read_data0!=1) || (...)` be expressed
// without the caller reaching into the solver's internals.
type Expr interface {
	// Reify returns a boolean variable whose value equals this
	// expression's truth value in any assignment satisfying the defining
	// constraints Reify posts as a side effect.
	Reify(m *Model) *IntVar
}

// Var wraps an existing boolean variable (e.g. one produced by an
// Encoder) as an Expr with no extra reification cost.
func Var(v *IntVar) Expr { return varExpr{v} }

type varExpr struct{ v *IntVar }

func (e varExpr) Reify(m *Model) *IntVar { return e.v }

// Const is an expression with a fixed truth value, used for structurally
// impossible rf/co pairs (e.g. mismatched addresses).
func Const(b bool) Expr { return constExpr(b) }

type constExpr bool

func (c constExpr) Reify(m *Model) *IntVar {
	v := m.NewBoolVar("const")
	val := 0
	if bool(c) {
		val = 1
	}
	m.EqConst(v, val)
	return v
}

type cmpOp int

const (
	opEq cmpOp = iota
	opNeq
	opLt
	opLeq
	opGt
	opGeq
)

func (op cmpOp) eval(a, b int) bool {
	switch op {
	case opEq:
		return a == b
	case opNeq:
		return a != b
	case opLt:
		return a < b
	case opLeq:
		return a <= b
	case opGt:
		return a > b
	case opGeq:
		return a >= b
	default:
		return false
	}
}

// EqV, NeqV, LtV, LeqV, GtV, GeqV compare two variables.
func EqV(a, b *IntVar) Expr  { return cmpExpr{a, b, opEq} }
func NeqV(a, b *IntVar) Expr { return cmpExpr{a, b, opNeq} }
func LtV(a, b *IntVar) Expr  { return cmpExpr{a, b, opLt} }
func LeqV(a, b *IntVar) Expr { return cmpExpr{a, b, opLeq} }
func GtV(a, b *IntVar) Expr  { return cmpExpr{a, b, opGt} }
func GeqV(a, b *IntVar) Expr { return cmpExpr{a, b, opGeq} }

type cmpExpr struct {
	a, b *IntVar
	op   cmpOp
}

func (c cmpExpr) Reify(m *Model) *IntVar {
	b := m.NewBoolVar("cmp")
	m.Post("cmp-def", []*IntVar{b, c.a, c.b}, func(get func(*IntVar) int) bool {
		want := 0
		if c.op.eval(get(c.a), get(c.b)) {
			want = 1
		}
		return get(b) == want
	})
	return b
}

// Eq, Neq, Lt, Leq, Gt, Geq compare a variable against a constant.
func Eq(a *IntVar, c int) Expr  { return cmpConstExpr{a, c, opEq} }
func Neq(a *IntVar, c int) Expr { return cmpConstExpr{a, c, opNeq} }
func Lt(a *IntVar, c int) Expr  { return cmpConstExpr{a, c, opLt} }
func Leq(a *IntVar, c int) Expr { return cmpConstExpr{a, c, opLeq} }
func Gt(a *IntVar, c int) Expr  { return cmpConstExpr{a, c, opGt} }
func Geq(a *IntVar, c int) Expr { return cmpConstExpr{a, c, opGeq} }

type cmpConstExpr struct {
	a   *IntVar
	c   int
	op  cmpOp
}

func (c cmpConstExpr) Reify(m *Model) *IntVar {
	b := m.NewBoolVar("cmp-const")
	m.Post("cmp-const-def", []*IntVar{b, c.a}, func(get func(*IntVar) int) bool {
		want := 0
		if c.op.eval(get(c.a), c.c) {
			want = 1
		}
		return get(b) == want
	})
	return b
}

// And, Or, Not build boolean combinations of Exprs.
func And(parts ...Expr) Expr { return andExpr(parts) }
func Or(parts ...Expr) Expr  { return orExpr(parts) }
func Not(e Expr) Expr        { return notExpr{e} }

type andExpr []Expr

func (a andExpr) Reify(m *Model) *IntVar {
	children := make([]*IntVar, len(a))
	for i, p := range a {
		children[i] = p.Reify(m)
	}
	b := m.NewBoolVar("and")
	vars := append([]*IntVar{b}, children...)
	m.Post("and-def", vars, func(get func(*IntVar) int) bool {
		all := true
		for _, c := range children {
			if get(c) == 0 {
				all = false
				break
			}
		}
		want := 0
		if all {
			want = 1
		}
		return get(b) == want
	})
	return b
}

type orExpr []Expr

func (o orExpr) Reify(m *Model) *IntVar {
	children := make([]*IntVar, len(o))
	for i, p := range o {
		children[i] = p.Reify(m)
	}
	b := m.NewBoolVar("or")
	vars := append([]*IntVar{b}, children...)
	m.Post("or-def", vars, func(get func(*IntVar) int) bool {
		any := false
		for _, c := range children {
			if get(c) == 1 {
				any = true
				break
			}
		}
		want := 0
		if any {
			want = 1
		}
		return get(b) == want
	})
	return b
}

type notExpr struct{ e Expr }

func (n notExpr) Reify(m *Model) *IntVar {
	v := n.e.Reify(m)
	b := m.NewBoolVar("not")
	m.Post("not-def", []*IntVar{b, v}, func(get func(*IntVar) int) bool {
		return get(b) != get(v)
	})
	return b
}

// AssertTrue reifies e and posts that it must hold. This is how the
// driver turns a caller-supplied violation/progress/extra predicate into
// constraints the search must satisfy.
func (m *Model) AssertTrue(e Expr) {
	b := e.Reify(m)
	m.EqConst(b, 1)
}
