// Package verify assembles a trace's symbolic encoding, a caller-supplied
// violation/progress/extra predicate, and the csp solver into the three
// operations spec.md §6 calls the programmatic surface: Verify, Analyze,
// and Render.
package verify

import (
	"context"
	"log/slog"

	"github.com/sarchlab/axverify/axioms"
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
)

// defaultNodeBudget bounds a single solve; traces in this domain are a
// handful of events, so this is generous headroom rather than a tight
// limit (spec.md §4.5's "Unknown, never silently Unsat").
const defaultNodeBudget = 500_000

// Backend is the seam between Verify and the underlying solver (spec.md
// §4.5's Solving state). The default backend is csp.Model.Solve; driver
// tests substitute a golang/mock fake to exercise the Unknown path
// deterministically.
//
//go:generate mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_backend_test.go github.com/sarchlab/axverify/verify Backend
type Backend interface {
	Solve(ctx context.Context, m *csp.Model, nodeBudget int) csp.Result
}

type defaultBackend struct{}

func (defaultBackend) Solve(ctx context.Context, m *csp.Model, nodeBudget int) csp.Result {
	return m.Solve(ctx, nodeBudget)
}

// Result is the outcome of a Verify or Analyze call. Witness is populated
// iff Outcome is csp.Sat; Reason and Err are populated iff Outcome is
// csp.Unknown. Err is the typed *SolverUnknownError wrapping Reason, for
// callers that want to use errors.As rather than match on the bare string.
type Result struct {
	Outcome csp.Outcome
	Witness *Witness
	Reason  string
	Err     error
}

// Verify searches for an execution admitted by the default (per-event-mode
// driven) axiom set that also satisfies violation and progress, and
// optionally extra. extra may be nil. This is spec.md §6 operation 1.
func Verify(ctx context.Context, trace *event.Trace, violation, progress, extra axioms.Predicate) (Result, error) {
	return verifyWithBackend(ctx, defaultBackend{}, defaultNodeBudget, trace, axioms.DefaultOptions(), violation, progress, extra)
}

// Analyze is Verify under one of the named mode presets (spec.md §6
// operation 2): mode selects the ppo variant and whether release-acquire
// is enforced everywhere or only where rf actually witnesses it.
func Analyze(ctx context.Context, trace *event.Trace, mode axioms.Mode, violation, progress, extra axioms.Predicate) (Result, error) {
	opts, err := axioms.AnalyzeOptions(mode)
	if err != nil {
		return Result{}, err
	}
	return verifyWithBackend(ctx, defaultBackend{}, defaultNodeBudget, trace, opts, violation, progress, extra)
}

func verifyWithBackend(
	ctx context.Context,
	backend Backend,
	nodeBudget int,
	trace *event.Trace,
	opts axioms.Options,
	violation, progress, extra axioms.Predicate,
) (Result, error) {
	enc, err := axioms.NewEncoder(trace, opts)
	if err != nil {
		return Result{}, err
	}

	if err := assertPredicate(enc, violation); err != nil {
		return Result{}, err
	}
	if err := assertPredicate(enc, progress); err != nil {
		return Result{}, err
	}
	if err := assertPredicate(enc, extra); err != nil {
		return Result{}, err
	}

	slog.Debug("solving", "events", len(trace.Events()), "node_budget", nodeBudget)
	res := backend.Solve(ctx, enc.Model, nodeBudget)

	switch res.Outcome {
	case csp.Sat:
		w, err := renderWitness(enc, res.Assignment)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: csp.Sat, Witness: w}, nil
	case csp.Unsat:
		return Result{Outcome: csp.Unsat}, nil
	default:
		unknownErr := &SolverUnknownError{Reason: res.Reason}
		slog.Warn("solver gave up", "reason", res.Reason)
		return Result{Outcome: csp.Unknown, Reason: res.Reason, Err: unknownErr}, nil
	}
}

func assertPredicate(enc *axioms.Encoder, p axioms.Predicate) error {
	if p == nil {
		return nil
	}
	expr, err := p(enc.Ctx())
	if err != nil {
		return err
	}
	enc.Model.AssertTrue(expr)
	return nil
}
