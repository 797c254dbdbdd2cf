package verify

import (
	"context"
	"testing"

	gomock "github.com/golang/mock/gomock"

	"github.com/sarchlab/axverify/axioms"
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
)

func trivialTrace(t *testing.T) *event.Trace {
	t.Helper()
	tr, err := event.BuildTrace([]event.Event{
		{ID: -1, Thread: -1, Kind: event.Write, Addr: 0, Val: 0, Mode: event.SC},
		{ID: 1, Thread: 0, Kind: event.Read, Addr: 0, Mode: event.SC},
	})
	if err != nil {
		t.Fatalf("BuildTrace: %v", err)
	}
	return tr
}

func alwaysTrue(ctx *axioms.Ctx) (csp.Expr, error) { return csp.Const(true), nil }

func TestVerifyWithBackendSurfacesUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	backend.EXPECT().
		Solve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(csp.Result{Outcome: csp.Unknown, Reason: "node budget exhausted"})

	res, err := verifyWithBackend(context.Background(), backend, 1, trivialTrace(t), axioms.DefaultOptions(), alwaysTrue, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != csp.Unknown {
		t.Fatalf("expected Unknown, got %s", res.Outcome)
	}
	if res.Reason != "node budget exhausted" {
		t.Fatalf("expected reason to be surfaced, got %q", res.Reason)
	}
	if res.Witness != nil {
		t.Fatalf("Unknown result should carry no witness")
	}
}

func TestVerifyWithBackendSurfacesSat(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	backend.EXPECT().
		Solve(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, m *csp.Model, nodeBudget int) csp.Result {
			return m.Solve(ctx, nodeBudget)
		})

	res, err := verifyWithBackend(context.Background(), backend, defaultNodeBudget, trivialTrace(t), axioms.DefaultOptions(), alwaysTrue, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != csp.Sat {
		t.Fatalf("expected Sat, got %s", res.Outcome)
	}
	if res.Witness == nil || len(res.Witness.Rows) != 2 {
		t.Fatalf("expected a two-row witness, got %+v", res.Witness)
	}
}

func TestVerifyWithBackendSurfacesUnsat(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	backend.EXPECT().
		Solve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(csp.Result{Outcome: csp.Unsat})

	alwaysFalse := func(ctx *axioms.Ctx) (csp.Expr, error) { return csp.Const(false), nil }
	res, err := verifyWithBackend(context.Background(), backend, 1, trivialTrace(t), axioms.DefaultOptions(), alwaysFalse, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != csp.Unsat {
		t.Fatalf("expected Unsat, got %s", res.Outcome)
	}
}
