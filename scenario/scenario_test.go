package scenario_test

import (
	"testing"

	"github.com/sarchlab/axverify/scenario"
)

func TestAllReturnsSixNamedScenarios(t *testing.T) {
	scenarios, err := scenario.All()
	if err != nil {
		t.Fatalf("scenario.All: %v", err)
	}
	if len(scenarios) != 6 {
		t.Fatalf("expected 6 scenarios, got %d", len(scenarios))
	}

	seen := make(map[string]bool)
	for _, s := range scenarios {
		if s.Name == "" {
			t.Errorf("scenario has empty name")
		}
		if seen[s.Name] {
			t.Errorf("duplicate scenario name %q", s.Name)
		}
		seen[s.Name] = true

		if s.Trace == nil {
			t.Errorf("%s: nil trace", s.Name)
		}
		if s.Violation == nil {
			t.Errorf("%s: nil violation predicate", s.Name)
		}
	}

	want := []string{"P1", "P2", "P3", "P4", "P5", "P_deadlock_sc"}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("missing expected scenario %q", name)
		}
	}
}
