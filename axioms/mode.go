package axioms

import (
	"github.com/sarchlab/axverify/event"
	"github.com/sarchlab/axverify/relation"
)

// Mode selects the ppo variant and release-acquire enforcement default
// used by Analyze (spec.md §6). It is distinct from event.Mode, which
// tags individual events; Mode is a preset applied uniformly across a
// trace.
type Mode string

const (
	ModeSC      Mode = "sc"
	ModeRA      Mode = "ra"
	ModeRelaxed Mode = "relaxed"
)

// Options configures how Encoder emits axioms. The zero value is the
// literal, per-event-mode-driven reading of spec.md §4.2/§4.4: ppo is
// PPORelaxed and release-acquire edges require an rf edge to actually
// connect the release and the acquire (the stricter of the two Open
// Question #2 interpretations — see DESIGN.md).
type Options struct {
	// PPO is the preserved-program-order predicate. Verify always uses
	// relation.PPORelaxed (which degenerates to full program order when
	// every event happens to be sc-tagged, so P1's all-sc trace still
	// gets full ppo without needing a separate case). Analyze overrides
	// this per its Mode argument.
	PPO func(e1, e2 event.Event) bool

	// ForceReleaseAcquireEverywhere, when true, applies the
	// release-acquire happens-before axiom to every same-address
	// rel-write/acq-read pair unconditionally, not only those an rf
	// choice actually connects. This is Analyze's "ra" preset (spec.md
	// §6: "ra enables release-acquire happens-before on all rel/acq
	// pairs even when not strictly induced by the solver's rf") and is
	// the "over-conservative RA" behavior exercised by scenario P3.
	ForceReleaseAcquireEverywhere bool

	// PerLocationOrder opts into the stronger, C11-style
	// coherence-per-location reading flagged as an open question in
	// spec.md §9: same-address, same-thread pairs are ranked in
	// program order even under relaxed, not left to the solver. Off by
	// default (see DESIGN.md decision #1).
	PerLocationOrder bool
}

// DefaultOptions is the literal per-event-mode reading used by Verify.
func DefaultOptions() Options {
	return Options{PPO: relation.PPORelaxed}
}

// AnalyzeOptions returns the Options preset for a given Mode, or a
// PredicateError for an unknown mode. Analyze encodes the trace with its
// per-event mode tags unchanged.
func AnalyzeOptions(mode Mode) (Options, error) {
	switch mode {
	case ModeSC:
		return Options{PPO: relation.PPOSC}, nil
	case ModeRA:
		return Options{PPO: relation.PPORelaxed, ForceReleaseAcquireEverywhere: true}, nil
	case ModeRelaxed:
		return Options{PPO: relation.PPORelaxed}, nil
	default:
		return Options{}, predicateError("unknown analyze mode %q", mode)
	}
}
