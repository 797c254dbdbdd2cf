// Package scenario holds the named, built-in producer/consumer traces of
// spec.md §8: a two-slot ring buffer shared between one producer thread and
// one consumer thread, tagged six different ways to exercise every mode
// combination Verify and Analyze support.
//
// Every scenario shares the same four addresses and, where applicable, the
// same event ids, so a reader can diff two scenarios' mode maps (the
// argument each passes to buildTrace) to see exactly which annotation
// changed.
package scenario

import (
	"context"

	"github.com/sarchlab/axverify/axioms"
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
	"github.com/sarchlab/axverify/verify"
)

// Addresses used by every ring-buffer scenario.
const (
	AddrData0 = 0
	AddrData1 = 1
	AddrTail  = 2
	AddrHead  = 3
)

// Event ids shared by every scenario. Producer is thread 1, consumer is
// thread 2.
const (
	InitData0 = -1
	InitData1 = -2
	InitTail  = -3
	InitHead  = -4

	WriteData0 = 1 // producer: DATA0 = 1
	WriteTail1 = 2 // producer: TAIL = 1 (slot 0 published)
	WriteData1 = 3 // producer: DATA1 = 2
	WriteTail2 = 4 // producer: TAIL = 2 (slot 1 published)

	ReadTail1  = 5  // consumer: first poll of TAIL  (read_tail1)
	ReadData0  = 6  // consumer: reads DATA0         (read_data0)
	WriteHead1 = 7  // consumer: HEAD = 1 (slot 0 consumed)
	ReadTail2  = 8  // consumer: second poll of TAIL (read_tail2)
	ReadData1  = 9  // consumer: reads DATA1         (read_data1)
	WriteHead0 = 10 // consumer: HEAD = 0 (slot 1 consumed, wraps)

	ReadHeadFinal = 11 // producer: final poll of HEAD (deadlock check)
	ReadTailFinal = 12 // consumer: final poll of TAIL (deadlock check)
)

// Scenario is a named trace plus the predicates and entry point spec.md §8
// exercises it with.
type Scenario struct {
	Name        string
	Description string

	Trace *event.Trace

	// Mode selects Analyze(Mode, ...) when non-nil, or Verify(...) when
	// nil.
	Mode *axioms.Mode

	Violation axioms.Predicate
	Progress  axioms.Predicate
	Extra     axioms.Predicate

	Expected csp.Outcome
}

// Run executes the scenario's entry point and returns the result alongside
// whether it matched Expected.
func (s *Scenario) Run(ctx context.Context) (verify.Result, bool, error) {
	var res verify.Result
	var err error
	if s.Mode == nil {
		res, err = verify.Verify(ctx, s.Trace, s.Violation, s.Progress, s.Extra)
	} else {
		res, err = verify.Analyze(ctx, s.Trace, *s.Mode, s.Violation, s.Progress, s.Extra)
	}
	if err != nil {
		return verify.Result{}, false, err
	}
	return res, res.Outcome == s.Expected, nil
}

// baseEvents builds the four initial writes (always event.SC, which spec.md
// §4.1 requires; modes is not consulted for them) and the ten shared
// ring-buffer program events, applying mode to each program event id
// present in modes and defaulting anything absent to event.Rlx.
func baseEvents(modes map[int]event.Mode) []event.Event {
	mode := func(id int) event.Mode {
		if m, ok := modes[id]; ok {
			return m
		}
		return event.Rlx
	}

	return []event.Event{
		{ID: InitData0, Thread: -1, Kind: event.Write, Addr: AddrData0, Val: 0, Mode: event.SC},
		{ID: InitData1, Thread: -1, Kind: event.Write, Addr: AddrData1, Val: 0, Mode: event.SC},
		{ID: InitTail, Thread: -1, Kind: event.Write, Addr: AddrTail, Val: 0, Mode: event.SC},
		{ID: InitHead, Thread: -1, Kind: event.Write, Addr: AddrHead, Val: 0, Mode: event.SC},

		{ID: WriteData0, Thread: 1, Kind: event.Write, Addr: AddrData0, Val: 1, Mode: mode(WriteData0)},
		{ID: WriteTail1, Thread: 1, Kind: event.Write, Addr: AddrTail, Val: 1, Mode: mode(WriteTail1)},
		{ID: WriteData1, Thread: 1, Kind: event.Write, Addr: AddrData1, Val: 2, Mode: mode(WriteData1)},
		{ID: WriteTail2, Thread: 1, Kind: event.Write, Addr: AddrTail, Val: 2, Mode: mode(WriteTail2)},

		{ID: ReadTail1, Thread: 2, Kind: event.Read, Addr: AddrTail, Mode: mode(ReadTail1)},
		{ID: ReadData0, Thread: 2, Kind: event.Read, Addr: AddrData0, Mode: mode(ReadData0)},
		{ID: WriteHead1, Thread: 2, Kind: event.Write, Addr: AddrHead, Val: 1, Mode: mode(WriteHead1)},
		{ID: ReadTail2, Thread: 2, Kind: event.Read, Addr: AddrTail, Mode: mode(ReadTail2)},
		{ID: ReadData1, Thread: 2, Kind: event.Read, Addr: AddrData1, Mode: mode(ReadData1)},
		{ID: WriteHead0, Thread: 2, Kind: event.Write, Addr: AddrHead, Val: 0, Mode: mode(WriteHead0)},
	}
}

func buildTrace(modes map[int]event.Mode) (*event.Trace, error) {
	return event.BuildTrace(baseEvents(modes))
}

// buildDeadlockTrace extends baseEvents with the two final polls
// P_deadlock_sc checks: the producer's last read of HEAD and the consumer's
// last read of TAIL, both program-order-after everything above in their
// respective threads.
func buildDeadlockTrace(modes map[int]event.Mode) (*event.Trace, error) {
	events := baseEvents(modes)
	mode := func(id int) event.Mode {
		if m, ok := modes[id]; ok {
			return m
		}
		return event.SC
	}
	events = append(events,
		event.Event{ID: ReadHeadFinal, Thread: 1, Kind: event.Read, Addr: AddrHead, Mode: mode(ReadHeadFinal)},
		event.Event{ID: ReadTailFinal, Thread: 2, Kind: event.Read, Addr: AddrTail, Mode: mode(ReadTailFinal)},
	)
	return event.BuildTrace(events)
}

// progressRingAdvances asserts that the consumer's two TAIL polls actually
// observed the producer's two TAIL writes, i.e. the ring genuinely produced
// and consumed both slots. Shared by every scenario below: it is what turns
// "some execution exists" into "the execution where the protocol actually
// ran to completion exists."
func progressRingAdvances(ctx *axioms.Ctx) (csp.Expr, error) {
	rf1, err := ctx.RF(WriteTail1, ReadTail1)
	if err != nil {
		return nil, err
	}
	rf2, err := ctx.RF(WriteTail2, ReadTail2)
	if err != nil {
		return nil, err
	}
	return csp.And(rf1, rf2), nil
}

// violationStaleRead is the bug pattern P1-P5 all probe: the consumer
// observed a TAIL update but not the DATA write that, in program order,
// preceded it.
func violationStaleRead(ctx *axioms.Ctx) (csp.Expr, error) {
	tail1, err := ctx.ReadValue(ReadTail1)
	if err != nil {
		return nil, err
	}
	data0, err := ctx.ReadValue(ReadData0)
	if err != nil {
		return nil, err
	}
	tail2, err := ctx.ReadValue(ReadTail2)
	if err != nil {
		return nil, err
	}
	data1, err := ctx.ReadValue(ReadData1)
	if err != nil {
		return nil, err
	}

	slot0Stale := csp.And(csp.Geq(tail1, 1), csp.Neq(data0, 1))
	slot1Stale := csp.And(csp.Geq(tail2, 2), csp.Neq(data1, 2))
	return csp.Or(slot0Stale, slot1Stale), nil
}

// violationDeadlock is P_deadlock_sc's check: after the protocol advanced
// (progressRingAdvances), producer and consumer both still observe the
// other's pre-protocol initial value on their final poll.
func violationDeadlock(ctx *axioms.Ctx) (csp.Expr, error) {
	head, err := ctx.ValueEq(ReadHeadFinal, 0)
	if err != nil {
		return nil, err
	}
	tail, err := ctx.ValueEq(ReadTailFinal, 0)
	if err != nil {
		return nil, err
	}
	return csp.And(head, tail), nil
}

func mode(m axioms.Mode) *axioms.Mode { return &m }

// All returns the six named scenarios in spec.md §8 order.
func All() ([]*Scenario, error) {
	var out []*Scenario
	for _, build := range []func() (*Scenario, error){
		p1, p2, p3, p4, p5, pDeadlockSC,
	} {
		s, err := build()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// p1 is the fully sc-tagged trace: every ordering question defaults to the
// strongest axiom set, so no stale read is admissible.
func p1() (*Scenario, error) {
	trace, err := buildTrace(map[int]event.Mode{
		WriteData0: event.SC, WriteTail1: event.SC, WriteData1: event.SC, WriteTail2: event.SC,
		ReadTail1: event.SC, ReadData0: event.SC, WriteHead1: event.SC,
		ReadTail2: event.SC, ReadData1: event.SC, WriteHead0: event.SC,
	})
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        "P1",
		Description: "all-sc ring buffer: correctly synchronized, no stale read admissible",
		Trace:       trace,
		Violation:   violationStaleRead,
		Progress:    progressRingAdvances,
		Expected:    csp.Unsat,
	}, nil
}

// p2 is the all-relaxed trace: nothing orders the producer's data write
// before its own tail write in the eyes of the consumer, so the bug is
// directly exhibited.
func p2() (*Scenario, error) {
	trace, err := buildTrace(nil)
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        "P2",
		Description: "all-relaxed ring buffer: stale read is satisfiable, exhibiting the bug",
		Trace:       trace,
		Violation:   violationStaleRead,
		Progress:    progressRingAdvances,
		Expected:    csp.Sat,
	}, nil
}

// p3 is over-conservative release-acquire: every rel write and acq read is
// tagged, and Analyze's "ra" mode forces happens-before on every same-address
// rel/acq pair regardless of whether rf actually witnesses it. Strictly more
// constrained than P4, so still rules out the bug.
func p3() (*Scenario, error) {
	trace, err := buildTrace(map[int]event.Mode{
		WriteData0: event.Rel, WriteTail1: event.Rel, WriteData1: event.Rel, WriteTail2: event.Rel,
		ReadTail1: event.Acq, ReadData0: event.Acq, ReadTail2: event.Acq, ReadData1: event.Acq,
	})
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        "P3",
		Description: "over-conservative release-acquire: every write rel, every read acq, forced everywhere",
		Trace:       trace,
		Mode:        mode(axioms.ModeRA),
		Violation:   violationStaleRead,
		Progress:    progressRingAdvances,
		Expected:    csp.Unsat,
	}, nil
}

// p4 is the minimal, recommended release-acquire tagging: only the TAIL
// writes are release and only the TAIL reads are acquire; DATA and HEAD stay
// relaxed. Verify's strict, rf-gated release-acquire axiom is already enough
// to rule out the bug, because progress forces rf to actually witness both
// rel/acq pairs.
func p4() (*Scenario, error) {
	trace, err := buildTrace(map[int]event.Mode{
		WriteTail1: event.Rel, WriteTail2: event.Rel,
		ReadTail1: event.Acq, ReadTail2: event.Acq,
	})
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        "P4",
		Description: "minimal release-acquire tagging: only TAIL is rel/acq, already sufficient",
		Trace:       trace,
		Violation:   violationStaleRead,
		Progress:    progressRingAdvances,
		Expected:    csp.Unsat,
	}, nil
}

// p5 is the misused-release-acquire trace: the first TAIL write (slot 0's
// publish) is left relaxed while the second is correctly release-tagged.
// Slot 0's stale read is then satisfiable again, showing that partial
// tagging doesn't help.
func p5() (*Scenario, error) {
	trace, err := buildTrace(map[int]event.Mode{
		WriteTail1: event.Rlx, WriteTail2: event.Rel,
		ReadTail1: event.Acq, ReadTail2: event.Acq,
	})
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        "P5",
		Description: "misused release-acquire: slot 0's publish left relaxed, bug resurfaces",
		Trace:       trace,
		Violation:   violationStaleRead,
		Progress:    progressRingAdvances,
		Expected:    csp.Sat,
	}, nil
}

// pDeadlockSC extends P1's fully-sc trace with a final poll on each side:
// once progress has forced both TAIL writes to actually be observed, the
// producer and consumer cannot simultaneously still see each other's
// pre-protocol HEAD/TAIL values.
func pDeadlockSC() (*Scenario, error) {
	trace, err := buildDeadlockTrace(map[int]event.Mode{
		WriteData0: event.SC, WriteTail1: event.SC, WriteData1: event.SC, WriteTail2: event.SC,
		ReadTail1: event.SC, ReadData0: event.SC, WriteHead1: event.SC,
		ReadTail2: event.SC, ReadData1: event.SC, WriteHead0: event.SC,
	})
	if err != nil {
		return nil, err
	}
	return &Scenario{
		Name:        "P_deadlock_sc",
		Description: "all-sc ring buffer: a completed cycle can't leave both sides seeing the other's stale endpoint",
		Trace:       trace,
		Violation:   violationDeadlock,
		Progress:    progressRingAdvances,
		Expected:    csp.Unsat,
	}, nil
}
