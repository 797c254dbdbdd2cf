package relation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axverify/event"
	"github.com/sarchlab/axverify/relation"
)

var _ = Describe("PO and PPO", func() {
	w0 := event.Event{ID: -1, Thread: -1, Kind: event.Write, Addr: 0, Val: 0, Mode: event.SC}
	w1 := event.Event{ID: 1, Thread: 1, Kind: event.Write, Addr: 0, Val: 1, Mode: event.Rlx}
	w2 := event.Event{ID: 2, Thread: 1, Kind: event.Write, Addr: 0, Val: 2, Mode: event.Rlx}
	w3 := event.Event{ID: 3, Thread: 1, Kind: event.Write, Addr: 0, Val: 3, Mode: event.SC}
	r1 := event.Event{ID: 4, Thread: 2, Kind: event.Read, Addr: 0, Val: 1, Mode: event.Rlx}

	It("never relates an initial write by program order", func() {
		Expect(relation.PO(w0, w1)).To(BeFalse())
	})

	It("relates same-thread events in id order", func() {
		Expect(relation.PO(w1, w2)).To(BeTrue())
		Expect(relation.PO(w2, w1)).To(BeFalse())
	})

	It("never relates cross-thread events by program order", func() {
		Expect(relation.PO(w1, r1)).To(BeFalse())
	})

	Describe("PPOSC", func() {
		It("equals program order", func() {
			Expect(relation.PPOSC(w1, w2)).To(Equal(relation.PO(w1, w2)))
			Expect(relation.PPOSC(w2, w3)).To(Equal(relation.PO(w2, w3)))
		})
	})

	Describe("PPORelaxed", func() {
		It("drops same-thread pairs where neither endpoint is sc", func() {
			Expect(relation.PO(w1, w2)).To(BeTrue())
			Expect(relation.PPORelaxed(w1, w2)).To(BeFalse())
		})

		It("keeps a pair when at least one endpoint is sc", func() {
			Expect(relation.PPORelaxed(w2, w3)).To(BeTrue())
		})
	})
})

var _ = Describe("FR", func() {
	w0 := event.Event{ID: -1, Thread: -1, Kind: event.Write, Addr: 0, Val: 0, Mode: event.SC}
	w1 := event.Event{ID: 1, Thread: 1, Kind: event.Write, Addr: 0, Val: 1, Mode: event.SC}
	r := event.Event{ID: 2, Thread: 2, Kind: event.Read, Addr: 0, Val: 0, Mode: event.SC}

	rf := func(x event.Event) (event.Event, bool) {
		if x.ID == r.ID {
			return w0, true
		}
		return event.Event{}, false
	}
	co := func(a, b event.Event) bool {
		return a.ID == w0.ID && b.ID == w1.ID
	}

	It("derives fr from rf composed with co", func() {
		Expect(relation.FR(rf, co, r, w1)).To(BeTrue())
		Expect(relation.FR(rf, co, r, w0)).To(BeFalse())
	})
})

var _ = Describe("well-formedness checks", func() {
	w0 := event.Event{ID: -1, Thread: -1, Kind: event.Write, Addr: 0, Val: 0, Mode: event.SC}
	w1 := event.Event{ID: 1, Thread: 1, Kind: event.Write, Addr: 0, Val: 1, Mode: event.SC}
	r := event.Event{ID: 2, Thread: 2, Kind: event.Read, Addr: 0, Val: 1, Mode: event.SC}

	tr, err := event.BuildTrace([]event.Event{w0, w1, r})
	if err != nil {
		panic(err)
	}

	It("accepts a well-formed rf edge", func() {
		rf := func(x event.Event) (event.Event, bool) { return w1, true }
		ok, _ := relation.WellFormedRF(tr, rf)
		Expect(ok).To(BeTrue())
	})

	It("rejects a value-mismatched rf edge", func() {
		rf := func(x event.Event) (event.Event, bool) { return w0, true }
		ok, _ := relation.WellFormedRF(tr, rf)
		Expect(ok).To(BeFalse())
	})

	It("requires the initial write to be co-before every non-initial write", func() {
		co := func(a, b event.Event) bool { return a.ID == w0.ID && b.ID == w1.ID }
		ok, _ := relation.WellFormedCO(tr, co)
		Expect(ok).To(BeTrue())
	})

	It("rejects co missing the init-minimality edge", func() {
		co := func(a, b event.Event) bool { return false }
		ok, _ := relation.WellFormedCO(tr, co)
		Expect(ok).To(BeFalse())
	})
})
