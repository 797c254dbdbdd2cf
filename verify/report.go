package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/axverify/axioms"
	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/event"
)

// WitnessRow is one rendered event: its resolved rank, value (for reads),
// and rf source (for reads). Spec.md §4.6.
type WitnessRow struct {
	Event    event.Event
	Rank     int
	Value    int
	RFSource int
	HasRF    bool
}

// Witness is a satisfying assignment rendered as an ordered execution:
// rows sorted by (rank, id) ascending, per spec.md §4.6.
type Witness struct {
	Rows []WitnessRow
}

func renderWitness(enc *axioms.Encoder, a csp.Assignment) (*Witness, error) {
	events := enc.Trace.Events()
	rows := make([]WitnessRow, 0, len(events))

	for _, e := range events {
		rank, ok := enc.RankOf(e.ID, a)
		if !ok {
			return nil, fmt.Errorf("render: event %d has no rank in assignment", e.ID)
		}
		row := WitnessRow{Event: e, Rank: rank, Value: e.Val}

		if e.Kind == event.Read {
			val, _ := enc.ResolvedValue(e.ID, a)
			row.Value = val
			if src, ok := enc.RFSource(e.ID, a); ok {
				row.RFSource = src
				row.HasRF = true
			}
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Rank != rows[j].Rank {
			return rows[i].Rank < rows[j].Rank
		}
		return rows[i].Event.ID < rows[j].Event.ID
	})

	return &Witness{Rows: rows}, nil
}

// Render renders a witness as a table (spec.md §6 operation 3), using
// go-pretty/table the way the teacher renders PE state in
// core/util.go's PrintState, rather than hand-aligned Fprintf columns.
func Render(w *Witness) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"rank", "id", "thread", "kind", "addr", "val", "mode", "rf"})

	for _, row := range w.Rows {
		rf := "-"
		if row.HasRF {
			rf = fmt.Sprintf("e%d", row.RFSource)
		}
		t.AppendRow(table.Row{
			row.Rank, row.Event.ID, row.Event.Thread, row.Event.Kind,
			row.Event.Addr, row.Value, row.Event.Mode, rf,
		})
	}

	return t.Render()
}

// RenderOutcome renders a Result for CLI/log consumption: the witness
// table for Sat, a concise message for Unsat, and the solver's reason for
// Unknown (spec.md §7's user-visible failure semantics).
func RenderOutcome(r Result) string {
	switch r.Outcome {
	case csp.Sat:
		return Render(r.Witness)
	case csp.Unsat:
		return "no admissible execution"
	default:
		return "solver gave up: " + strings.TrimSpace(r.Reason)
	}
}
