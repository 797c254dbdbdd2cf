// Command verify runs the built-in ring-buffer scenarios (spec.md §6.2):
// with no arguments it runs all of them; given a scenario name it runs just
// that one. Each line is `<id>: verified` (Unsat — no admissible violation),
// `<id>: counterexample` (Sat — the witness follows) or `<id>: inconclusive`
// (Unknown — the solver's reason follows). Exit code is 0 iff
// every scenario's outcome matched its documented Expected outcome, 1 if any
// scenario mismatched, 2 if any scenario came back Unknown.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/axverify/csp"
	"github.com/sarchlab/axverify/scenario"
	"github.com/sarchlab/axverify/verify"
)

func main() {
	defer atexit.Exit(0)

	all, err := scenario.All()
	if err != nil {
		log.Fatalf("failed to build scenarios: %v", err)
	}

	var selected []*scenario.Scenario
	if len(os.Args) > 1 {
		name := os.Args[1]
		for _, s := range all {
			if s.Name == name {
				selected = append(selected, s)
				break
			}
		}
		if len(selected) == 0 {
			log.Fatalf("unknown scenario %q", name)
		}
	} else {
		selected = all
	}

	fmt.Println("==============================================================================")
	fmt.Println("RING BUFFER MEMORY MODEL VERIFICATION")
	fmt.Println("==============================================================================")

	mismatches := 0
	inconclusive := 0
	for _, s := range selected {
		res, matched, err := s.Run(context.Background())
		if err != nil {
			log.Fatalf("%s: %v", s.Name, err)
		}

		var status string
		switch {
		case res.Outcome == csp.Unknown:
			status = "inconclusive"
			inconclusive++
		case res.Outcome == csp.Unsat:
			status = "verified"
		default:
			status = "counterexample"
		}
		if !matched && res.Outcome != csp.Unknown {
			mismatches++
		}

		fmt.Printf("\n%s: %s\n", s.Name, status)
		fmt.Println(s.Description)
		fmt.Println(verify.RenderOutcome(res))
	}

	fmt.Println("\n==============================================================================")
	fmt.Printf("SUMMARY: %d scenario(s), %d mismatch(es), %d inconclusive\n",
		len(selected), mismatches, inconclusive)
	fmt.Println("==============================================================================")

	switch {
	case inconclusive > 0:
		atexit.Exit(2)
	case mismatches > 0:
		atexit.Exit(1)
	}
}
