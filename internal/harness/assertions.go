package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/santa/internal/compiler"
	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/pairing"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Draw     *ir.Draw // Offending draw, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Draw != nil {
		fmt.Fprintf(&buf, "\nDraw:\n")
		for _, p := range e.Draw.Pairings {
			fmt.Fprintf(&buf, "  %s -> %s\n", p.Giver.Name, p.Receiver.Name)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks each assertion against the result and returns
// the failure messages, in assertion order.
func EvaluateAssertions(result *Result, set *ir.ParticipantSet, assertions []Assertion) []string {
	ids := idsByName(set)

	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertGivesTo:
			err = assertGivesTo(result, ids, a, true)
		case AssertNeverGivesTo:
			err = assertGivesTo(result, ids, a, false)
		case AssertCycleCount:
			err = assertCycleCount(result, a)
		case AssertMinSuccessRate:
			err = assertMinSuccessRate(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func idsByName(set *ir.ParticipantSet) map[string]string {
	ids := make(map[string]string, set.Len())
	for _, p := range set.Participants() {
		ids[compiler.NameKey(p.Name)] = p.ID
	}
	return ids
}

// assertGivesTo checks that every draw (want=true) or no draw (want=false)
// pairs the giver with the receiver.
func assertGivesTo(result *Result, ids map[string]string, a Assertion, want bool) error {
	giverID, ok := ids[compiler.NameKey(a.Giver)]
	if !ok {
		return fmt.Errorf("unknown giver %q", a.Giver)
	}
	receiverID, ok := ids[compiler.NameKey(a.Receiver)]
	if !ok {
		return fmt.Errorf("unknown receiver %q", a.Receiver)
	}

	for _, draw := range result.Draws {
		got, _ := draw.ReceiverOf(giverID)
		if (got.ID == receiverID) == want {
			continue
		}
		if want {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s gives to %s", a.Giver, a.Receiver),
				Actual:   fmt.Sprintf("%s gives to %s", a.Giver, got.Name),
				Draw:     draw,
			}
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s never gives to %s", a.Giver, a.Receiver),
			Actual:   fmt.Sprintf("%s gives to %s", a.Giver, a.Receiver),
			Draw:     draw,
		}
	}
	return nil
}

// assertCycleCount checks that every draw splits into exactly Count cycles.
func assertCycleCount(result *Result, a Assertion) error {
	for _, draw := range result.Draws {
		if n := len(pairing.Cycles(draw)); n != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d cycles", a.Count),
				Actual:   fmt.Sprintf("%d cycles", n),
				Draw:     draw,
			}
		}
	}
	return nil
}

// assertMinSuccessRate checks the fraction of runs that produced a draw.
func assertMinSuccessRate(result *Result, a Assertion) error {
	if rate := result.SuccessRate(); rate < a.Rate {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("success rate >= %.2f", a.Rate),
			Actual:   fmt.Sprintf("%d of %d runs succeeded (%.2f)", result.Successes, result.Runs, rate),
		}
	}
	return nil
}
