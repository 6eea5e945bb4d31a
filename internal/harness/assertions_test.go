package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/testutil"
)

// rotation returns a result holding one draw in which each participant gives
// to the next one in roster order.
func rotation(set *ir.ParticipantSet) *Result {
	participants := set.Participants()
	pairings := make([]ir.Pairing, len(participants))
	for i, p := range participants {
		pairings[i] = ir.Pairing{
			Giver:    p.Ref(),
			Receiver: participants[(i+1)%len(participants)].Ref(),
		}
	}

	result := NewResult()
	result.Runs = 1
	result.Successes = 1
	result.Draws = append(result.Draws, &ir.Draw{Fingerprint: ir.Fingerprint(set), Pairings: pairings})
	return result
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	set := testutil.NewRoster("Alice", "Bob", "Carol").Build()
	result := rotation(set)

	errs := EvaluateAssertions(result, set, []Assertion{
		{Type: AssertGivesTo, Giver: "Alice", Receiver: "Bob"},
		{Type: AssertNeverGivesTo, Giver: "Bob", Receiver: "Alice"},
		{Type: AssertCycleCount, Count: 1},
		{Type: AssertMinSuccessRate, Rate: 1},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_NamesAreNormalized(t *testing.T) {
	set := testutil.NewRoster("Alice", "Bob", "Carol").Build()

	errs := EvaluateAssertions(rotation(set), set, []Assertion{
		{Type: AssertGivesTo, Giver: "  Alice ", Receiver: "Bob"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	set := testutil.NewRoster("Alice", "Bob", "Carol").Build()

	tests := []struct {
		name      string
		assertion Assertion
		want      []string
	}{
		{
			name:      "gives_to",
			assertion: Assertion{Type: AssertGivesTo, Giver: "Alice", Receiver: "Carol"},
			want:      []string{"Expected: Alice gives to Carol", "Actual: Alice gives to Bob", "Alice -> Bob"},
		},
		{
			name:      "never_gives_to",
			assertion: Assertion{Type: AssertNeverGivesTo, Giver: "Carol", Receiver: "Alice"},
			want:      []string{"Expected: Carol never gives to Alice", "Actual: Carol gives to Alice"},
		},
		{
			name:      "cycle_count",
			assertion: Assertion{Type: AssertCycleCount, Count: 3},
			want:      []string{"Expected: 3 cycles", "Actual: 1 cycles"},
		},
		{
			name:      "unknown giver",
			assertion: Assertion{Type: AssertGivesTo, Giver: "Zed", Receiver: "Bob"},
			want:      []string{`unknown giver "Zed"`},
		},
		{
			name:      "unknown receiver",
			assertion: Assertion{Type: AssertNeverGivesTo, Giver: "Alice", Receiver: "Zed"},
			want:      []string{`unknown receiver "Zed"`},
		},
		{
			name:      "unknown type",
			assertion: Assertion{Type: "trace_contains"},
			want:      []string{`unknown assertion type "trace_contains"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(rotation(set), set, []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], "assertions[0]")
			for _, want := range tt.want {
				assert.Contains(t, errs[0], want)
			}
		})
	}
}

func TestEvaluateAssertions_MinSuccessRate(t *testing.T) {
	set := testutil.NewRoster("Alice", "Bob").Build()
	result := rotation(set)
	result.Runs = 4

	errs := EvaluateAssertions(result, set, []Assertion{{Type: AssertMinSuccessRate, Rate: 0.5}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "1 of 4 runs succeeded (0.25)")

	errs = EvaluateAssertions(result, set, []Assertion{{Type: AssertMinSuccessRate, Rate: 0.25}})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_VacuousWithoutDraws(t *testing.T) {
	set := testutil.NewRoster("Alice", "Bob").Build()
	result := NewResult()
	result.Runs = 3

	errs := EvaluateAssertions(result, set, []Assertion{
		{Type: AssertGivesTo, Giver: "Alice", Receiver: "Alice"},
		{Type: AssertCycleCount, Count: 7},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_ReportsInOrder(t *testing.T) {
	set := testutil.NewRoster("Alice", "Bob", "Carol").Build()

	errs := EvaluateAssertions(rotation(set), set, []Assertion{
		{Type: AssertGivesTo, Giver: "Alice", Receiver: "Bob"},
		{Type: AssertCycleCount, Count: 2},
		{Type: AssertGivesTo, Giver: "Bob", Receiver: "Alice"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertions[1]")
	assert.Contains(t, errs[1], "assertions[2]")
}
