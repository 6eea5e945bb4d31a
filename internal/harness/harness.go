package harness

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/santa/internal/compiler"
	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/pairing"
)

// Harness runs scenarios.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness that logs to logger. A nil logger discards output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load, validate and compile the roster
//  2. Draw Runs times, run i seeded with Seed+i
//  3. Verify every successful draw against the roster rules
//  4. Check the feasible/infeasible expectation
//  5. Evaluate assertions over the successful draws
//
// An error is returned only when the scenario cannot run at all, for example
// when its roster does not compile. Failed expectations are reported in the
// result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	spec, err := scenario.RosterSpec()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	set, err := compiler.Compile(spec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	strategy, err := pairing.ParseStrategy(scenario.Strategy)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	runs := scenario.Runs
	if runs == 0 {
		runs = 1
	}
	seed := scenario.Seed
	if seed == 0 {
		seed = 1
	}

	result := NewResult()
	for i := 0; i < runs; i++ {
		gen := pairing.New(&pairing.Options{
			Seed:        seed + int64(i),
			MaxAttempts: scenario.MaxAttempts,
			Strategy:    strategy,
			Logger:      h.logger,
		})

		result.Runs++
		draw, err := gen.Generate(set)
		if err != nil {
			result.Failures[string(pairing.CodeOf(err))]++
			h.logger.Debug("run failed", "scenario", scenario.Name, "run", i, "code", pairing.CodeOf(err))
			continue
		}

		if err := pairing.Verify(set, draw); err != nil {
			result.AddError(fmt.Sprintf("run %d produced an invalid draw: %v", i, err))
			continue
		}
		result.Successes++
		result.Draws = append(result.Draws, draw)
	}

	h.checkExpectation(scenario, result)

	for _, msg := range EvaluateAssertions(result, set, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario complete",
		"scenario", scenario.Name,
		"runs", result.Runs,
		"successes", result.Successes,
		"pass", result.Pass,
	)
	return result, nil
}

// checkExpectation applies the scenario's expect and expect_code fields.
// A feasible scenario with a min_success_rate assertion tolerates failed runs;
// otherwise every run must succeed.
func (h *Harness) checkExpectation(scenario *Scenario, result *Result) {
	switch scenario.Expect {
	case ExpectInfeasible:
		if result.Successes > 0 {
			result.AddError(fmt.Sprintf("expected every run to fail, %d of %d produced a draw", result.Successes, result.Runs))
		}
		if scenario.ExpectCode != "" {
			codes := make([]string, 0, len(result.Failures))
			for code := range result.Failures {
				codes = append(codes, code)
			}
			sort.Strings(codes)
			for _, code := range codes {
				if code != scenario.ExpectCode {
					result.AddError(fmt.Sprintf("expected failures with code %s, got %d with %s", scenario.ExpectCode, result.Failures[code], code))
				}
			}
		}
	default:
		if hasAssertion(scenario.Assertions, AssertMinSuccessRate) {
			return
		}
		if failed := result.Runs - result.Successes; failed > 0 && len(result.Failures) > 0 {
			result.AddError(fmt.Sprintf("expected every run to produce a draw, %d of %d failed %v", failed, result.Runs, result.Failures))
		}
	}
}

func hasAssertion(assertions []Assertion, typ string) bool {
	for _, a := range assertions {
		if a.Type == typ {
			return true
		}
	}
	return false
}

// firstDraw returns the first successful draw, or nil.
func (r *Result) firstDraw() *ir.Draw {
	if len(r.Draws) == 0 {
		return nil
	}
	return r.Draws[0]
}
