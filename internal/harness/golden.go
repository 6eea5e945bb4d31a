package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/santa/internal/ir"
)

// DrawSnapshot captures the first draw of a scenario for golden comparison.
// Pairings are recorded by display name so golden files stay readable.
type DrawSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Fingerprint  string       `json:"fingerprint,omitempty"`
	Pairings     []ir.Pairing `json:"pairings"`
	Runs         int          `json:"runs"`
	Successes    int          `json:"successes"`
}

// NewDrawSnapshot builds a snapshot from a scenario result.
func NewDrawSnapshot(name string, result *Result) DrawSnapshot {
	snapshot := DrawSnapshot{
		ScenarioName: name,
		Runs:         result.Runs,
		Successes:    result.Successes,
	}
	if draw := result.firstDraw(); draw != nil {
		snapshot.Fingerprint = draw.Fingerprint
		snapshot.Pairings = draw.Pairings
	}
	return snapshot
}

// toCanonicalMap converts the snapshot to plain values for ir.MarshalCanonical.
func (s *DrawSnapshot) toCanonicalMap() map[string]any {
	pairings := make([]any, len(s.Pairings))
	for i, p := range s.Pairings {
		pairings[i] = map[string]any{
			"giver":    p.Giver.Name,
			"receiver": p.Receiver.Name,
		}
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"pairings":      pairings,
		"runs":          s.Runs,
		"successes":     s.Successes,
	}
	if s.Fingerprint != "" {
		result["fingerprint"] = s.Fingerprint
	}
	return result
}

// Canonical returns the snapshot as canonical JSON, the golden file format.
func (s *DrawSnapshot) Canonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its first draw against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Only scenarios whose draws are fully determined by their rules or seed make
// stable golden files.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := NewDrawSnapshot(scenarioName, result)
	data, err := snapshot.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
