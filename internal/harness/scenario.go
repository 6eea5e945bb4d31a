package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/santa/internal/compiler"
	"github.com/roach88/santa/internal/pairing"
)

// Scenario defines a pairing check.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Roster is a path to a roster file (.yaml, .yml or .cue).
	// Relative paths are resolved from the scenario file's directory.
	Roster string `yaml:"roster,omitempty"`

	// Participants is an inline roster, used when Roster is empty.
	Participants []compiler.ParticipantSpec `yaml:"participants,omitempty"`

	// Runs is the number of draws to attempt (default 1).
	Runs int `yaml:"runs,omitempty"`

	// Seed is the seed of the first run; run i uses Seed+i (default 1).
	Seed int64 `yaml:"seed,omitempty"`

	// Strategy is the generator strategy (default retry).
	Strategy string `yaml:"strategy,omitempty"`

	// MaxAttempts bounds the retry strategy (default pairing.DefaultMaxAttempts).
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// Expect is "feasible" (default) or "infeasible".
	Expect string `yaml:"expect,omitempty"`

	// ExpectCode is the generation error code infeasible runs must report.
	ExpectCode string `yaml:"expect_code,omitempty"`

	// Assertions are evaluated over the successful draws.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion checks the draws of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Giver and Receiver are display names (gives_to, never_gives_to).
	Giver    string `yaml:"giver,omitempty"`
	Receiver string `yaml:"receiver,omitempty"`

	// Count is the expected number of cycles (cycle_count).
	Count int `yaml:"count,omitempty"`

	// Rate is the minimum fraction of successful runs (min_success_rate).
	Rate float64 `yaml:"rate,omitempty"`
}

// Assertion type constants.
const (
	AssertGivesTo        = "gives_to"
	AssertNeverGivesTo   = "never_gives_to"
	AssertCycleCount     = "cycle_count"
	AssertMinSuccessRate = "min_success_rate"
)

// Expectation values.
const (
	ExpectFeasible   = "feasible"
	ExpectInfeasible = "infeasible"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative roster path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Roster != "" && !filepath.IsAbs(scenario.Roster) {
		scenario.Roster = filepath.Join(filepath.Dir(path), scenario.Roster)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// RosterSpec returns the scenario's roster, reading the roster file if one
// is named.
func (s *Scenario) RosterSpec() (*compiler.RosterSpec, error) {
	if s.Roster != "" {
		return compiler.LoadFile(s.Roster)
	}
	return &compiler.RosterSpec{Name: s.Name, Participants: s.Participants}, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Roster == "" && len(s.Participants) == 0 {
		return fmt.Errorf("roster or participants is required")
	}
	if s.Roster != "" && len(s.Participants) > 0 {
		return fmt.Errorf("roster and participants are mutually exclusive")
	}

	if s.Roster != "" {
		if _, err := os.Stat(s.Roster); os.IsNotExist(err) {
			return &RosterNotFoundError{Scenario: s.Name, Path: s.Roster}
		}
	}

	if s.Runs < 0 {
		return fmt.Errorf("runs must be non-negative")
	}

	if _, err := pairing.ParseStrategy(s.Strategy); err != nil {
		return err
	}

	switch s.Expect {
	case "", ExpectFeasible, ExpectInfeasible:
	default:
		return fmt.Errorf("expect must be %q or %q, got %q", ExpectFeasible, ExpectInfeasible, s.Expect)
	}

	if s.ExpectCode != "" && s.Expect != ExpectInfeasible {
		return fmt.Errorf("expect_code requires expect: %s", ExpectInfeasible)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertGivesTo, AssertNeverGivesTo:
		if a.Giver == "" || a.Receiver == "" {
			return fmt.Errorf("assertions[%d]: giver and receiver are required for %s", index, a.Type)
		}
	case AssertCycleCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for cycle_count", index)
		}
	case AssertMinSuccessRate:
		if a.Rate <= 0 || a.Rate > 1 {
			return fmt.Errorf("assertions[%d]: rate must be in (0, 1] for min_success_rate", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// RosterNotFoundError is returned when a scenario names a roster file that
// doesn't exist.
type RosterNotFoundError struct {
	Scenario string
	Path     string
}

// Error implements the error interface.
func (e *RosterNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q references roster file %q which does not exist", e.Scenario, e.Path)
}

// FindScenarios returns the .yaml and .yml files under dir, in lexical order.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	return files, nil
}
