package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to dir/name and returns the path.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_InlineParticipants(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "inline.yaml", `
name: inline
description: "Inline roster"
runs: 3
participants:
  - name: Alice
    must_not: Bob
  - name: Bob
  - name: Carol
assertions:
  - type: never_gives_to
    giver: Alice
    receiver: Bob
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "inline", scenario.Name)
	assert.Equal(t, 3, scenario.Runs)
	require.Len(t, scenario.Participants, 3)
	assert.Equal(t, []string{"Bob"}, []string(scenario.Participants[0].MustNot))
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertNeverGivesTo, scenario.Assertions[0].Type)
}

func TestLoadScenario_RosterResolvedRelativeToScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/family_couples.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "rosters", "family.yaml"), scenario.Roster)

	spec, err := scenario.RosterSpec()
	require.NoError(t, err)
	assert.Equal(t, "Family 2026", spec.Name)
	assert.Len(t, spec.Participants, 6)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `
name: typo
description: "Typo in a field name"
participants:
  - name: Alice
  - name: Bob
assertion:
  - type: cycle_count
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingRosterFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "missing.yaml", `
name: missing
description: "Roster file does not exist"
roster: nowhere.yaml
`)

	_, err := LoadScenario(path)
	require.Error(t, err)

	var notFound *RosterNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Scenario)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
participants: [{name: A}, {name: B}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: x
participants: [{name: A}, {name: B}]
`,
			wantErr: "description is required",
		},
		{
			name: "no roster",
			content: `
name: x
description: "x"
`,
			wantErr: "roster or participants is required",
		},
		{
			name: "negative runs",
			content: `
name: x
description: "x"
runs: -1
participants: [{name: A}, {name: B}]
`,
			wantErr: "runs must be non-negative",
		},
		{
			name: "unknown strategy",
			content: `
name: x
description: "x"
strategy: magic
participants: [{name: A}, {name: B}]
`,
			wantErr: `unknown strategy "magic"`,
		},
		{
			name: "bad expect",
			content: `
name: x
description: "x"
expect: maybe
participants: [{name: A}, {name: B}]
`,
			wantErr: "expect must be",
		},
		{
			name: "expect code without infeasible",
			content: `
name: x
description: "x"
expect_code: UNSATISFIABLE
participants: [{name: A}, {name: B}]
`,
			wantErr: "expect_code requires expect: infeasible",
		},
		{
			name: "gives_to without receiver",
			content: `
name: x
description: "x"
participants: [{name: A}, {name: B}]
assertions:
  - type: gives_to
    giver: A
`,
			wantErr: "giver and receiver are required",
		},
		{
			name: "zero cycle count",
			content: `
name: x
description: "x"
participants: [{name: A}, {name: B}]
assertions:
  - type: cycle_count
`,
			wantErr: "count must be positive",
		},
		{
			name: "rate above one",
			content: `
name: x
description: "x"
participants: [{name: A}, {name: B}]
assertions:
  - type: min_success_rate
    rate: 1.5
`,
			wantErr: "rate must be in (0, 1]",
		},
		{
			name: "unknown assertion",
			content: `
name: x
description: "x"
participants: [{name: A}, {name: B}]
assertions:
  - type: always_happy
`,
			wantErr: `unknown assertion type "always_happy"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "scenario.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "complete_exclusion.yaml"),
		filepath.Join("testdata", "scenarios", "cyclic_must.yaml"),
		filepath.Join("testdata", "scenarios", "family_couples.yaml"),
	}, files)
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios("/nonexistent/scenarios")
	require.Error(t, err)
}
