package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "family.yaml", familyRoster)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Roster Family valid (4 participants)")
	assert.Contains(t, out, "✓ A draw exists")
}

func TestValidateCommand_ReportsCycle(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cycle.yaml", cycleRoster)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)

	assert.Contains(t, out, "info: closed gift cycle: Alice -> Bob -> Carol -> Alice")
	assert.Contains(t, out, "✓ A draw exists")
}

func TestValidateCommand_Infeasible(t *testing.T) {
	path := writeFile(t, t.TempDir(), "shared.yaml", `
participants:
  - name: Alice
    must: Carol
  - name: Bob
    must: Carol
  - name: Carol
`)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Roster shared valid (3 participants)")
	assert.Contains(t, out, "warning: Alice, Bob must all give to Carol")
	assert.Contains(t, out, "✗ No draw satisfies these rules")
}

func TestValidateCommand_SingleParticipant(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solo.yaml", `
participants:
  - name: Alice
`)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "at least two participants are required")
}

func TestValidateCommand_ValidationErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.yaml", `
participants:
  - name: Alice
    must: [Bob, Carol]
  - name: Bob
    must_not: Zed
  - name: Carol
  - name: Alice
`)

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 3 error(s)")

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E102")
	assert.Contains(t, out, "E103")
	assert.Contains(t, out, "E104")
}

func TestValidateCommand_ValidationErrorsJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.yaml", `
participants:
  - name: Alice
    must: Bob
    must_not: Bob
  - name: Bob
`)

	out, _, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  CLIError         `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, "E105", resp.Data.Errors[0].Code)
	assert.Equal(t, "E105", resp.Error.Code)
}

func TestValidateCommand_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cycle.yaml", cycleRoster)

	out, _, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.True(t, resp.Data.Feasible)
	assert.Equal(t, "Cycle", resp.Data.Roster)
	assert.Equal(t, 3, resp.Data.Participants)
	require.Len(t, resp.Data.Warnings, 1)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Alice"}, resp.Data.Warnings[0].Path)
}

func TestValidateCommand_CUE(t *testing.T) {
	path := writeFile(t, t.TempDir(), "family.cue", `
roster: {
	name: "Family"
	participants: [
		{name: "Alice", must_not: "Bob"},
		{name: "Bob", must_not: ["Alice"]},
		{name: "Carol"},
	]
}
`)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Roster Family valid (3 participants)")
}

func TestValidateCommand_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", dir + "/missing.yaml", ErrCodeNotFound},
		{"unsupported", writeFile(t, dir, "roster.txt", "Alice"), ErrCodeUnsupported},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "participants: [\n"), ErrCodeParseFailed},
		{"unknown field", writeFile(t, dir, "typo.yaml", "participant:\n  - name: A\n"), ErrCodeParseFailed},
		{"bad cue", writeFile(t, dir, "bad.cue", "roster: {\n"), ErrCodeParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "validate", tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}
