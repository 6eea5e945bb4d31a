package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/testutil"
)

func TestAnalyzeRules_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeRules(nil))
	assert.Empty(t, AnalyzeRules(testutil.NewRoster().Build()))
}

func TestAnalyzeRules_NoRules(t *testing.T) {
	warnings := AnalyzeRules(testutil.NewRoster("A", "B", "C").Build())
	assert.Empty(t, warnings)
}

func TestAnalyzeRules_ChainWithoutCycle(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").Must("A", "B").Must("B", "C").Build()
	assert.Empty(t, AnalyzeRules(set))
}

func TestAnalyzeRules_ClosedCycle(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C", "D").
		Must("A", "B").
		Must("B", "C").
		Must("C", "A").
		Build()

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelInfo, warnings[0].Level)
	assert.Equal(t, []string{"A", "B", "C", "A"}, warnings[0].Path)
	assert.Equal(t, "closed gift cycle: A -> B -> C -> A", warnings[0].Message)
}

func TestAnalyzeRules_CycleStartsAtEarliestMember(t *testing.T) {
	set := testutil.NewRoster("C", "A", "B").
		Must("A", "B").
		Must("B", "C").
		Must("C", "A").
		Build()

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"C", "A", "B", "C"}, warnings[0].Path)
}

func TestAnalyzeRules_TwoCycles(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C", "D").
		Must("A", "B").
		Must("B", "A").
		Must("C", "D").
		Must("D", "C").
		Build()

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 2)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
	assert.Equal(t, []string{"C", "D", "C"}, warnings[1].Path)
}

func TestAnalyzeRules_SelfAssignment(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").Must("A", "A").Build()

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelInfo, warnings[0].Level)
	assert.Equal(t, []string{"A", "A"}, warnings[0].Path)
	assert.Equal(t, "A must give to themselves", warnings[0].Message)
}

func TestAnalyzeRules_SharedMustTarget(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").Must("A", "C").Must("B", "C").Build()

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelWarning, warnings[0].Level)
	assert.Equal(t, []string{"A", "B", "C"}, warnings[0].Path)
	assert.Equal(t, "A, B must all give to C; no draw can satisfy them", warnings[0].Message)
}

func TestAnalyzeRules_ExcludedEveryone(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").MustNot("A", "B").MustNot("A", "C").Build()

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelWarning, warnings[0].Level)
	assert.Equal(t, "A is not allowed to give to anyone", warnings[0].Message)
}

func TestAnalyzeRules_UsesDisplayNames(t *testing.T) {
	set := ir.MustParticipantSet(
		ir.Participant{ID: "1", Name: "Alice", Rules: []ir.Rule{ir.Must("2")}},
		ir.Participant{ID: "2", Name: "Bob", Rules: []ir.Rule{ir.Must("1")}},
	)

	warnings := AnalyzeRules(set)
	require.Len(t, warnings, 1)
	assert.Equal(t, "closed gift cycle: Alice -> Bob -> Alice", warnings[0].Message)
}

func TestAnalyzeRules_IgnoresDanglingTargets(t *testing.T) {
	set := testutil.NewRoster("A", "B").Must("A", "ghost").Build()
	assert.Empty(t, AnalyzeRules(set))
}
