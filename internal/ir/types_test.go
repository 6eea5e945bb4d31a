package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticipantSetKeepsInsertionOrder(t *testing.T) {
	set, err := NewParticipantSet(
		Participant{ID: "c", Name: "Carol"},
		Participant{ID: "a", Name: "Alice"},
		Participant{ID: "b", Name: "Bob"},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"c", "a", "b"}, set.IDs())
	assert.Equal(t, 1, set.IndexOf("a"))
	assert.Equal(t, -1, set.IndexOf("z"))
}

func TestNewParticipantSetRejectsDuplicateID(t *testing.T) {
	_, err := NewParticipantSet(
		Participant{ID: "a", Name: "Alice"},
		Participant{ID: "a", Name: "Other Alice"},
	)
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewParticipantSetRejectsEmptyID(t *testing.T) {
	_, err := NewParticipantSet(Participant{Name: "Nobody"})
	require.ErrorIs(t, err, ErrEmptyID)
}

func TestParticipantSetCopiesRules(t *testing.T) {
	rules := []Rule{MustNot("b")}
	set := MustParticipantSet(
		Participant{ID: "a", Name: "Alice", Rules: rules},
		Participant{ID: "b", Name: "Bob"},
	)

	rules[0] = Must("a")

	p, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, MustNot("b"), p.Rules[0], "set must not observe caller mutation")
}

func TestNilParticipantSet(t *testing.T) {
	var set *ParticipantSet
	assert.Equal(t, 0, set.Len())
	assert.Nil(t, set.IDs())
	assert.False(t, set.Has("a"))
}

func TestRuleTypeValid(t *testing.T) {
	assert.True(t, RuleMust.Valid())
	assert.True(t, RuleMustNot.Valid())
	assert.False(t, RuleType("maybe").Valid())
}

func TestDrawReceiverOf(t *testing.T) {
	draw := &Draw{Pairings: []Pairing{
		{Giver: ParticipantRef{ID: "a", Name: "Alice"}, Receiver: ParticipantRef{ID: "b", Name: "Bob"}},
		{Giver: ParticipantRef{ID: "b", Name: "Bob"}, Receiver: ParticipantRef{ID: "a", Name: "Alice"}},
	}}

	r, ok := draw.ReceiverOf("a")
	require.True(t, ok)
	assert.Equal(t, "b", r.ID)

	_, ok = draw.ReceiverOf("z")
	assert.False(t, ok)
}
