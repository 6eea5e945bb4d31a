// Package testutil provides helpers for building participant sets in tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/roach88/santa/internal/ir"
)

// RosterBuilder assembles a participant set where each participant's id is
// its name. Rules are attached by name.
type RosterBuilder struct {
	order []string
	rules map[string][]ir.Rule
	hints map[string]string
}

// NewRoster starts a roster with the given names, in order.
func NewRoster(names ...string) *RosterBuilder {
	b := &RosterBuilder{
		rules: make(map[string][]ir.Rule),
		hints: make(map[string]string),
	}
	b.order = append(b.order, names...)
	return b
}

// Must adds a MUST rule from giver to target.
func (b *RosterBuilder) Must(giver, target string) *RosterBuilder {
	b.rules[giver] = append(b.rules[giver], ir.Must(target))
	return b
}

// MustNot adds a MUST_NOT rule from giver to target.
func (b *RosterBuilder) MustNot(giver, target string) *RosterBuilder {
	b.rules[giver] = append(b.rules[giver], ir.MustNot(target))
	return b
}

// Hint sets a participant's hint.
func (b *RosterBuilder) Hint(name, hint string) *RosterBuilder {
	b.hints[name] = hint
	return b
}

// Clique forbids every member from giving to any other member.
func (b *RosterBuilder) Clique(names ...string) *RosterBuilder {
	for _, giver := range names {
		for _, target := range names {
			if giver != target {
				b.MustNot(giver, target)
			}
		}
	}
	return b
}

// Build returns the participant set. Panics on duplicate names.
func (b *RosterBuilder) Build() *ir.ParticipantSet {
	participants := make([]ir.Participant, len(b.order))
	for i, name := range b.order {
		participants[i] = ir.Participant{
			ID:    name,
			Name:  name,
			Hint:  b.hints[name],
			Rules: b.rules[name],
		}
	}
	return ir.MustParticipantSet(participants...)
}

// Names returns n names "P01", "P02", ...
func Names(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("P%02d", i+1)
	}
	return names
}

// SeededRand returns a deterministic random source for tests.
func SeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
