package ir

import (
	"errors"
	"fmt"
)

// RuleType distinguishes forced and forbidden pairings.
type RuleType string

const (
	// RuleMust forces the owning giver to give to the target.
	RuleMust RuleType = "must"

	// RuleMustNot forbids the owning giver from giving to the target.
	RuleMustNot RuleType = "must_not"
)

// Valid reports whether t is a known rule type.
func (t RuleType) Valid() bool {
	return t == RuleMust || t == RuleMustNot
}

// Rule constrains which receivers the owning participant may be assigned.
type Rule struct {
	Type   RuleType `json:"type"`
	Target string   `json:"target"` // participant id
}

// Must returns a MUST rule targeting id.
func Must(id string) Rule {
	return Rule{Type: RuleMust, Target: id}
}

// MustNot returns a MUST_NOT rule targeting id.
func MustNot(id string) Rule {
	return Rule{Type: RuleMustNot, Target: id}
}

// Participant is one person in the draw.
// Name is for display only; uniqueness is enforced by the roster compiler.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Hint  string `json:"hint,omitempty"`
	Rules []Rule `json:"rules"`
}

// Ref returns the id/name pair used in pairings.
func (p Participant) Ref() ParticipantRef {
	return ParticipantRef{ID: p.ID, Name: p.Name}
}

// Errors returned by NewParticipantSet.
var (
	ErrEmptyID     = errors.New("participant id is empty")
	ErrDuplicateID = errors.New("duplicate participant id")
)

// ParticipantSet maps participant ids to participants.
// Iteration order is insertion order. A set is never modified after
// construction, so it can be shared between goroutines.
type ParticipantSet struct {
	order []string
	byID  map[string]Participant
}

// NewParticipantSet builds a set from participants in the given order.
// Rule slices are copied so later changes by the caller are not observed.
func NewParticipantSet(participants ...Participant) (*ParticipantSet, error) {
	s := &ParticipantSet{
		order: make([]string, 0, len(participants)),
		byID:  make(map[string]Participant, len(participants)),
	}
	for _, p := range participants {
		if p.ID == "" {
			return nil, fmt.Errorf("participant %q: %w", p.Name, ErrEmptyID)
		}
		if _, exists := s.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		p.Rules = append([]Rule(nil), p.Rules...)
		s.order = append(s.order, p.ID)
		s.byID[p.ID] = p
	}
	return s, nil
}

// MustParticipantSet is like NewParticipantSet but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParticipantSet(participants ...Participant) *ParticipantSet {
	s, err := NewParticipantSet(participants...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of participants. A nil set is empty.
func (s *ParticipantSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns participant ids in insertion order.
func (s *ParticipantSet) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Get returns the participant with the given id.
func (s *ParticipantSet) Get(id string) (Participant, bool) {
	if s == nil {
		return Participant{}, false
	}
	p, ok := s.byID[id]
	return p, ok
}

// Has reports whether id is in the set.
func (s *ParticipantSet) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Participants returns all participants in insertion order.
func (s *ParticipantSet) Participants() []Participant {
	if s == nil {
		return nil
	}
	out := make([]Participant, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// IndexOf returns the position of id in insertion order, or -1.
func (s *ParticipantSet) IndexOf(id string) int {
	if s == nil {
		return -1
	}
	for i, other := range s.order {
		if other == id {
			return i
		}
	}
	return -1
}

// ParticipantRef identifies a participant in a pairing.
// Consumers resolve current display names from ID; Name is the name at
// generation time.
type ParticipantRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Pairing is one giver to receiver assignment.
type Pairing struct {
	Giver    ParticipantRef `json:"giver"`
	Receiver ParticipantRef `json:"receiver"`
}

// Draw is a complete generated assignment.
// Pairings are ordered by giver in the set's natural order.
type Draw struct {
	Fingerprint string    `json:"fingerprint"`
	Pairings    []Pairing `json:"pairings"`
}

// ReceiverOf returns the receiver assigned to giverID.
func (d *Draw) ReceiverOf(giverID string) (ParticipantRef, bool) {
	if d == nil {
		return ParticipantRef{}, false
	}
	for _, p := range d.Pairings {
		if p.Giver.ID == giverID {
			return p.Receiver, true
		}
	}
	return ParticipantRef{}, false
}
