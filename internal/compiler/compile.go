package compiler

import (
	"github.com/google/uuid"

	"github.com/roach88/santa/internal/ir"
)

// participantNamespace seeds derived participant ids.
var participantNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/roach88/santa/participant"))

// ParticipantID returns the id Compile derives for a participant without an
// explicit id: a UUIDv5 of the normalized name. Renaming someone changes
// their derived id, so rosters that expect renames should set ids.
func ParticipantID(name string) string {
	return uuid.NewSHA1(participantNamespace, []byte(NameKey(name))).String()
}

// Compile validates a roster and converts it to a participant set.
// Names in rules are resolved to ids. Participant order is roster order.
func Compile(spec *RosterSpec) (*ir.ParticipantSet, error) {
	if errs := Validate(spec); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	idByName := make(map[string]string, len(spec.Participants))
	for _, p := range spec.Participants {
		idByName[NameKey(p.Name)] = participantIDOf(p)
	}

	participants := make([]ir.Participant, 0, len(spec.Participants))
	for _, p := range spec.Participants {
		var rules []ir.Rule
		for _, name := range p.Must {
			rules = append(rules, ir.Must(idByName[NameKey(name)]))
		}
		for _, name := range p.MustNot {
			rules = append(rules, ir.MustNot(idByName[NameKey(name)]))
		}

		participants = append(participants, ir.Participant{
			ID:    participantIDOf(p),
			Name:  NameKey(p.Name),
			Hint:  p.Hint,
			Rules: rules,
		})
	}

	return ir.NewParticipantSet(participants...)
}

func participantIDOf(p ParticipantSpec) string {
	if p.ID != "" {
		return p.ID
	}
	return ParticipantID(p.Name)
}
