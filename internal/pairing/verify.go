package pairing

import (
	"fmt"

	"github.com/roach88/santa/internal/ir"
)

// Verify checks a draw against the set it was drawn from.
//
// It reports the first violation of:
//   - every participant gives exactly once and receives exactly once
//   - every id in the draw belongs to the set
//   - MUST rules are honored
//   - MUST_NOT rules are honored
//   - nobody gives to themselves without a MUST rule forcing it
func Verify(set *ir.ParticipantSet, draw *ir.Draw) error {
	if draw == nil {
		return fmt.Errorf("draw is nil")
	}
	if len(draw.Pairings) != set.Len() {
		return fmt.Errorf("draw has %d pairings, set has %d participants", len(draw.Pairings), set.Len())
	}

	gives := make(map[string]bool, set.Len())
	receives := make(map[string]bool, set.Len())
	for _, p := range draw.Pairings {
		giver, ok := set.Get(p.Giver.ID)
		if !ok {
			return fmt.Errorf("unknown giver %q", p.Giver.ID)
		}
		if !set.Has(p.Receiver.ID) {
			return fmt.Errorf("unknown receiver %q", p.Receiver.ID)
		}
		if gives[p.Giver.ID] {
			return fmt.Errorf("%q gives more than once", p.Giver.ID)
		}
		if receives[p.Receiver.ID] {
			return fmt.Errorf("%q receives more than once", p.Receiver.ID)
		}
		gives[p.Giver.ID] = true
		receives[p.Receiver.ID] = true

		forced, hasMust := mustTarget(giver.Rules)
		if hasMust && forced != p.Receiver.ID {
			return fmt.Errorf("%q must give to %q, gives to %q", p.Giver.ID, forced, p.Receiver.ID)
		}
		for _, r := range giver.Rules {
			if r.Type == ir.RuleMustNot && r.Target == p.Receiver.ID {
				return fmt.Errorf("%q must not give to %q", p.Giver.ID, p.Receiver.ID)
			}
		}
		if p.Giver.ID == p.Receiver.ID && !hasMust {
			return fmt.Errorf("%q gives to themselves", p.Giver.ID)
		}
	}
	return nil
}
