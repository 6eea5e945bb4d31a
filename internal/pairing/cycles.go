package pairing

import "github.com/roach88/santa/internal/ir"

// Cycles splits a draw into its gift cycles.
//
// Following giver to receiver from any participant always returns to that
// participant, since a draw is a permutation. Each cycle starts at its earliest
// giver in draw order; cycles are listed in order of their first giver. A forced
// self-assignment is a cycle of length one. Givers whose chain leaves the draw
// (a malformed draw) end their cycle early.
func Cycles(draw *ir.Draw) [][]ir.ParticipantRef {
	if draw == nil {
		return nil
	}

	next := make(map[string]ir.ParticipantRef, len(draw.Pairings))
	for _, p := range draw.Pairings {
		next[p.Giver.ID] = p.Receiver
	}

	seen := make(map[string]bool, len(draw.Pairings))
	var cycles [][]ir.ParticipantRef
	for _, p := range draw.Pairings {
		if seen[p.Giver.ID] {
			continue
		}

		var cycle []ir.ParticipantRef
		current := p.Giver
		for !seen[current.ID] {
			seen[current.ID] = true
			cycle = append(cycle, current)
			receiver, ok := next[current.ID]
			if !ok {
				break
			}
			current = receiver
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}
