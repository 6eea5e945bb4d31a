package pairing

import "github.com/roach88/santa/internal/ir"

// candidates holds, for every giver index, the receiver indexes it may be
// assigned. Indexes follow the set's natural order.
type candidates [][]int

// buildCandidates computes the per-giver receiver lists.
// By default a giver may receive anyone but themselves. A MUST rule collapses
// the list to its target, which is the only way to self-assign. MUST_NOT
// targets are removed. Rules must already be validated and resolvable.
func buildCandidates(set *ir.ParticipantSet) candidates {
	ids := set.IDs()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	cands := make(candidates, len(ids))
	for g, p := range set.Participants() {
		if forced, ok := mustTarget(p.Rules); ok {
			cands[g] = []int{index[forced]}
			continue
		}

		excluded := make(map[int]bool, len(p.Rules)+1)
		excluded[g] = true
		for _, r := range p.Rules {
			if r.Type == ir.RuleMustNot {
				excluded[index[r.Target]] = true
			}
		}

		list := make([]int, 0, len(ids)-len(excluded)+1)
		for r := range ids {
			if !excluded[r] {
				list = append(list, r)
			}
		}
		cands[g] = list
	}
	return cands
}

// clone returns a deep copy so an attempt can consume it.
func (c candidates) clone() candidates {
	out := make(candidates, len(c))
	for i, list := range c {
		out[i] = append([]int(nil), list...)
	}
	return out
}

// remove deletes receiver r from giver g's list, keeping order.
func (c candidates) remove(g, r int) {
	list := c[g]
	for i, v := range list {
		if v == r {
			c[g] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func mustTarget(rules []ir.Rule) (string, bool) {
	for _, r := range rules {
		if r.Type == ir.RuleMust {
			return r.Target, true
		}
	}
	return "", false
}
