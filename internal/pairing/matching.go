package pairing

import "github.com/roach88/santa/internal/ir"

// match finds a perfect giver/receiver matching with augmenting paths
// (Kuhn's algorithm). Giver order and every candidate list are shuffled first,
// so repeated calls land on different solutions. When no perfect matching
// exists the first giver left unmatched is reported as UNSATISFIABLE.
func (g *Generator) match(set *ir.ParticipantSet, cands candidates) ([]int, error) {
	n := len(cands)
	adj := cands.clone()
	for _, list := range adj {
		g.rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	}
	order := g.rng.Perm(n)

	owner := make([]int, n) // receiver -> giver
	for r := range owner {
		owner[r] = -1
	}

	for _, giver := range order {
		visited := make([]bool, n)
		if !augment(giver, adj, owner, visited) {
			ids := set.IDs()
			g.logger.Debug("matching failed", "participant", ids[giver])
			return nil, unsatisfiableError(ids[giver])
		}
	}

	assignment := make([]int, n)
	for receiver, giver := range owner {
		assignment[giver] = receiver
	}
	g.logger.Debug("draw complete", "strategy", StrategyMatching)
	return assignment, nil
}

// augment looks for an augmenting path starting at giver and flips it.
func augment(giver int, adj candidates, owner []int, visited []bool) bool {
	for _, receiver := range adj[giver] {
		if visited[receiver] {
			continue
		}
		visited[receiver] = true
		if owner[receiver] == -1 || augment(owner[receiver], adj, owner, visited) {
			owner[receiver] = giver
			return true
		}
	}
	return false
}
