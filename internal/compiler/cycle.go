package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/santa/internal/ir"
)

// Warning levels.
const (
	LevelWarning = "warning" // the draw cannot succeed
	LevelInfo    = "info"    // the draw can succeed but is heavily shaped
)

// RuleWarning is a finding about the rule structure of a whole roster.
//
// Validate only checks each participant's own rules. Interactions between
// participants are reported here instead, because a roster with warnings is
// still a legal input to the generator.
type RuleWarning struct {
	Path    []string `json:"path"`    // participant names involved
	Message string   `json:"message"` // human-readable description
	Level   string   `json:"level"`   // LevelWarning or LevelInfo
}

// AnalyzeRules inspects cross-participant rule structure:
//  1. Givers forced onto the same receiver (no draw exists)
//  2. Givers whose MUST_NOT rules exclude everyone (no draw exists)
//  3. Closed MUST cycles, found as strongly connected components of the
//     MUST graph with Tarjan's algorithm
//
// Findings are listed in roster order. A roster without cross-participant
// problems returns an empty list.
func AnalyzeRules(set *ir.ParticipantSet) []RuleWarning {
	warnings := []RuleWarning{}
	if set.Len() == 0 {
		return warnings
	}

	warnings = append(warnings, sharedMustTargets(set)...)
	warnings = append(warnings, excludedEveryone(set)...)

	graph := buildMustGraph(set)
	for _, scc := range tarjanSCC(set.IDs(), graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, cycleWarning(set, scc, graph))
		}
	}

	return warnings
}

func nameOf(set *ir.ParticipantSet, id string) string {
	if p, ok := set.Get(id); ok {
		return p.Name
	}
	return id
}

func sharedMustTargets(set *ir.ParticipantSet) []RuleWarning {
	forcedBy := make(map[string][]string)
	var targets []string
	for _, p := range set.Participants() {
		for _, r := range p.Rules {
			if r.Type != ir.RuleMust {
				continue
			}
			if len(forcedBy[r.Target]) == 0 {
				targets = append(targets, r.Target)
			}
			forcedBy[r.Target] = append(forcedBy[r.Target], p.ID)
		}
	}

	var warnings []RuleWarning
	for _, target := range targets {
		givers := forcedBy[target]
		if len(givers) < 2 {
			continue
		}
		path := make([]string, len(givers))
		for i, id := range givers {
			path[i] = nameOf(set, id)
		}
		warnings = append(warnings, RuleWarning{
			Path:    append(path, nameOf(set, target)),
			Message: fmt.Sprintf("%s must all give to %s; no draw can satisfy them", strings.Join(path, ", "), nameOf(set, target)),
			Level:   LevelWarning,
		})
	}
	return warnings
}

func excludedEveryone(set *ir.ParticipantSet) []RuleWarning {
	var warnings []RuleWarning
	for _, p := range set.Participants() {
		excluded := map[string]bool{p.ID: true}
		hasMust := false
		for _, r := range p.Rules {
			switch r.Type {
			case ir.RuleMust:
				hasMust = true
			case ir.RuleMustNot:
				excluded[r.Target] = true
			}
		}
		if hasMust {
			continue
		}

		open := 0
		for _, id := range set.IDs() {
			if !excluded[id] {
				open++
			}
		}
		if open == 0 {
			warnings = append(warnings, RuleWarning{
				Path:    []string{p.Name},
				Message: fmt.Sprintf("%s is not allowed to give to anyone", p.Name),
				Level:   LevelWarning,
			})
		}
	}
	return warnings
}

// mustGraph maps participant id to the id they must give to.
type mustGraph map[string][]string

func buildMustGraph(set *ir.ParticipantSet) mustGraph {
	graph := make(mustGraph, set.Len())
	for _, p := range set.Participants() {
		graph[p.ID] = []string{}
		for _, r := range p.Rules {
			if r.Type == ir.RuleMust && set.Has(r.Target) {
				graph[p.ID] = append(graph[p.ID], r.Target)
			}
		}
	}
	return graph
}

func hasSelfLoop(node string, graph mustGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in the given order so results are deterministic.
// Single-node components without self-loops are not cycles.
func tarjanSCC(nodes []string, graph mustGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleWarning describes a closed MUST cycle, starting from its earliest
// member in roster order.
func cycleWarning(set *ir.ParticipantSet, scc []string, graph mustGraph) RuleWarning {
	start := scc[0]
	for _, id := range scc {
		if set.IndexOf(id) < set.IndexOf(start) {
			start = id
		}
	}

	if len(scc) == 1 {
		name := nameOf(set, start)
		return RuleWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("%s must give to themselves", name),
			Level:   LevelInfo,
		}
	}

	members := make(map[string]bool, len(scc))
	for _, id := range scc {
		members[id] = true
	}

	path := []string{nameOf(set, start)}
	visited := map[string]bool{start: true}
	current := start
	for range scc {
		next := ""
		for _, w := range graph[current] {
			if members[w] && (!visited[w] || w == start) {
				next = w
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, nameOf(set, next))
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}

	return RuleWarning{
		Path:    path,
		Message: fmt.Sprintf("closed gift cycle: %s", strings.Join(path, " -> ")),
		Level:   LevelInfo,
	}
}
