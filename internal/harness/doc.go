// Package harness runs pairing scenarios as executable checks.
//
// A scenario names a roster, draws from it a number of times with seeded
// generators, verifies every draw against the roster rules, and evaluates
// assertions over the results.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario checks"
//	roster: ../rosters/family.yaml   # or inline participants:
//	participants:
//	  - name: Alice
//	    must_not: [Bob]
//	runs: 100
//	seed: 7
//	strategy: retry
//	expect: feasible
//	assertions:
//	  - type: gives_to
//	    giver: Alice
//	    receiver: Carol
//	  - type: cycle_count
//	    count: 1
//
// # Assertion Types
//
//   - gives_to: every successful draw pairs giver with receiver
//   - never_gives_to: no successful draw pairs giver with receiver
//   - cycle_count: every successful draw splits into exactly count cycles
//   - min_success_rate: at least rate of the runs produced a draw
//
// # Deterministic Testing
//
// Run i uses seed+i, so a scenario always produces the same draws and the
// first draw can be compared against a golden file.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/cliques.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
