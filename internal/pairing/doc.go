// Package pairing draws Secret Santa assignments.
//
// A draw is a permutation of the participant set: every participant gives
// exactly once and receives exactly once. MUST rules force an edge, MUST_NOT
// rules forbid one, and nobody gives to themselves unless a MUST rule says so.
//
// Three pieces make up the package:
//
//   - ValidateRules checks one participant's rule list in isolation.
//   - Generator builds candidate receiver sets and searches for a complete
//     assignment, either with bounded randomized retries (the default) or with
//     randomized augmenting-path matching.
//   - Verify and Cycles inspect a finished draw.
//
// Every business-rule failure (too few participants, invalid rules, dangling
// references, no solution found) is reported as an error matching
// ErrInfeasible. Nothing here panics on user data.
//
// # Randomness
//
// A Generator owns a *rand.Rand seeded from Options.Seed, or uses
// Options.Rand when set, so tests can pin outcomes. A Generator is not safe
// for concurrent use; the package-level Generate creates a fresh one per call
// and may be called from any number of goroutines.
package pairing
