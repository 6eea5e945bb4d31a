// Package store provides SQLite-backed storage for draws and reveal tokens.
//
// The store keeps:
//   - Draws: one row per saved draw, keyed by ir.RecordID, with the content
//     id ir.DrawID and the fingerprint of the participant set it was drawn
//     from
//   - Assignments: one row per pairing, each with a one-time reveal token
//
// # Ordering
//
// Draws are ordered by a logical seq column, never by timestamps. The latest
// draw of a roster is the one with the highest seq. Assignment queries use
// ORDER BY position so results are stable.
//
// # Staleness
//
// A stored draw is stale when the current fingerprint of its roster differs
// from the stored one. The comparison is plain string equality.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
