// Package ir holds the data model shared by every santa package: participants,
// rules, participant sets and generated draws, plus the canonical JSON encoding
// and content hashes computed over them.
//
// This package imports nothing internal. Everything else imports ir.
//
// Key constraints:
//   - A ParticipantSet is immutable once built and iterates in insertion order
//   - Rules reference participants by id, never by name
//   - Hashes use RFC 8785 canonical JSON with domain separation
//   - No floats in canonical values
package ir
