package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// The version suffix allows the encoding to change later.
const (
	DomainFingerprint = "santa/fingerprint/v1"
	DomainDraw        = "santa/draw/v1"
	DomainRecord      = "santa/record/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain and data from running together.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint digests the rule structure of a participant set.
//
// Only rule lists enter the digest, in the set's natural order. A rule target
// is encoded as the target's position in the set, so ids, names and hints never
// affect the result; a dangling target is encoded by its raw id. Two sets with
// the same rule structure share a fingerprint and any rule edit changes it.
//
// Callers compare fingerprints with plain string equality to decide whether a
// stored draw is stale.
func Fingerprint(set *ParticipantSet) string {
	index := make(map[string]int, set.Len())
	for i, id := range set.IDs() {
		index[id] = i
	}

	entries := make(Array, 0, set.Len())
	for _, p := range set.Participants() {
		rules := make(Array, 0, len(p.Rules))
		for _, r := range p.Rules {
			var target Value = String(r.Target)
			if i, ok := index[r.Target]; ok {
				target = Int(i)
			}
			rules = append(rules, Object{
				"type":   String(r.Type),
				"target": target,
			})
		}
		entries = append(entries, Object{"rules": rules})
	}

	data, err := MarshalCanonical(entries)
	if err != nil {
		// Only strings and ints are encoded above.
		panic(fmt.Sprintf("Fingerprint: %v", err))
	}
	return hashWithDomain(DomainFingerprint, data)
}

// DrawID computes a content-addressed id for a draw.
// The same pairings drawn from the same rule structure always get the same id.
func DrawID(draw Draw) (string, error) {
	pairings := make(Array, len(draw.Pairings))
	for i, p := range draw.Pairings {
		pairings[i] = Object{
			"giver":    String(p.Giver.ID),
			"receiver": String(p.Receiver.ID),
		}
	}

	canonical, err := MarshalCanonical(Object{
		"fingerprint": String(draw.Fingerprint),
		"pairings":    pairings,
	})
	if err != nil {
		return "", fmt.Errorf("DrawID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDraw, canonical), nil
}

// MustDrawID is like DrawID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDrawID(draw Draw) string {
	id, err := DrawID(draw)
	if err != nil {
		panic(err)
	}
	return id
}

// RecordID computes the id of one stored draw: the draw content saved under
// roster at logical position seq. Saving the same draw again later, or under
// another roster, gives a different record id.
func RecordID(roster string, seq int64, drawID string) string {
	canonical, err := MarshalCanonical(Object{
		"roster":  String(roster),
		"seq":     Int(seq),
		"draw_id": String(drawID),
	})
	if err != nil {
		// Only strings and ints are encoded above.
		panic(fmt.Sprintf("RecordID: %v", err))
	}
	return hashWithDomain(DomainRecord, canonical)
}
