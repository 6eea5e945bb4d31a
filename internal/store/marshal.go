package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/santa/internal/ir"
)

// marshalPairings converts pairings to canonical JSON TEXT for storage.
func marshalPairings(pairings []ir.Pairing) (string, error) {
	list := make(ir.Array, len(pairings))
	for i, p := range pairings {
		list[i] = ir.Object{
			"giver":    refObject(p.Giver),
			"receiver": refObject(p.Receiver),
		}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal pairings: %w", err)
	}
	return string(data), nil
}

func refObject(ref ir.ParticipantRef) ir.Object {
	return ir.Object{"id": ir.String(ref.ID), "name": ir.String(ref.Name)}
}

// unmarshalPairings parses the stored pairings column.
func unmarshalPairings(data string) ([]ir.Pairing, error) {
	if data == "" || data == "[]" {
		return []ir.Pairing{}, nil
	}
	var pairings []ir.Pairing
	if err := json.Unmarshal([]byte(data), &pairings); err != nil {
		return nil, fmt.Errorf("unmarshal pairings: %w", err)
	}
	return pairings, nil
}
