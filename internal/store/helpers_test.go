package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/testutil"
)

// createTestStore opens a store in a temp dir with tokens tok-1, tok-2, ...
func createTestStore(t *testing.T) *Store {
	t.Helper()
	tokens := make([]string, 100)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok-%d", i+1)
	}

	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithTokenGenerator(NewFixedGenerator(tokens...)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testSet is A, B, C with a hint on B.
func testSet() *ir.ParticipantSet {
	return testutil.NewRoster("A", "B", "C").Hint("B", "likes tea").MustNot("A", "C").Build()
}

// testDraw returns the ring A>B>C>A, or the reverse ring when reverse is set.
func testDraw(set *ir.ParticipantSet, reverse bool) *ir.Draw {
	ref := func(id string) ir.ParticipantRef {
		p, _ := set.Get(id)
		return p.Ref()
	}
	pairs := [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}}
	if reverse {
		pairs = [][2]string{{"A", "C"}, {"B", "A"}, {"C", "B"}}
	}

	d := &ir.Draw{Fingerprint: ir.Fingerprint(set)}
	for _, p := range pairs {
		d.Pairings = append(d.Pairings, ir.Pairing{Giver: ref(p[0]), Receiver: ref(p[1])})
	}
	return d
}
