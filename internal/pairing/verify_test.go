package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/santa/internal/testutil"
)

func TestVerify(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").Must("A", "B").MustNot("C", "B").Build()

	tests := []struct {
		name    string
		edges   []string
		wantErr string
	}{
		{"valid", []string{"A", "B", "B", "C", "C", "A"}, ""},
		{"missing pairing", []string{"A", "B", "B", "A"}, "draw has 2 pairings, set has 3 participants"},
		{"unknown giver", []string{"A", "B", "B", "C", "X", "A"}, `unknown giver "X"`},
		{"unknown receiver", []string{"A", "B", "B", "C", "C", "X"}, `unknown receiver "X"`},
		{"double giver", []string{"A", "B", "A", "C", "C", "A"}, `"A" gives more than once`},
		{"double receiver", []string{"A", "B", "B", "A", "C", "A"}, `"A" receives more than once`},
		{"must broken", []string{"A", "C", "C", "B", "B", "A"}, `"A" must give to "B", gives to "C"`},
		{"must not broken", []string{"C", "B", "A", "C", "B", "A"}, `"C" must not give to "B"`},
		{"self without must", []string{"A", "B", "B", "A", "C", "C"}, `"C" gives to themselves`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(set, drawOf(tt.edges...))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestVerifyMustNot(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").MustNot("A", "B").Build()

	assert.ErrorContains(t, Verify(set, drawOf("A", "B", "B", "C", "C", "A")), `"A" must not give to "B"`)
	assert.NoError(t, Verify(set, drawOf("A", "C", "B", "A", "C", "B")))
}

func TestVerifyForcedSelf(t *testing.T) {
	set := testutil.NewRoster("A", "B", "C").Must("A", "A").Build()
	assert.NoError(t, Verify(set, drawOf("A", "A", "B", "C", "C", "B")))
}

func TestVerifyNilDraw(t *testing.T) {
	set := testutil.NewRoster("A", "B").Build()
	assert.Error(t, Verify(set, nil))
}
