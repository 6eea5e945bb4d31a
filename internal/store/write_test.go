package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/santa/internal/ir"
)

func TestSaveDraw_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	set := testSet()
	draw := testDraw(set, false)

	record, assignments, err := s.SaveDraw(ctx, "family", set, draw, "retry")
	require.NoError(t, err)

	assert.Equal(t, ir.MustDrawID(*draw), record.ContentID)
	assert.Equal(t, ir.RecordID("family", 1, record.ContentID), record.ID)
	assert.Equal(t, "family", record.Roster)
	assert.Equal(t, ir.Fingerprint(set), record.Fingerprint)
	assert.Equal(t, "retry", record.Strategy)
	assert.Equal(t, 3, record.Participants)
	assert.Equal(t, int64(1), record.Seq)
	assert.Equal(t, ir.GeneratorVersion, record.GeneratorVersion)
	assert.Equal(t, ir.FormatVersion, record.FormatVersion)

	require.Len(t, assignments, 3)
	assert.Equal(t, "tok-1", assignments[0].Token)
	assert.Equal(t, "A", assignments[0].Giver.ID)
	assert.Equal(t, "B", assignments[0].Receiver.ID)
	assert.Equal(t, "likes tea", assignments[0].Hint, "hint belongs to the receiver")
	assert.Equal(t, "", assignments[1].Hint)
	assert.Equal(t, 2, assignments[2].Position)
	assert.False(t, assignments[0].Revealed)
}

func TestSaveDraw_RepeatOfLatestIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	set := testSet()
	draw := testDraw(set, false)

	first, firstAssignments, err := s.SaveDraw(ctx, "family", set, draw, "retry")
	require.NoError(t, err)
	second, secondAssignments, err := s.SaveDraw(ctx, "family", set, draw, "retry")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstAssignments, secondAssignments)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM assignments").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSaveDraw_RedrawAfterOtherDrawBecomesLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	set := testSet()
	x := testDraw(set, false)
	y := testDraw(set, true)

	first, _, err := s.SaveDraw(ctx, "family", set, x, "retry")
	require.NoError(t, err)
	_, _, err = s.SaveDraw(ctx, "family", set, y, "retry")
	require.NoError(t, err)
	third, assignments, err := s.SaveDraw(ctx, "family", set, x, "retry")
	require.NoError(t, err)

	assert.Equal(t, int64(3), third.Seq)
	assert.Equal(t, first.ContentID, third.ContentID)
	assert.NotEqual(t, first.ID, third.ID)
	require.Len(t, assignments, 3)
	assert.Equal(t, "tok-7", assignments[0].Token, "a redraw hands out fresh tokens")
	assert.Equal(t, third.ID, assignments[0].DrawID)

	latest, err := s.LatestDraw(ctx, "family")
	require.NoError(t, err)
	assert.Equal(t, third, latest)

	loaded, err := s.LoadDraw(ctx, latest.ID)
	require.NoError(t, err)
	assert.Equal(t, x, loaded)

	draws, err := s.ListDraws(ctx, "family")
	require.NoError(t, err)
	assert.Len(t, draws, 3)
}

func TestSaveDraw_SameDrawUnderTwoRosters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	set := testSet()
	draw := testDraw(set, false)

	family, _, err := s.SaveDraw(ctx, "family", set, draw, "retry")
	require.NoError(t, err)
	copied, assignments, err := s.SaveDraw(ctx, "family-copy", set, draw, "retry")
	require.NoError(t, err)

	assert.Equal(t, "family-copy", copied.Roster)
	assert.Equal(t, int64(2), copied.Seq)
	assert.Equal(t, family.ContentID, copied.ContentID)
	assert.NotEqual(t, family.ID, copied.ID)
	assert.Equal(t, "tok-4", assignments[0].Token)

	latest, err := s.LatestDraw(ctx, "family-copy")
	require.NoError(t, err)
	assert.Equal(t, copied, latest)

	latest, err = s.LatestDraw(ctx, "family")
	require.NoError(t, err)
	assert.Equal(t, family, latest)

	stale, err := s.IsStale(ctx, "family-copy", ir.Fingerprint(set))
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestSaveDraw_SeqIncrements(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	set := testSet()

	first, _, err := s.SaveDraw(ctx, "family", set, testDraw(set, false), "retry")
	require.NoError(t, err)
	second, assignments, err := s.SaveDraw(ctx, "office", set, testDraw(set, true), "matching")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, "tok-4", assignments[0].Token)
}

func TestSaveDraw_NilDraw(t *testing.T) {
	s := createTestStore(t)
	_, _, err := s.SaveDraw(context.Background(), "family", testSet(), nil, "retry")
	assert.Error(t, err)
}

func TestMarshalPairings_RoundTrip(t *testing.T) {
	set := testSet()
	draw := testDraw(set, false)

	data, err := marshalPairings(draw.Pairings)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"giver":{"id":"A","name":"A"},"receiver":{"id":"B","name":"B"}},`+
			`{"giver":{"id":"B","name":"B"},"receiver":{"id":"C","name":"C"}},`+
			`{"giver":{"id":"C","name":"C"},"receiver":{"id":"A","name":"A"}}]`,
		data)

	pairings, err := unmarshalPairings(data)
	require.NoError(t, err)
	assert.Equal(t, draw.Pairings, pairings)

	empty, err := unmarshalPairings("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
