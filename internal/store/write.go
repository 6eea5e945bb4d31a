package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/santa/internal/ir"
)

// DrawRecord is a stored draw without its assignments.
type DrawRecord struct {
	ID               string `json:"id"`         // unique per save, see ir.RecordID
	ContentID        string `json:"content_id"` // ir.DrawID of the pairings
	Roster           string `json:"roster"`
	Fingerprint      string `json:"fingerprint"`
	Strategy         string `json:"strategy"`
	Participants     int    `json:"participants"`
	Seq              int64  `json:"seq"`
	GeneratorVersion string `json:"generator_version"`
	FormatVersion    string `json:"format_version"`
}

// Assignment is one stored pairing with its reveal token.
type Assignment struct {
	Token    string            `json:"token"`
	DrawID   string            `json:"draw_id"`
	Position int               `json:"position"`
	Giver    ir.ParticipantRef `json:"giver"`
	Receiver ir.ParticipantRef `json:"receiver"`
	Hint     string            `json:"hint,omitempty"`
	Revealed bool              `json:"revealed"`
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveDraw stores a draw for roster along with one reveal token per pairing.
//
// Every accepted draw becomes the roster's latest with a fresh seq and fresh
// tokens, even when the same pairings were stored before. The one exception
// is saving the draw that is already the roster's latest: that stores nothing
// and returns the existing record and tokens.
// Each assignment records the receiver's hint from set, the set the draw was
// generated from.
func (s *Store) SaveDraw(ctx context.Context, roster string, set *ir.ParticipantSet, draw *ir.Draw, strategy string) (DrawRecord, []Assignment, error) {
	if draw == nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: draw is nil")
	}

	contentID, err := ir.DrawID(*draw)
	if err != nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: %w", err)
	}

	pairingsJSON, err := marshalPairings(draw.Pairings)
	if err != nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	latest, err := latestDraw(ctx, tx, roster)
	switch {
	case err == nil && latest.ContentID == contentID:
		assignments, err := readAssignments(ctx, tx, latest.ID)
		if err != nil {
			return DrawRecord{}, nil, fmt.Errorf("save draw: %w", err)
		}
		return latest, assignments, nil
	case err != nil && !errors.Is(err, ErrNoDraw):
		return DrawRecord{}, nil, fmt.Errorf("save draw: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM draws`).Scan(&seq); err != nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: next seq: %w", err)
	}
	id := ir.RecordID(roster, seq, contentID)

	record := DrawRecord{
		ID:               id,
		ContentID:        contentID,
		Roster:           roster,
		Fingerprint:      draw.Fingerprint,
		Strategy:         strategy,
		Participants:     len(draw.Pairings),
		Seq:              seq,
		GeneratorVersion: ir.GeneratorVersion,
		FormatVersion:    ir.FormatVersion,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO draws
		(id, content_id, roster, fingerprint, strategy, participant_count, pairings, seq, generator_version, format_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.ContentID,
		record.Roster,
		record.Fingerprint,
		record.Strategy,
		record.Participants,
		pairingsJSON,
		record.Seq,
		record.GeneratorVersion,
		record.FormatVersion,
	)
	if err != nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: insert draw: %w", err)
	}

	assignments := make([]Assignment, len(draw.Pairings))
	for i, p := range draw.Pairings {
		var hint string
		if receiver, ok := set.Get(p.Receiver.ID); ok {
			hint = receiver.Hint
		}

		a := Assignment{
			Token:    s.tokens.Generate(),
			DrawID:   id,
			Position: i,
			Giver:    p.Giver,
			Receiver: p.Receiver,
			Hint:     hint,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assignments
			(token, draw_id, position, giver_id, giver_name, receiver_id, receiver_name, hint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			a.Token,
			a.DrawID,
			a.Position,
			a.Giver.ID,
			a.Giver.Name,
			a.Receiver.ID,
			a.Receiver.Name,
			a.Hint,
		)
		if err != nil {
			return DrawRecord{}, nil, fmt.Errorf("save draw: insert assignment %d: %w", i, err)
		}
		assignments[i] = a
	}

	if err := tx.Commit(); err != nil {
		return DrawRecord{}, nil, fmt.Errorf("save draw: commit: %w", err)
	}

	return record, assignments, nil
}
