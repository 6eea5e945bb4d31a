package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/santa/internal/ir"
)

// Lookup errors.
var (
	ErrNoDraw       = errors.New("no draw stored for roster")
	ErrDrawNotFound = errors.New("draw not found")
)

const drawColumns = `id, content_id, roster, fingerprint, strategy, participant_count, seq, generator_version, format_version`

// LatestDraw returns the most recent draw of roster, or ErrNoDraw.
func (s *Store) LatestDraw(ctx context.Context, roster string) (DrawRecord, error) {
	return latestDraw(ctx, s.db, roster)
}

// ListDraws returns every draw of roster, oldest first.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListDraws(ctx context.Context, roster string) ([]DrawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+drawColumns+`
		FROM draws
		WHERE roster = ?
		ORDER BY seq ASC
	`, roster)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	records := []DrawRecord{}
	for rows.Next() {
		record, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draws: %w", err)
	}
	return records, nil
}

// ReadDraw returns the draw with the given id, or ErrDrawNotFound.
func (s *Store) ReadDraw(ctx context.Context, id string) (DrawRecord, error) {
	return readDraw(ctx, s.db, id)
}

// LoadDraw rebuilds the ir.Draw stored under id.
func (s *Store) LoadDraw(ctx context.Context, id string) (*ir.Draw, error) {
	var fingerprint, pairingsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, pairings FROM draws WHERE id = ?
	`, id).Scan(&fingerprint, &pairingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDrawNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load draw: %w", err)
	}

	pairings, err := unmarshalPairings(pairingsJSON)
	if err != nil {
		return nil, fmt.Errorf("load draw: %w", err)
	}
	return &ir.Draw{Fingerprint: fingerprint, Pairings: pairings}, nil
}

// ReadAssignments returns the assignments of a draw in giver order.
// Returns an empty slice (not nil) for an unknown draw.
func (s *Store) ReadAssignments(ctx context.Context, drawID string) ([]Assignment, error) {
	return readAssignments(ctx, s.db, drawID)
}

// IsStale reports whether the latest draw of roster was generated from a
// different rule structure than fingerprint. Returns ErrNoDraw when nothing
// is stored.
func (s *Store) IsStale(ctx context.Context, roster, fingerprint string) (bool, error) {
	latest, err := s.LatestDraw(ctx, roster)
	if err != nil {
		return false, err
	}
	return latest.Fingerprint != fingerprint, nil
}

func latestDraw(ctx context.Context, q querier, roster string) (DrawRecord, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+drawColumns+`
		FROM draws
		WHERE roster = ?
		ORDER BY seq DESC
		LIMIT 1
	`, roster)

	record, err := scanDraw(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DrawRecord{}, fmt.Errorf("%w: %q", ErrNoDraw, roster)
	}
	if err != nil {
		return DrawRecord{}, fmt.Errorf("latest draw: %w", err)
	}
	return record, nil
}

func readDraw(ctx context.Context, q querier, id string) (DrawRecord, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+drawColumns+`
		FROM draws
		WHERE id = ?
	`, id)

	record, err := scanDraw(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DrawRecord{}, fmt.Errorf("%w: %s", ErrDrawNotFound, id)
	}
	if err != nil {
		return DrawRecord{}, fmt.Errorf("read draw: %w", err)
	}
	return record, nil
}

func readAssignments(ctx context.Context, q querier, drawID string) ([]Assignment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT token, draw_id, position, giver_id, giver_name, receiver_id, receiver_name, hint, revealed
		FROM assignments
		WHERE draw_id = ?
		ORDER BY position ASC
	`, drawID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return assignments, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDraw(row scanner) (DrawRecord, error) {
	var r DrawRecord
	err := row.Scan(
		&r.ID,
		&r.ContentID,
		&r.Roster,
		&r.Fingerprint,
		&r.Strategy,
		&r.Participants,
		&r.Seq,
		&r.GeneratorVersion,
		&r.FormatVersion,
	)
	return r, err
}

func scanAssignment(row scanner) (Assignment, error) {
	var a Assignment
	var revealed int
	err := row.Scan(
		&a.Token,
		&a.DrawID,
		&a.Position,
		&a.Giver.ID,
		&a.Giver.Name,
		&a.Receiver.ID,
		&a.Receiver.Name,
		&a.Hint,
		&revealed,
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("scan assignment: %w", err)
	}
	a.Revealed = revealed != 0
	return a, nil
}
