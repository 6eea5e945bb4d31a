package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Reveal errors.
var (
	ErrTokenNotFound = errors.New("reveal token not found")
	ErrTokenUsed     = errors.New("reveal token already used")
)

// Revealed is what a giver learns when opening their token.
type Revealed struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
	Hint     string `json:"hint,omitempty"`
}

// Reveal opens a reveal token exactly once.
// The first call marks the token used and returns the assignment. Later calls
// return ErrTokenUsed; unknown tokens return ErrTokenNotFound.
func (s *Store) Reveal(ctx context.Context, token string) (Revealed, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Revealed{}, fmt.Errorf("reveal: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var (
		r        Revealed
		revealed int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT giver_name, receiver_name, hint, revealed
		FROM assignments
		WHERE token = ?
	`, token).Scan(&r.Giver, &r.Receiver, &r.Hint, &revealed)
	if errors.Is(err, sql.ErrNoRows) {
		return Revealed{}, ErrTokenNotFound
	}
	if err != nil {
		return Revealed{}, fmt.Errorf("reveal: %w", err)
	}
	if revealed != 0 {
		return Revealed{}, ErrTokenUsed
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE assignments SET revealed = 1 WHERE token = ? AND revealed = 0
	`, token)
	if err != nil {
		return Revealed{}, fmt.Errorf("reveal: mark used: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return Revealed{}, fmt.Errorf("reveal: rows affected: %w", err)
	} else if n == 0 {
		return Revealed{}, ErrTokenUsed
	}

	if err := tx.Commit(); err != nil {
		return Revealed{}, fmt.Errorf("reveal: commit: %w", err)
	}
	return r, nil
}
