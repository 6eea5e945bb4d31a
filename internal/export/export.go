// Package export writes draws in spreadsheet-friendly form.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/store"
)

// Header is the first row of a pairing export.
var Header = []string{"Giver", "Receiver"}

// TokenHeader is the first row of a token export.
var TokenHeader = []string{"Giver", "Token"}

// CurrentNames maps participant ids to their current display names.
func CurrentNames(set *ir.ParticipantSet) map[string]string {
	names := make(map[string]string, set.Len())
	for _, p := range set.Participants() {
		names[p.ID] = p.Name
	}
	return names
}

// WriteCSV writes a draw as tab-separated rows in draw order, preceded by
// Header. Names are looked up by id in names; ids missing there fall back to
// the name captured when the draw was generated. names may be nil.
// Names containing a tab, quote or newline are quoted and their quotes
// doubled, so every row keeps exactly two columns.
func WriteCSV(w io.Writer, draw *ir.Draw, names map[string]string) error {
	if draw == nil {
		return fmt.Errorf("export: draw is nil")
	}

	cw := newWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, p := range draw.Pairings {
		if err := cw.Write([]string{nameOf(p.Giver, names), nameOf(p.Receiver, names)}); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WriteTokens writes one row per assignment with the giver's reveal token,
// preceded by TokenHeader. Receivers are never written.
func WriteTokens(w io.Writer, assignments []store.Assignment, names map[string]string) error {
	cw := newWriter(w)
	if err := cw.Write(TokenHeader); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, a := range assignments {
		if err := cw.Write([]string{nameOf(a.Giver, names), a.Token}); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

func nameOf(ref ir.ParticipantRef, names map[string]string) string {
	if name, ok := names[ref.ID]; ok {
		return name
	}
	return ref.Name
}
