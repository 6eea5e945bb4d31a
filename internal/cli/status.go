package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/store"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	Database string
}

// StatusResult is the JSON payload of the status command.
type StatusResult struct {
	Roster      string `json:"roster"`
	Fingerprint string `json:"fingerprint"`
	Draws       int    `json:"draws"`
	DrawID      string `json:"draw_id,omitempty"`
	Seq         int64  `json:"seq,omitempty"`
	Stale       bool   `json:"stale"`
	Revealed    int    `json:"revealed"`
	Givers      int    `json:"givers"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status <roster>",
		Short: "Show whether the stored draw still matches the roster",
		Long: `Compare a roster with its latest stored draw.

The draw is stale when the roster's rules changed after it was drawn.
Renaming people or editing hints does not make a draw stale. Also reports
how many givers have revealed their receiver.

Example:
  santa status family.yaml --db santa.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStatus(opts *StatusOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	roster, err := loadRosterOrFail(formatter, path)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer st.Close()

	result := StatusResult{
		Roster:      roster.Name,
		Fingerprint: rosterFingerprint(roster),
	}

	draws, err := st.ListDraws(ctx, roster.Name)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	result.Draws = len(draws)

	stale, err := st.IsStale(ctx, roster.Name, result.Fingerprint)
	if errors.Is(err, store.ErrNoDraw) {
		return formatter.Fail(ExitFailure, ErrCodeNoDraw, fmt.Sprintf("no draw stored for %s", roster.Name), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	result.Stale = stale

	latest := draws[len(draws)-1]
	result.DrawID = latest.ID
	result.Seq = latest.Seq

	assignments, err := st.ReadAssignments(ctx, latest.ID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	result.Givers = len(assignments)
	for _, a := range assignments {
		if a.Revealed {
			result.Revealed++
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if result.Stale {
		fmt.Fprintf(w, "✗ Draw #%d of %s is stale: the rules changed, draw again\n", result.Seq, result.Roster)
	} else {
		fmt.Fprintf(w, "✓ Draw #%d of %s matches the roster\n", result.Seq, result.Roster)
	}
	fmt.Fprintf(w, "  %d of %d givers revealed\n", result.Revealed, result.Givers)
	fmt.Fprintf(w, "  %d draw(s) stored\n", result.Draws)
	return nil
}

// rosterFingerprint returns the fingerprint of a loaded roster.
func rosterFingerprint(roster *LoadResult) string {
	return ir.Fingerprint(roster.Set)
}
