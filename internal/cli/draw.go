package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/santa/internal/export"
	"github.com/roach88/santa/internal/ir"
	"github.com/roach88/santa/internal/pairing"
	"github.com/roach88/santa/internal/store"
)

// DrawOptions holds flags for the draw command.
type DrawOptions struct {
	*RootOptions
	Seed     int64
	Attempts int
	Strategy string
	Database string
	CSV      string
	Hide     bool

	// Tokens overrides the reveal token generator (for testing).
	// If nil, the store uses UUIDv7 tokens.
	Tokens store.TokenGenerator
}

// PairingView is a pairing by display name.
type PairingView struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

// DrawResult is the JSON payload of the draw command.
type DrawResult struct {
	Roster      string        `json:"roster"`
	Seed        int64         `json:"seed"`
	Strategy    string        `json:"strategy"`
	Fingerprint string        `json:"fingerprint"`
	Cycles      int           `json:"cycles"`
	Pairings    []PairingView `json:"pairings,omitempty"`
	DrawID      string        `json:"draw_id,omitempty"`
	Seq         int64         `json:"seq,omitempty"`
	Tokens      []TokenView   `json:"tokens,omitempty"`
}

// TokenView is a giver's reveal token.
type TokenView struct {
	Giver string `json:"giver"`
	Token string `json:"token"`
}

// NewDrawCommand creates the draw command.
func NewDrawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "draw <roster>",
		Short: "Draw pairings for a roster",
		Long: `Draw a Secret Santa assignment for a roster.

Every participant gives exactly one gift and receives exactly one. MUST rules
force a receiver, MUST NOT rules forbid one, and nobody draws themselves
unless a MUST rule says so.

The retry strategy makes a bounded number of randomized attempts and can
give up on rosters that are feasible but tight; matching always finds a draw
when one exists; hybrid tries retry first and falls back to matching.

With --db the draw is stored with one single-use reveal token per giver.

Example:
  santa draw family.yaml
  santa draw family.yaml --seed 42 --strategy hybrid
  santa draw family.yaml --db santa.db --csv pairings.tsv --hide`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&opts.Attempts, "attempts", pairing.DefaultMaxAttempts, "maximum attempts for the retry strategy")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", string(pairing.StrategyRetry), "search strategy (retry|matching|hybrid)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the draw in this SQLite database")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "write the pairings as tab-separated values to this file")
	cmd.Flags().BoolVar(&opts.Hide, "hide", false, "do not print who gives to whom")

	return cmd
}

func runDraw(opts *DrawOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd)

	strategy, err := pairing.ParseStrategy(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlags, err.Error(), nil)
	}
	if opts.Attempts < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlags, "--attempts must be at least 1", nil)
	}

	roster, err := loadRosterOrFail(formatter, path)
	if err != nil {
		return err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	formatter.VerboseLog("Drawing %d participant(s) with seed %d", roster.Set.Len(), seed)

	gen := pairing.New(&pairing.Options{
		Seed:        seed,
		MaxAttempts: opts.Attempts,
		Strategy:    strategy,
		Logger:      logger,
	})
	draw, err := gen.Generate(roster.Set)
	if err != nil {
		return drawFailure(formatter, roster.Set, err)
	}

	result := DrawResult{
		Roster:      roster.Name,
		Seed:        seed,
		Strategy:    string(strategy),
		Fingerprint: draw.Fingerprint,
		Cycles:      len(pairing.Cycles(draw)),
	}
	if !opts.Hide {
		result.Pairings = pairingViews(draw)
	}

	if opts.CSV != "" {
		if err := writeCSVFile(opts.CSV, draw, export.CurrentNames(roster.Set)); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		formatter.VerboseLog("Wrote %s", opts.CSV)
	}

	if opts.Database != "" {
		if err := saveDraw(commandContext(cmd), opts, roster, draw, &result); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
		logger.Info("draw stored", "roster", roster.Name, "draw_id", result.DrawID, "seq", result.Seq)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Drew %d pairings for %s (seed %d, %s)\n", roster.Set.Len(), result.Roster, result.Seed, result.Strategy)
	for _, p := range result.Pairings {
		fmt.Fprintf(w, "  %s -> %s\n", p.Giver, p.Receiver)
	}
	fmt.Fprintf(w, "  %d gift cycle(s)\n", result.Cycles)
	fmt.Fprintf(w, "  fingerprint %s\n", result.Fingerprint)
	if result.DrawID != "" {
		fmt.Fprintf(w, "  stored as draw #%d (%s)\n", result.Seq, shortID(result.DrawID))
		for _, t := range result.Tokens {
			fmt.Fprintf(w, "  reveal %s: %s\n", t.Giver, t.Token)
		}
	}
	return nil
}

// drawFailure reports a generation error in the words an organizer needs:
// either the roster is too small or the rules are the problem.
func drawFailure(formatter *OutputFormatter, set *ir.ParticipantSet, err error) error {
	if !errors.Is(err, pairing.ErrInfeasible) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	details := map[string]string{"reason": string(pairing.CodeOf(err))}
	if set.Len() < 2 {
		return formatter.Fail(ExitFailure, ErrCodeTooFew, "at least two participants are required", details)
	}
	return formatter.Fail(ExitFailure, ErrCodeImpossible, "rules made the draw impossible, edit the rules or try again", details)
}

func saveDraw(ctx context.Context, opts *DrawOptions, roster *LoadResult, draw *ir.Draw, result *DrawResult) error {
	var storeOpts []store.Option
	if opts.Tokens != nil {
		storeOpts = append(storeOpts, store.WithTokenGenerator(opts.Tokens))
	}

	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	record, assignments, err := st.SaveDraw(ctx, roster.Name, roster.Set, draw, result.Strategy)
	if err != nil {
		return err
	}

	result.DrawID = record.ID
	result.Seq = record.Seq
	names := export.CurrentNames(roster.Set)
	for _, a := range assignments {
		giver := names[a.Giver.ID]
		if giver == "" {
			giver = a.Giver.Name
		}
		result.Tokens = append(result.Tokens, TokenView{Giver: giver, Token: a.Token})
	}
	return nil
}

func writeCSVFile(path string, draw *ir.Draw, names map[string]string) error {
	return writeOutput(path, nil, func(w io.Writer) error {
		return export.WriteCSV(w, draw, names)
	})
}

func pairingViews(draw *ir.Draw) []PairingView {
	views := make([]PairingView, len(draw.Pairings))
	for i, p := range draw.Pairings {
		views[i] = PairingView{Giver: p.Giver.Name, Receiver: p.Receiver.Name}
	}
	return views
}

// shortID returns the first 12 characters of a content hash.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
