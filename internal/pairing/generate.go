package pairing

import (
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/roach88/santa/internal/ir"
)

// Generator draws pairings from participant sets.
// Calls share one random source, so a Generator must not be used from several
// goroutines at once. Use one Generator per goroutine, or the package-level
// Generate.
type Generator struct {
	options *Options
	rng     *rand.Rand
	logger  *slog.Logger
}

// New creates a generator with the given options.
func New(options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}

	rng := options.Rand
	if rng == nil {
		seed := options.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Generator{
		options: options,
		rng:     rng,
		logger:  logger,
	}
}

// Generate draws a pairing with a fresh time-seeded generator and the default
// options. Safe for concurrent use.
func Generate(set *ir.ParticipantSet) (*ir.Draw, error) {
	return New(nil).Generate(set)
}

// Generate draws a complete pairing for set, or returns an error matching
// ErrInfeasible. The set is not modified.
func (g *Generator) Generate(set *ir.ParticipantSet) (*ir.Draw, error) {
	if err := CheckSet(set); err != nil {
		g.logger.Debug("draw rejected", "code", CodeOf(err), "error", err)
		return nil, err
	}

	cands := buildCandidates(set)

	var (
		assignment []int
		err        error
	)
	switch g.strategy() {
	case StrategyMatching:
		assignment, err = g.match(set, cands)
	case StrategyHybrid:
		assignment, err = g.retry(cands)
		if err != nil {
			g.logger.Debug("retries exhausted, falling back to matching")
			assignment, err = g.match(set, cands)
		}
	default:
		assignment, err = g.retry(cands)
	}
	if err != nil {
		return nil, err
	}

	return buildDraw(set, assignment), nil
}

// CheckSet runs the preconditions of a draw without searching: at least two
// participants, valid rule lists, and rule targets inside the set.
func CheckSet(set *ir.ParticipantSet) error {
	if set.Len() < 2 {
		return tooFewError(set.Len())
	}
	for _, p := range set.Participants() {
		if err := ValidateRules(p.Rules); err != nil {
			return invalidRulesError(p.ID, err)
		}
	}
	for _, p := range set.Participants() {
		for _, r := range p.Rules {
			if !set.Has(r.Target) {
				return danglingError(p.ID, r.Target)
			}
		}
	}
	return nil
}

func (g *Generator) strategy() Strategy {
	if g.options.Strategy == "" {
		return StrategyRetry
	}
	return g.options.Strategy
}

func (g *Generator) maxAttempts() int {
	if g.options.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return g.options.MaxAttempts
}

// retry runs up to maxAttempts randomized completions and returns the first
// one that pairs every giver.
func (g *Generator) retry(cands candidates) ([]int, error) {
	attempts := g.maxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if assignment, ok := g.attempt(cands.clone()); ok {
			g.logger.Debug("draw complete", "attempt", attempt)
			return assignment, nil
		}
		g.logger.Debug("attempt abandoned", "attempt", attempt)
	}
	return nil, exhaustedError(attempts)
}

// attempt pairs givers most-constrained-first. Ties are broken uniformly at
// random and each giver picks uniformly among its remaining candidates. The
// chosen receiver is removed from every other unpaired giver. It reports false
// as soon as an unpaired giver has no candidates left.
func (g *Generator) attempt(cands candidates) ([]int, bool) {
	n := len(cands)
	assignment := make([]int, n)
	paired := make([]bool, n)

	for step := 0; step < n; step++ {
		giver := g.mostConstrained(cands, paired)
		options := cands[giver]
		if len(options) == 0 {
			return nil, false
		}

		receiver := options[g.rng.Intn(len(options))]
		assignment[giver] = receiver
		paired[giver] = true

		for other := range cands {
			if !paired[other] {
				cands.remove(other, receiver)
			}
		}
	}
	return assignment, true
}

// mostConstrained returns the unpaired giver with the fewest candidates,
// choosing uniformly among ties.
func (g *Generator) mostConstrained(cands candidates, paired []bool) int {
	best, ties := -1, 0
	for giver, options := range cands {
		if paired[giver] {
			continue
		}
		switch {
		case best == -1 || len(options) < len(cands[best]):
			best, ties = giver, 1
		case len(options) == len(cands[best]):
			ties++
			if g.rng.Intn(ties) == 0 {
				best = giver
			}
		}
	}
	return best
}

// buildDraw turns a giver index to receiver index assignment into a Draw.
func buildDraw(set *ir.ParticipantSet, assignment []int) *ir.Draw {
	participants := set.Participants()
	pairings := make([]ir.Pairing, len(participants))
	for giver, receiver := range assignment {
		pairings[giver] = ir.Pairing{
			Giver:    participants[giver].Ref(),
			Receiver: participants[receiver].Ref(),
		}
	}
	return &ir.Draw{
		Fingerprint: ir.Fingerprint(set),
		Pairings:    pairings,
	}
}
