package pairing

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// Strategy selects the search algorithm.
type Strategy string

const (
	// StrategyRetry runs bounded randomized most-constrained-first attempts.
	StrategyRetry Strategy = "retry"

	// StrategyMatching runs randomized augmenting-path matching. It finds a
	// draw whenever one exists.
	StrategyMatching Strategy = "matching"

	// StrategyHybrid runs StrategyRetry and falls back to StrategyMatching
	// when the retries run out.
	StrategyHybrid Strategy = "hybrid"
)

// Strategies lists the accepted strategy names.
var Strategies = []Strategy{StrategyRetry, StrategyMatching, StrategyHybrid}

// ParseStrategy converts a flag value to a Strategy. Empty means StrategyRetry.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyRetry, nil
	}
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q: must be one of %v", s, Strategies)
}

// DefaultMaxAttempts bounds the retry strategy.
// It caps worst-case latency; it is not a proof that no solution exists.
const DefaultMaxAttempts = 50

// Options configures a Generator.
type Options struct {
	Seed        int64      // Seed for reproducible draws (0 = time based)
	Rand        *rand.Rand // Overrides Seed when set
	MaxAttempts int        // Retry bound (0 = DefaultMaxAttempts)
	Strategy    Strategy   // Search algorithm ("" = StrategyRetry)
	// Logger receives debug output about attempts. nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the standard generator options.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts: DefaultMaxAttempts,
		Strategy:    StrategyRetry,
	}
}
