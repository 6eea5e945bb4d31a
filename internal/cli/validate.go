package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/santa/internal/compiler"
	"github.com/roach88/santa/internal/pairing"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                       `json:"valid"`
	Roster       string                     `json:"roster,omitempty"`
	Participants int                        `json:"participants,omitempty"`
	Feasible     bool                       `json:"feasible"`
	Errors       []compiler.ValidationError `json:"errors,omitempty"`
	Warnings     []compiler.RuleWarning     `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <roster>",
		Short: "Check a roster without drawing",
		Long: `Check a roster file for mistakes without drawing.

Reports every per-participant problem (empty or duplicate names, rules that
name unknown people, more than one MUST, MUST and MUST NOT on the same
person), then looks at the roster as a whole: givers forced onto the same
receiver, givers excluded from everyone, and closed MUST cycles. Finally it
runs an exact search to tell whether any draw satisfies the rules.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	roster, err := loadRosterOrFail(formatter, path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d participant(s) from %s", roster.Set.Len(), path)

	result := ValidationResult{
		Valid:        true,
		Roster:       roster.Name,
		Participants: roster.Set.Len(),
		Warnings:     compiler.AnalyzeRules(roster.Set),
	}

	// Matching finds a draw whenever one exists, so a failure here is a proof.
	gen := pairing.New(&pairing.Options{
		Seed:     1,
		Strategy: pairing.StrategyMatching,
		Logger:   newLogger(opts, cmd),
	})
	if _, err := gen.Generate(roster.Set); err == nil {
		result.Feasible = true
	} else if !errors.Is(err, pairing.ErrInfeasible) {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Roster %s valid (%d participants)\n", result.Roster, result.Participants)
	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", w.Level, w.Message)
	}
	switch {
	case result.Feasible:
		fmt.Fprintln(formatter.Writer, "✓ A draw exists")
	case result.Participants < 2:
		fmt.Fprintln(formatter.Writer, "✗ No draw: at least two participants are required")
	default:
		fmt.Fprintln(formatter.Writer, "✗ No draw satisfies these rules")
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors and returns
// an ExitFailure error.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.IsJSON() {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return exitErr
}
