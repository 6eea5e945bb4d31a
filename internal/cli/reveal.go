package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/santa/internal/store"
)

// RevealOptions holds flags for the reveal command.
type RevealOptions struct {
	*RootOptions
	Database string
}

// NewRevealCommand creates the reveal command.
func NewRevealCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RevealOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reveal <token>",
		Short: "Show a giver their receiver, once",
		Long: `Open a reveal token from a stored draw.

Each giver gets one token. The first reveal shows who they give to and the
receiver's hint; every later attempt with the same token is refused.

Example:
  santa reveal 01927b3e-7d2c-7c4e-9a51-6f0d2b8e4c11 --db santa.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReveal(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReveal(opts *RevealOptions, token string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer st.Close()

	revealed, err := st.Reveal(commandContext(cmd), token)
	switch {
	case errors.Is(err, store.ErrTokenNotFound):
		return formatter.Fail(ExitFailure, ErrCodeTokenNotFound, "unknown reveal token", nil)
	case errors.Is(err, store.ErrTokenUsed):
		return formatter.Fail(ExitFailure, ErrCodeTokenUsed, "this token was already used", nil)
	case err != nil:
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(revealed)
	}

	fmt.Fprintf(formatter.Writer, "%s, you are giving a gift to %s\n", revealed.Giver, revealed.Receiver)
	if revealed.Hint != "" {
		fmt.Fprintf(formatter.Writer, "Hint: %s\n", revealed.Hint)
	}
	return nil
}
