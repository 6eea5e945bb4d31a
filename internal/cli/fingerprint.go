package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// FingerprintResult is the JSON payload of the fingerprint command.
type FingerprintResult struct {
	Roster       string `json:"roster"`
	Participants int    `json:"participants"`
	Fingerprint  string `json:"fingerprint"`
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <roster>",
		Short: "Print the rule fingerprint of a roster",
		Long: `Print the fingerprint of a roster's rules.

The fingerprint only depends on the rule structure: renaming people or
changing hints keeps it, adding, removing or reordering people or rules
changes it. A stored draw whose fingerprint differs from the roster's is
stale and should be drawn again.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runFingerprint(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	roster, err := loadRosterOrFail(formatter, path)
	if err != nil {
		return err
	}

	result := FingerprintResult{
		Roster:       roster.Name,
		Participants: roster.Set.Len(),
		Fingerprint:  rosterFingerprint(roster),
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, result.Fingerprint)
	return nil
}
