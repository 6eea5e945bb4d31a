package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/santa/internal/export"
	"github.com/roach88/santa/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Output   string
	Tokens   bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <roster>",
		Short: "Export the latest stored draw as tab-separated values",
		Long: `Export the latest stored draw of a roster.

By default writes one Giver/Receiver row per pairing. With --tokens writes
one Giver/Token row per giver instead, for handing out reveal tokens without
showing anyone's receiver. Names are taken from the current roster, so
renames made after the draw show up in the export.

Example:
  santa export family.yaml --db santa.db
  santa export family.yaml --db santa.db --tokens -o tokens.tsv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.Tokens, "tokens", false, "export reveal tokens instead of pairings")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
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

	latest, err := st.LatestDraw(ctx, roster.Name)
	if errors.Is(err, store.ErrNoDraw) {
		return formatter.Fail(ExitFailure, ErrCodeNoDraw, fmt.Sprintf("no draw stored for %s", roster.Name), nil)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
	}
	if latest.Fingerprint != rosterFingerprint(roster) {
		formatter.Warn("draw #%d of %s is stale: the rules changed after it was drawn", latest.Seq, roster.Name)
	}

	names := export.CurrentNames(roster.Set)
	var write func(io.Writer) error
	if opts.Tokens {
		assignments, err := st.ReadAssignments(ctx, latest.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
		write = func(w io.Writer) error {
			return export.WriteTokens(w, assignments, names)
		}
	} else {
		draw, err := st.LoadDraw(ctx, latest.ID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), nil)
		}
		write = func(w io.Writer) error {
			return export.WriteCSV(w, draw, names)
		}
	}

	if err := writeOutput(opts.Output, cmd.OutOrStdout(), write); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}

	formatter.VerboseLog("Exported draw #%d of %s", latest.Seq, roster.Name)
	return nil
}

// writeOutput runs write against the file at path, or against stdout when
// path is empty. The file's close error is reported.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
