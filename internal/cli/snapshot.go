package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slate-lang/slate/internal/store"
)

// SnapshotResult is the snapshot command's success payload.
type SnapshotResult struct {
	Token       string `json:"token"`
	ProgramHash string `json:"program_hash"`
	Traits      int    `json:"traits"`
	Structs     int    `json:"structs"`
	AssocTypes  int    `json:"assoc_types"`
	Impls       int    `json:"impls"`
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <snapshot.db>",
		Short: "Show the latest program snapshot in a database",
		Long: `Show the latest snapshot saved by compile --db.

Loading verifies every row's content hash and the whole-program hash,
so a clean exit also means the stored program is intact.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSnapshot(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("opening snapshot database: %v", err))
	}
	defer st.Close()

	program, snapshot, err := st.LoadProgram(cmd.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("no snapshot saved in %s", path), nil)
			return NewExitError(ExitFailure, "no snapshot saved")
		}
		// Hash mismatches land here: the database is readable but the
		// stored program does not verify.
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("loading snapshot: %v", err), nil)
		return NewExitError(ExitFailure, "snapshot failed verification")
	}

	result := &SnapshotResult{
		Token:       snapshot.Token,
		ProgramHash: snapshot.ProgramHash,
		Traits:      len(program.Traits()),
		Structs:     len(program.Structs()),
		AssocTypes:  len(program.AssociatedTys()),
		Impls:       len(program.Impls()),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "snapshot %s\n", result.Token)
	fmt.Fprintf(formatter.Writer, "program  %s\n", result.ProgramHash)
	fmt.Fprintf(formatter.Writer, "%d trait(s), %d struct(s), %d assoc type(s), %d impl(s)\n",
		result.Traits, result.Structs, result.AssocTypes, result.Impls)
	return nil
}
