package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slate-lang/slate/internal/compiler"
	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output   string // clause listing output file path
	Database string // snapshot database path
}

// CompilationResult holds the compile command's success payload.
type CompilationResult struct {
	Traits      int             `json:"traits"`
	Structs     int             `json:"structs"`
	AssocTypes  int             `json:"assoc_types"`
	Impls       int             `json:"impls"`
	ClauseCount int             `json:"clause_count"`
	Snapshot    *store.Snapshot `json:"snapshot,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <program-dir>",
		Short: "Compile a CUE program definition",
		Long: `Compile a CUE program definition into declaration data and the
program clauses derived from it.

With --db the compiled program is saved as a content-addressed snapshot
that other commands can load instead of recompiling. With --output the
full clause listing is written to a file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the full clause listing to a file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save the compiled program as a snapshot database")

	return cmd
}

func runCompile(opts *CompileOptions, programDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadProgramDir(programDir)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, programDir)

	program := loadResult.Program
	if errs := compiler.Validate(program); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	listing := programClauseListing(program)
	result := &CompilationResult{
		Traits:      len(program.Traits()),
		Structs:     len(program.Structs()),
		AssocTypes:  len(program.AssociatedTys()),
		Impls:       len(program.Impls()),
		ClauseCount: len(listing),
	}

	if opts.Database != "" {
		snapshot, err := saveSnapshot(cmd, opts.Database, program)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStoreFailed, fmt.Sprintf("saving snapshot: %v", err))
		}
		result.Snapshot = &snapshot
		formatter.VerboseLog("Saved snapshot %s", snapshot.Token)
	}

	if opts.Output != "" {
		data := strings.Join(listing, "\n") + "\n"
		if err := os.WriteFile(opts.Output, []byte(data), 0o644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func saveSnapshot(cmd *cobra.Command, path string, program *decl.Program) (store.Snapshot, error) {
	st, err := store.Open(path)
	if err != nil {
		return store.Snapshot{}, err
	}
	defer st.Close()
	return st.SaveProgram(cmd.Context(), program)
}

// programClauseListing renders every clause the program's declarations
// produce, lexically sorted.
func programClauseListing(program *decl.Program) []string {
	var out []string
	for _, d := range program.Traits() {
		for _, c := range d.ToProgramClauses(program) {
			out = append(out, c.String())
		}
	}
	for _, d := range program.Structs() {
		for _, c := range d.ToProgramClauses(program) {
			out = append(out, c.String())
		}
	}
	for _, d := range program.AssociatedTys() {
		for _, c := range d.ToProgramClauses(program) {
			out = append(out, c.String())
		}
	}
	sort.Strings(out)
	return out
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d trait(s), %d struct(s), %d impl(s); %d clause(s)\n",
		result.Traits, result.Structs, result.Impls, result.ClauseCount)

	if result.Snapshot != nil {
		fmt.Fprintf(formatter.Writer, "Saved snapshot %s (program %s)\n",
			result.Snapshot.Token, shortHash(result.Snapshot.ProgramHash))
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote clause listing to %s\n", outputFile)
	}

	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// outputCommandError outputs a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
