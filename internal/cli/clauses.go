package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/slate-lang/slate/internal/compiler"
	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/harness"
	"github.com/slate-lang/slate/internal/ir"
	"github.com/slate-lang/slate/internal/store"
)

// ClausesOptions holds flags for the clauses command.
type ClausesOptions struct {
	*RootOptions
	Goal string // goal YAML file path
}

// ClausesResult is the clauses command's success payload.
type ClausesResult struct {
	Goal    string   `json:"goal"`
	Clauses []string `json:"clauses"`
}

// NewClausesCommand creates the clauses command.
func NewClausesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClausesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clauses <program-dir|snapshot.db>",
		Short: "List the program clauses that apply to a goal",
		Long: `List the program clauses that could prove a goal.

The program comes either from a CUE program directory or from a
snapshot database written by compile --db. The goal and optional
environment hypotheses come from a YAML file:

    goal:
      implemented: "MyList<u32>: Send"
    environment:
      - params: ["T"]
        trait: "MyList<T>: Clone"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClauses(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Goal, "goal", "g", "", "goal YAML file (required)")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func runClauses(opts *ClausesOptions, programPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	traceID := newTraceID()
	slog.Debug("loading program", "trace_id", traceID, "source", programPath)

	program, err := loadProgramSource(cmd, programPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	if errs := compiler.Validate(program); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	goalFile, err := harness.LoadGoalFile(opts.Goal)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGoalFailed, err.Error())
	}
	goal, err := goalFile.Goal.BuildGoal()
	if err != nil {
		return outputCommandError(formatter, ErrCodeGoalFailed, fmt.Sprintf("goal: %v", err))
	}
	env, err := harness.BuildEnvironment(goalFile.Environment)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGoalFailed, err.Error())
	}

	// The goal may name entities the program does not declare; that is a
	// goal/program mismatch, not a command error.
	var goalErrors []compiler.ValidationError
	goalErrors = append(goalErrors, compiler.ValidateGoal(program, goal)...)
	for _, hyp := range env.Clauses {
		goalErrors = append(goalErrors, compiler.ValidateClause(program, hyp)...)
	}
	if len(goalErrors) > 0 {
		return outputValidationErrors(formatter, goalErrors)
	}

	result := &ClausesResult{
		Goal:    ir.GoalString(goal),
		Clauses: harness.ListClauses(program, env, goal),
	}
	slog.Debug("collected clauses", "trace_id", traceID, "goal", result.Goal, "count", len(result.Clauses))

	return outputClauses(formatter, result, traceID)
}

// loadProgramSource loads a program from either a snapshot database or
// a CUE program directory, keyed on the path's extension.
func loadProgramSource(cmd *cobra.Command, path string) (*decl.Program, error) {
	if filepath.Ext(path) != ".db" {
		loadResult, loadErrors := LoadProgramDir(path)
		if loadResult == nil && len(loadErrors) > 0 {
			return nil, loadErrors[0]
		}
		return loadResult.Program, nil
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStoreFailed, Message: fmt.Sprintf("opening snapshot database: %v", err)}
	}
	defer st.Close()

	program, _, err := st.LoadProgram(cmd.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return nil, &LoadError{Code: ErrCodeStoreFailed, Message: fmt.Sprintf("no snapshot saved in %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeStoreFailed, Message: fmt.Sprintf("loading snapshot: %v", err)}
	}
	return program, nil
}

func outputClauses(formatter *OutputFormatter, result *ClausesResult, traceID string) error {
	if formatter.Format == "json" {
		return encodeResponse(formatter, CLIResponse{
			Status:  "ok",
			Data:    result,
			TraceID: traceID,
		})
	}

	fmt.Fprintf(formatter.Writer, "goal: %s\n", result.Goal)
	if len(result.Clauses) == 0 {
		fmt.Fprintln(formatter.Writer, "clauses: (none)")
		return nil
	}
	fmt.Fprintln(formatter.Writer, "clauses:")
	for _, c := range result.Clauses {
		fmt.Fprintf(formatter.Writer, "  %s\n", c)
	}
	return nil
}

// newTraceID mints a UUIDv7 correlation token for one invocation.
func newTraceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
