// Package harness runs clause-listing conformance scenarios.
//
// A scenario names a CUE program definition, a goal, and an optional
// environment. Running it compiles the program, collects the clauses
// that apply to the goal, and renders a deterministic listing that is
// compared against a golden file. The harness stands in for the
// resolver: besides the goal-driven collection it also indexes
// synthesized auto-trait impls for the goal's (trait, struct) pair,
// the way a resolver would during up-front indexing.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/slate-lang/slate/internal/clauses"
	"github.com/slate-lang/slate/internal/compiler"
	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// Result holds the clause listing for a scenario run. Clauses are
// rendered and sorted lexically so the listing is stable across runs.
type Result struct {
	ScenarioName string
	Goal         string
	Clauses      []string
}

// Run executes a scenario: compile and validate the program, build the
// goal and environment, collect the applicable clauses, and index
// auto-trait impls for the goal when it asks about an auto trait.
func Run(scenario *Scenario) (*Result, error) {
	program, err := compileProgramFile(scenario.Program)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", scenario.Program, err)
	}

	goal, err := scenario.Goal.BuildGoal()
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	env, err := BuildEnvironment(scenario.Environment)
	if err != nil {
		return nil, err
	}

	if errs := compiler.ValidateGoal(program, goal); len(errs) > 0 {
		return nil, fmt.Errorf("goal: %s", errs[0].Error())
	}
	for i, hyp := range env.Clauses {
		if errs := compiler.ValidateClause(program, hyp); len(errs) > 0 {
			return nil, fmt.Errorf("environment[%d]: %s", i, errs[0].Error())
		}
	}

	return &Result{
		ScenarioName: scenario.Name,
		Goal:         ir.GoalString(goal),
		Clauses:      ListClauses(program, env, goal),
	}, nil
}

// ListClauses collects the clauses applicable to the goal, including
// synthesized auto-trait impls, and renders them as a lexically sorted
// listing.
func ListClauses(program *decl.Program, env *ir.Environment, goal ir.Goal) []string {
	set := ir.NewClauseSet()
	for _, c := range clauses.ForGoal(program, env, goal) {
		set.Insert(c)
	}
	for _, c := range autoImplsForGoal(program, goal) {
		set.Insert(c)
	}

	rendered := make([]string, 0, set.Len())
	for _, c := range set.Sorted() {
		rendered = append(rendered, c.String())
	}
	sort.Strings(rendered)
	return rendered
}

// autoImplsForGoal synthesizes the default impl clause when the goal
// asks whether a struct implements an auto trait. This mirrors the
// resolver's indexing step; the synthesized clause joins the listing
// only if it could match the goal.
func autoImplsForGoal(program *decl.Program, goal ir.Goal) []ir.ProgramClause {
	impl, ok := goal.(ir.Implemented)
	if !ok || !program.HasTrait(impl.Ref.Trait) {
		return nil
	}
	traitDatum := program.TraitDatum(impl.Ref.Trait)
	if !traitDatum.Binders.Value.Flags.Auto || len(impl.Ref.Args) != 1 {
		return nil
	}
	self, ok := impl.Ref.Args[0].(ir.Applied)
	if !ok {
		return nil
	}
	structID, ok := self.Name.(ir.StructID)
	if !ok || !program.HasStruct(structID) {
		return nil
	}

	clause, ok := clauses.PushAutoTraitImpls(
		impl.Ref.Trait, traitDatum, structID, program.StructDatum(structID), program)
	if !ok || !clause.CouldMatch(goal) {
		return nil
	}
	return []ir.ProgramClause{clause}
}

// Render produces the golden-file listing for the result.
func (r *Result) Render() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "scenario: %s\n", r.ScenarioName)
	fmt.Fprintf(&b, "goal: %s\n", r.Goal)
	if len(r.Clauses) == 0 {
		b.WriteString("clauses: (none)\n")
		return b.Bytes()
	}
	b.WriteString("clauses:\n")
	for _, c := range r.Clauses {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	return b.Bytes()
}

// compileProgramFile compiles a CUE file's "program" field into a
// declaration program and validates it.
func compileProgramFile(path string) (*decl.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}

	programValue := value.LookupPath(cue.ParsePath("program"))
	if !programValue.Exists() {
		return nil, fmt.Errorf("no program field found")
	}

	program, err := compiler.CompileProgram(programValue)
	if err != nil {
		return nil, err
	}
	if errs := compiler.Validate(program); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("program failed validation:\n%s", strings.Join(msgs, "\n"))
	}
	return program, nil
}
