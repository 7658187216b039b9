package clauses

import (
	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// ForGoal figures out the program clauses that apply to the goal under
// the given environment. For a goal like Implemented(T: Clone) this
// pulls clauses derived from the Clone trait and its impls, merges in
// the environment closure, and prunes everything whose consequence
// cannot structurally match the goal.
//
// The result is a set: deduplicated by structural identity, returned in
// canonical-key order. Callers must not attach semantics to the order.
func ForGoal(db decl.Database, env *ir.Environment, goal ir.Goal) []ir.ProgramClause {
	merged := ir.NewClauseSet()

	for _, c := range candidateClauses(db, goal) {
		merged.Insert(c)
	}

	// Closure clauses were discovered independently of the goal's shape,
	// so they meet the could-match filter only here.
	for _, c := range clausesForEnvironment(db, env).Sorted() {
		merged.Insert(c)
	}

	out := make([]ir.ProgramClause, 0, merged.Len())
	for _, c := range merged.Sorted() {
		if c.CouldMatch(goal) {
			out = append(out, c)
		}
	}
	return out
}
