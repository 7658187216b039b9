package clauses

import (
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// clausesForEnvironment computes the closure of clauses needed to make
// sense of the types mentioned in the environment's hypotheses.
//
// Breadth-first fixed point: each round walks the previous round's
// newly discovered clauses and keeps only what the closure has not seen.
// The reachable clause space is finite (finite store, deterministic
// clause set per datum), so the frontier must eventually come up empty.
// Recursive type definitions are exactly why the dedup is load-bearing:
// MyList's clauses mention MyList again, and without structural identity
// the walk would regress forever.
func clausesForEnvironment(db decl.Database, env *ir.Environment) *ir.ClauseSet {
	frontier := ir.NewClauseSet()
	for _, hypothesis := range env.Clauses {
		for _, found := range discover(db, hypothesis).Sorted() {
			frontier.Insert(found)
		}
	}

	closure := ir.NewClauseSet()
	for _, c := range frontier.Sorted() {
		closure.Insert(c)
	}

	for frontier.Len() > 0 {
		round := ir.NewClauseSet()
		for _, c := range frontier.Sorted() {
			for _, found := range discover(db, c).Sorted() {
				round.Insert(found)
			}
		}

		// Next frontier is exactly what this round added to the closure.
		frontier = ir.NewClauseSet()
		for _, c := range round.Sorted() {
			if closure.Insert(c) {
				frontier.Insert(c)
			}
		}
	}

	return closure
}

// discover returns the clauses implied by one clause's structure: every
// type mentioned anywhere in its consequence or conditions contributes
// its declaration clauses. Pure — callers own the set union across
// rounds, so no accumulator aliases across recursive calls.
func discover(db decl.Database, clause ir.ProgramClause) *ir.ClauseSet {
	found := ir.NewClauseSet()
	discoverGoal(db, clause.Consequence, found)
	for _, cond := range clause.Conditions {
		discoverGoal(db, cond, found)
	}
	return found
}

func discoverGoal(db decl.Database, goal ir.Goal, found *ir.ClauseSet) {
	switch g := goal.(type) {
	case ir.Implemented:
		discoverTraitRef(db, g.Ref, found)
	case ir.ProjectionEq:
		discoverType(db, g.Projection, found)
		discoverType(db, g.Ty, found)
	case ir.WellFormedTrait:
		discoverTraitRef(db, g.Ref, found)
	case ir.WellFormedType:
		discoverType(db, g.Ty, found)
	case ir.IsLocal:
		discoverType(db, g.Ty, found)
	case ir.IsUpstream:
		discoverType(db, g.Ty, found)
	case ir.IsFullyVisible:
		discoverType(db, g.Ty, found)
	case ir.DownstreamType:
		discoverType(db, g.Ty, found)
	case ir.FromEnvTrait:
		discoverTraitRef(db, g.Ref, found)
	case ir.FromEnvType:
		discoverType(db, g.Ty, found)
	case ir.Normalize:
		discoverType(db, g.Projection, found)
		discoverType(db, g.Ty, found)
	case ir.UnselectedNormalize:
		discoverType(db, g.Ty, found)
		discoverType(db, g.Projection, found)
	case ir.InScope:
		insertAll(found, matchTypeKind(db, g.Kind))
	case ir.LocalImplAllowed:
		discoverTraitRef(db, g.Ref, found)
	case ir.Compatible:
		// Nothing to walk.
	default:
		panic(fmt.Sprintf("clauses: unknown goal variant %T", goal))
	}
}

func discoverTraitRef(db decl.Database, ref ir.TraitRef, found *ir.ClauseSet) {
	insertAll(found, db.TraitDatum(ref.Trait).ToProgramClauses(db))
	for _, arg := range ref.Args {
		discoverType(db, arg, found)
	}
}

// discoverType dispatches the type itself through the shape dispatcher,
// then walks its argument types. Nested constructors surface here
// (e.g. Box and Option inside Box<Option<MyList<T>>>).
func discoverType(db decl.Database, ty ir.Type, found *ir.ClauseSet) {
	insertAll(found, matchTypeStructure(db, ty))

	switch t := ty.(type) {
	case ir.Applied:
		for _, arg := range t.Args {
			discoverType(db, arg, found)
		}
	case ir.Projection:
		for _, arg := range t.Args {
			discoverType(db, arg, found)
		}
	case ir.UnselectedProjection:
		for _, arg := range t.Args {
			discoverType(db, arg, found)
		}
	case ir.ForAll:
		discoverType(db, t.Ty, found)
	case ir.BoundVar, ir.InferenceVar:
		// Leaves.
	default:
		panic(fmt.Sprintf("clauses: unknown type variant %T", ty))
	}
}

func insertAll(set *ir.ClauseSet, clauses []ir.ProgramClause) {
	for _, c := range clauses {
		set.Insert(c)
	}
}
