package clauses

import (
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// candidateClauses returns a superset of the clauses that could prove
// the goal, dispatching on the goal's syntactic shape. Over-approximate
// and sound: it may return irrelevant clauses but must never omit one
// that could apply. Candidates are pruned by the could-match prefilter
// before being returned; the pruning is a performance guard, not a
// correctness requirement.
func candidateClauses(db decl.Database, goal ir.Goal) []ir.ProgramClause {
	var candidates []ir.ProgramClause

	switch g := goal.(type) {
	case ir.Implemented:
		candidates = db.TraitDatum(g.Ref.Trait).ToProgramClauses(db)
	case ir.ProjectionEq:
		candidates = db.AssociatedTyDatum(g.Projection.AssocType).ToProgramClauses(db)
	case ir.WellFormedTrait:
		candidates = db.TraitDatum(g.Ref.Trait).ToProgramClauses(db)
	case ir.WellFormedType:
		candidates = matchType(db, goal, g.Ty)
	case ir.IsLocal:
		candidates = matchType(db, goal, g.Ty)
	case ir.IsUpstream:
		candidates = matchType(db, goal, g.Ty)
	case ir.IsFullyVisible:
		candidates = matchType(db, goal, g.Ty)
	case ir.DownstreamType:
		candidates = matchType(db, goal, g.Ty)
	case ir.FromEnvTrait, ir.FromEnvType:
		// Hypotheses come from the environment closure, never from here.
	case ir.Normalize:
		candidates = db.AssociatedTyDatum(g.Projection.AssocType).ToProgramClauses(db)
	case ir.UnselectedNormalize:
		candidates = matchType(db, goal, g.Ty)
	case ir.InScope:
		candidates = matchTypeKind(db, g.Kind)
	case ir.LocalImplAllowed:
		candidates = db.TraitDatum(g.Ref.Trait).ToProgramClauses(db)
	case ir.Compatible:
		// Defined-empty gap.
	default:
		panic(fmt.Sprintf("clauses: unknown goal variant %T", goal))
	}

	out := candidates[:0]
	for _, c := range candidates {
		if c.CouldMatch(goal) {
			out = append(out, c)
		}
	}
	return out
}
