package clauses

import (
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// matchType returns the clauses governing a type's shape, for a goal
// that mentions the type.
//
// Placeholders get special treatment: a placeholder is assumed
// well-formed and satisfying by fiat at its binding site, so the goal
// itself becomes a trivially true clause — the resolver can discharge
// goals about it without knowing its internal structure.
func matchType(db decl.Database, goal ir.Goal, ty ir.Type) []ir.ProgramClause {
	switch t := ty.(type) {
	case ir.Applied:
		switch name := t.Name.(type) {
		case ir.TraitID:
			return matchTypeKind(db, name)
		case ir.StructID:
			return matchTypeKind(db, name)
		case ir.AssocTypeID:
			return matchTypeKind(db, name)
		case ir.Placeholder:
			return []ir.ProgramClause{ir.Fact(goal)}
		default:
			panic(fmt.Sprintf("clauses: unknown type name variant %T", t.Name))
		}
	case ir.Projection:
		return db.AssociatedTyDatum(t.AssocType).ToProgramClauses(db)
	case ir.UnselectedProjection:
		// Trait not yet selected; deferred to the resolver.
		return nil
	case ir.ForAll:
		// The quantifier carries no clause obligation of its own.
		return matchType(db, goal, t.Ty)
	case ir.BoundVar, ir.InferenceVar:
		// No declared shape to consult.
		return nil
	default:
		panic(fmt.Sprintf("clauses: unknown type variant %T", ty))
	}
}

// matchTypeStructure is matchType for contexts with no enclosing goal
// (the environment walk). Identical dispatch, except placeholders yield
// nothing: the trivially-true clause only makes sense relative to a
// specific goal.
func matchTypeStructure(db decl.Database, ty ir.Type) []ir.ProgramClause {
	switch t := ty.(type) {
	case ir.Applied:
		switch name := t.Name.(type) {
		case ir.TraitID:
			return matchTypeKind(db, name)
		case ir.StructID:
			return matchTypeKind(db, name)
		case ir.AssocTypeID:
			return matchTypeKind(db, name)
		case ir.Placeholder:
			return nil
		default:
			panic(fmt.Sprintf("clauses: unknown type name variant %T", t.Name))
		}
	case ir.Projection:
		return db.AssociatedTyDatum(t.AssocType).ToProgramClauses(db)
	case ir.UnselectedProjection:
		return nil
	case ir.ForAll:
		return matchTypeStructure(db, t.Ty)
	case ir.BoundVar, ir.InferenceVar:
		return nil
	default:
		panic(fmt.Sprintf("clauses: unknown type variant %T", ty))
	}
}

// matchTypeKind returns the declaration clauses of the named entity.
func matchTypeKind(db decl.Database, kind ir.TypeKindID) []ir.ProgramClause {
	switch id := kind.(type) {
	case ir.TraitID:
		return db.TraitDatum(id).ToProgramClauses(db)
	case ir.StructID:
		return db.StructDatum(id).ToProgramClauses(db)
	case ir.AssocTypeID:
		return db.AssociatedTyDatum(id).ToProgramClauses(db)
	default:
		panic(fmt.Sprintf("clauses: unknown type kind variant %T", kind))
	}
}
