package decl

import (
	"slices"

	"github.com/slate-lang/slate/internal/ir"
)

// ClauseProducer is the capability the clause layer depends on: every
// declaration entity can translate itself into its own program clauses.
type ClauseProducer interface {
	ToProgramClauses(db Database) []ir.ProgramClause
}

// ToProgramClauses translates an impl into its implication clause:
//
//	forall<impl params> { Implemented(trait_ref) :- where-clauses }
//
// Negative impls contribute no positive clause; their effect is limited
// to suppressing auto-trait synthesis.
func (d *ImplDatum) ToProgramClauses(Database) []ir.ProgramClause {
	bound := d.Binders.Value
	if bound.Polarity == Negative {
		return nil
	}
	return []ir.ProgramClause{{
		Binders:     d.Binders.Len(),
		Consequence: ir.Implemented{Ref: bound.TraitRef},
		Conditions:  slices.Clone(bound.WhereClauses),
	}}
}

// ToProgramClauses translates a trait declaration into:
//   - one implication clause per positive impl of the trait,
//   - the well-formedness clause
//     WellFormed(Self: Trait) :- Implemented(Self: Trait), where-clauses.
//
// A fuller translation (environment elaboration, flag-conditional
// rules) is deliberately out of scope; this is the minimal set the
// clause layer's contract assumes.
func (d *TraitDatum) ToProgramClauses(db Database) []ir.ProgramClause {
	bound := d.Binders.Value

	var out []ir.ProgramClause
	for _, impl := range db.ImplsForTrait(d.ID()) {
		out = append(out, impl.ToProgramClauses(db)...)
	}

	wfConditions := append(
		[]ir.Goal{ir.Implemented{Ref: bound.TraitRef}},
		bound.WhereClauses...,
	)
	out = append(out, ir.ProgramClause{
		Binders:     d.Binders.Len(),
		Consequence: ir.WellFormedTrait{Ref: bound.TraitRef},
		Conditions:  wfConditions,
	})

	return out
}

// ToProgramClauses translates a struct declaration into its
// well-formedness clause and a locality clause:
//
//	forall<params> { WellFormed(Struct<..>) :- where-clauses, WellFormed(field)... }
//	forall<params> { IsLocal(Struct<..>) }     (local structs)
//	forall<params> { IsUpstream(Struct<..>) }  (upstream structs)
//
// The per-field conditions are what lets the environment closure walk
// from a struct to the types its fields mention.
func (d *StructDatum) ToProgramClauses(Database) []ir.ProgramClause {
	bound := d.Binders.Value

	conditions := slices.Clone(bound.WhereClauses)
	for _, field := range bound.Fields {
		conditions = append(conditions, ir.WellFormedType{Ty: field})
	}
	out := []ir.ProgramClause{{
		Binders:     d.Binders.Len(),
		Consequence: ir.WellFormedType{Ty: bound.SelfTy},
		Conditions:  conditions,
	}}

	locality := ir.Goal(ir.IsLocal{Ty: bound.SelfTy})
	if bound.Flags.Upstream {
		locality = ir.IsUpstream{Ty: bound.SelfTy}
	}
	out = append(out, ir.ProgramClause{
		Binders:     d.Binders.Len(),
		Consequence: locality,
	})

	return out
}

// ToProgramClauses translates an associated-type declaration into:
//   - one normalization clause per positive impl of the owning trait
//     that provides a value for it:
//     forall<impl params> { Normalize(Proj<impl args> -> value) :- where-clauses }
//   - the projection fallback over the datum's parameters extended by one
//     variable for the right-hand side:
//     forall<params, T> { ProjectionEq(Proj<params> = T) :- Normalize(Proj<params> -> T) }
func (d *AssociatedTyDatum) ToProgramClauses(db Database) []ir.ProgramClause {
	var out []ir.ProgramClause

	for _, impl := range db.ImplsForTrait(d.Trait) {
		bound := impl.Binders.Value
		if bound.Polarity == Negative {
			continue
		}
		for _, value := range bound.AssociatedTyValues {
			if value.AssocType != d.ID {
				continue
			}
			proj := ir.Projection{AssocType: d.ID, Args: slices.Clone(bound.TraitRef.Args)}
			out = append(out, ir.ProgramClause{
				Binders:     impl.Binders.Len(),
				Consequence: ir.Normalize{Projection: proj, Ty: value.Value},
				Conditions:  slices.Clone(bound.WhereClauses),
			})
		}
	}

	// Fallback: bound vars 0..len(Params)-1 are the trait parameters,
	// the last variable is the equated type.
	n := len(d.Params)
	args := make([]ir.Type, n)
	for i := range args {
		args[i] = ir.BoundVar{Depth: i}
	}
	proj := ir.Projection{AssocType: d.ID, Args: args}
	rhs := ir.BoundVar{Depth: n}
	out = append(out, ir.ProgramClause{
		Binders:     n + 1,
		Consequence: ir.ProjectionEq{Projection: proj, Ty: rhs},
		Conditions:  []ir.Goal{ir.Normalize{Projection: proj, Ty: rhs}},
	})

	return out
}
