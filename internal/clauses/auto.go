package clauses

import (
	"fmt"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

// PushAutoTraitImpls synthesizes the default impl clause for an auto
// trait and a struct, unless an explicit impl exists for the pair.
//
// An explicit impl of either polarity suppresses synthesis entirely: a
// positive impl supersedes the default, and a negative impl is itself a
// complete answer. Otherwise the struct's fields become the conditions:
//
//	forall<T> {
//	    Implemented(MyList<T>: Send) :-
//	        Implemented(T: Send),
//	        Implemented(Box<Option<MyList<T>>>: Send).
//	}
//
// A zero-field struct yields a clause with zero conditions — an
// unconditionally true implication, deliberately not special-cased.
//
// Returns the clause and true, or the zero clause and false when
// synthesis is suppressed. Typically invoked once per (auto trait,
// struct) pair during up-front indexing.
func PushAutoTraitImpls(
	autoTrait ir.TraitID,
	traitDatum *decl.TraitDatum,
	structID ir.StructID,
	structDatum *decl.StructDatum,
	db decl.Database,
) (ir.ProgramClause, bool) {
	// Corrupt-store checks, not user errors: the compiler guarantees
	// both properties for every auto trait it emits.
	if !traitDatum.Binders.Value.Flags.Auto {
		panic(fmt.Sprintf("clauses: trait %q passed to auto-impl synthesis is not auto", autoTrait))
	}
	if traitDatum.Binders.Len() != 1 {
		panic(fmt.Sprintf("clauses: auto trait %q must have exactly one parameter (Self), has %d",
			autoTrait, traitDatum.Binders.Len()))
	}

	if db.ImplProvidedFor(autoTrait, structID) {
		return ir.ProgramClause{}, false
	}

	bound := structDatum.Binders.Value
	conditions := make([]ir.Goal, len(bound.Fields))
	for i, field := range bound.Fields {
		conditions[i] = ir.Implemented{Ref: ir.TraitRef{
			Trait: autoTrait,
			Args:  []ir.Type{field},
		}}
	}

	return ir.ProgramClause{
		Binders: structDatum.Binders.Len(),
		Consequence: ir.Implemented{Ref: ir.TraitRef{
			Trait: autoTrait,
			Args:  []ir.Type{bound.SelfTy},
		}},
		Conditions: conditions,
	}, true
}
