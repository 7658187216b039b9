package decl

import "github.com/slate-lang/slate/internal/ir"

// Database is the declaration store the clause layer consults. The store
// owns the declarations; the clause layer never mutates them.
//
// All lookups are total: the resolver only ever constructs identifiers
// from a validated program, so an unknown id is a programming error in
// the caller, and implementations panic on it rather than returning a
// "not found" state.
//
// Implementations must be safe for concurrent reads; the clause layer
// itself holds no cross-call state.
type Database interface {
	// TraitDatum fetches a trait declaration.
	TraitDatum(id ir.TraitID) *TraitDatum

	// StructDatum fetches a struct declaration.
	StructDatum(id ir.StructID) *StructDatum

	// AssociatedTyDatum fetches an associated-type declaration.
	AssociatedTyDatum(id ir.AssocTypeID) *AssociatedTyDatum

	// ImplProvidedFor reports whether an explicit impl — positive or
	// negative — of the trait exists for the struct. Either polarity
	// suppresses auto-trait synthesis: a negative impl is itself a
	// complete answer.
	ImplProvidedFor(trait ir.TraitID, str ir.StructID) bool

	// ImplsForTrait returns the impls of the trait in a stable order
	// (declaration order). Stability matters only for reproducible
	// output, never for semantics.
	ImplsForTrait(id ir.TraitID) []*ImplDatum
}
