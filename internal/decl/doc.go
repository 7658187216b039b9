// Package decl defines the declaration entities of a Slate program —
// traits, structs, impls, and associated types — together with the
// Database interface through which the clause layer consults them, and
// the translation from each declaration to its own program clauses.
//
// Entities are immutable once constructed. Each carries a Binders
// wrapper quantifying the entity's own generic parameters; the payload
// refers to those parameters by de Bruijn index.
//
// Determinism contract: ToProgramClauses on any datum is a pure function
// of the datum and the database contents. It must never synthesize
// per-call-distinct clauses (fresh identifiers, counters); the closure
// engine's termination proof depends on clause shape being stable per
// entity.
package decl
