// Package clauses computes the program clauses relevant to proving a
// goal. It is the clause-generation layer of the Slate trait engine: the
// resolver hands it a goal and the local hypothesis environment, and it
// hands back the minimal-but-sound clause set worth considering. It
// decides relevance, never provability.
//
// ARCHITECTURE:
//
// Goal-driven collection:
// ForGoal dispatches on the goal's syntactic shape to pick candidate
// declarations (collect.go), pulls their clauses through the type-shape
// dispatcher (match.go), and prunes candidates whose consequence cannot
// structurally match the goal.
//
// Environment closure:
// Hypotheses mention types whose governing clauses are not themselves
// hypotheses. env.go discovers them by walking every clause's types and
// saturating breadth-first to a fixed point, deduplicating by structural
// clause identity. Termination rests on two facts: the declaration store
// is finite, and every datum's clause set is a deterministic function of
// the store — no per-visit fresh clauses, ever.
//
// DELIBERATE GAPS (defined-empty, not failures):
// UnselectedProjection types and FromEnv/Compatible goals contribute no
// clauses. Emitting nothing can only under-power the resolver, never
// make it unsound.
//
// FATAL INVARIANTS:
// A non-auto trait or a mis-aritied auto trait reaching the auto-impl
// synthesizer means the declaration store is corrupt; that panics
// rather than degrading.
package clauses
