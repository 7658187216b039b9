// Package ir defines the quantified clause model for Slate.
//
// This package contains the shared vocabulary every other internal package
// operates on: types, goals, trait references, program clauses, and
// environments. All other internal packages import ir; ir imports nothing
// internal. This keeps the clause model the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - Type, Goal, TypeName, and TypeKindID are sealed sum types. Adding a
//     variant forces every dispatch site to be revisited (exhaustive type
//     switches with a panic default). This is deliberate: a silently
//     dropped goal or type shape is a soundness bug, not a degraded mode.
//   - Bound variables use de Bruijn indices, so structural equality is
//     automatically modulo bound-variable naming.
//   - Clause identity is content-addressed: a domain-separated SHA-256 over
//     the canonical encoding (see canonical.go, hash.go). Closure
//     termination in the engine depends on this identity being structural.
package ir
