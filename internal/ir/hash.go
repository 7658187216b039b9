package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future encoding migration without silent collisions.
const (
	DomainClause  = "slate/clause/v1"
	DomainGoal    = "slate/goal/v1"
	DomainProgram = "slate/program/v1"
)

// ClauseKey is the structural identity of a program clause. Two clauses
// have the same key exactly when they are syntactically identical modulo
// bound-variable naming.
type ClauseKey string

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Key computes the content-addressed identity of the clause.
func (c ProgramClause) Key() ClauseKey {
	return ClauseKey(hashWithDomain(DomainClause, CanonicalClause(c)))
}

// GoalKey computes the content-addressed identity of a goal. Used by the
// store and the CLI for memoization-friendly correlation, never for
// provability decisions.
func GoalKey(g Goal) string {
	return hashWithDomain(DomainGoal, CanonicalGoal(g))
}

// ProgramHash computes the identity of a whole program from the canonical
// encodings of its parts, in the order the caller supplies them. The store
// uses it to detect drift between a database and a recompiled program.
func ProgramHash(parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(DomainProgram))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
