package ir

import "sort"

// ProgramClause is a universally quantified Horn implication:
//
//	forall<Binders> { Consequence :- Conditions }
//
// Binders counts the quantified variables; the consequence and conditions
// refer to them by de Bruijn index. Every free variable in the body must
// be bound by the quantifier (well-formedness invariant on producers).
//
// Equality is structural modulo bound-variable naming, which the de Bruijn
// representation gives for free; see Key.
type ProgramClause struct {
	Binders     int
	Consequence Goal
	Conditions  []Goal
}

// Fact builds an unquantified clause with no conditions.
func Fact(consequence Goal) ProgramClause {
	return ProgramClause{Consequence: consequence}
}

// Environment is the ordered sequence of hypotheses in scope at a goal
// site (e.g. the where-clauses of the enclosing function). Read-only to
// the clause layer; owned by the resolver per proof-search frame.
type Environment struct {
	Clauses []ProgramClause
}

// NewEnvironment builds an environment from hypothesis clauses in order.
func NewEnvironment(clauses ...ProgramClause) *Environment {
	return &Environment{Clauses: clauses}
}

// ClauseSet is a set of program clauses deduplicated by structural
// identity (canonical content hash). The closure engine's termination
// argument rests on this identity, so insertion must never distinguish
// two structurally equal clauses.
type ClauseSet struct {
	byKey map[ClauseKey]ProgramClause
}

// NewClauseSet creates an empty clause set.
func NewClauseSet() *ClauseSet {
	return &ClauseSet{byKey: make(map[ClauseKey]ProgramClause)}
}

// Insert adds the clause and reports whether it was newly added.
func (s *ClauseSet) Insert(c ProgramClause) bool {
	k := c.Key()
	if _, ok := s.byKey[k]; ok {
		return false
	}
	s.byKey[k] = c
	return true
}

// Contains reports whether a structurally equal clause is present.
func (s *ClauseSet) Contains(c ProgramClause) bool {
	_, ok := s.byKey[c.Key()]
	return ok
}

// Len returns the number of clauses in the set.
func (s *ClauseSet) Len() int {
	return len(s.byKey)
}

// Sorted returns the clauses ordered by canonical key. Callers must not
// attach semantics to the order; it exists only so listings and golden
// output are reproducible.
func (s *ClauseSet) Sorted() []ProgramClause {
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	out := make([]ProgramClause, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.byKey[ClauseKey(k)])
	}
	return out
}
