package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalTypeBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Type
		expected string
	}{
		{"bound var", BoundVar{Depth: 0}, `["var",0]`},
		{"inference var", InferenceVar{Index: 3}, `["infer",3]`},
		{"bare struct", NewApplied(StructID("Foo")), `["apply",["struct","Foo"],[]]`},
		{
			"applied struct",
			NewApplied(StructID("MyList"), BoundVar{Depth: 0}),
			`["apply",["struct","MyList"],[["var",0]]]`,
		},
		{
			"placeholder",
			NewApplied(Placeholder{Universe: 1, Index: 2}),
			`["apply",["placeholder",1,2],[]]`,
		},
		{
			"projection",
			Projection{AssocType: AssocTypeID("Item"), Args: []Type{BoundVar{Depth: 0}}},
			`["proj","Item",[["var",0]]]`,
		},
		{
			"forall",
			ForAll{Binders: 1, Ty: BoundVar{Depth: 0}},
			`["forall",1,["var",0]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(CanonicalType(tt.input)))
		})
	}
}

func TestCanonicalClauseDeterministic(t *testing.T) {
	clause := ProgramClause{
		Binders: 1,
		Consequence: Implemented{Ref: TraitRef{
			Trait: "Send",
			Args:  []Type{NewApplied(StructID("MyList"), BoundVar{Depth: 0})},
		}},
		Conditions: []Goal{
			Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{BoundVar{Depth: 0}}}},
		},
	}

	first := CanonicalClause(clause)
	second := CanonicalClause(clause)
	assert.Equal(t, string(first), string(second))
}

func TestClauseKeyStructuralEquality(t *testing.T) {
	mk := func() ProgramClause {
		return ProgramClause{
			Binders: 1,
			Consequence: Implemented{Ref: TraitRef{
				Trait: "Clone",
				Args:  []Type{NewApplied(StructID("Vec"), BoundVar{Depth: 0})},
			}},
			Conditions: []Goal{
				Implemented{Ref: TraitRef{Trait: "Clone", Args: []Type{BoundVar{Depth: 0}}}},
			},
		}
	}

	// Two independently allocated but structurally identical clauses
	// must share a key; the closure engine's dedup depends on it.
	assert.Equal(t, mk().Key(), mk().Key())
}

func TestClauseKeyDistinguishesStructure(t *testing.T) {
	base := Fact(Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("Foo"))}}})

	tests := []struct {
		name  string
		other ProgramClause
	}{
		{
			"different trait",
			Fact(Implemented{Ref: TraitRef{Trait: "Sync", Args: []Type{NewApplied(StructID("Foo"))}}}),
		},
		{
			"different self type",
			Fact(Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("Bar"))}}}),
		},
		{
			"different goal variant",
			Fact(FromEnvTrait{Ref: TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("Foo"))}}}),
		},
		{
			"extra condition",
			ProgramClause{
				Consequence: Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("Foo"))}}},
				Conditions:  []Goal{Compatible{}},
			},
		},
		{
			"extra binder",
			ProgramClause{
				Binders:     1,
				Consequence: Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("Foo"))}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base.Key(), tt.other.Key())
		})
	}
}

func TestCanonicalNFCNormalization(t *testing.T) {
	// U+00E9 vs e + U+0301: same name in different Unicode forms must
	// produce the same canonical bytes.
	composed := Fact(Implemented{Ref: TraitRef{Trait: "Caf\u00e9", Args: []Type{BoundVar{Depth: 0}}}})
	decomposed := Fact(Implemented{Ref: TraitRef{Trait: "Cafe\u0301", Args: []Type{BoundVar{Depth: 0}}}})

	assert.Equal(t, composed.Key(), decomposed.Key())
}

func TestClauseSetDedup(t *testing.T) {
	set := NewClauseSet()

	clause := Fact(Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("Foo"))}}})
	require.True(t, set.Insert(clause))
	require.False(t, set.Insert(clause), "second insert of a structurally equal clause must be a no-op")
	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Contains(clause))
}

func TestClauseSetSortedStable(t *testing.T) {
	a := Fact(Implemented{Ref: TraitRef{Trait: "A", Args: []Type{NewApplied(StructID("X"))}}})
	b := Fact(Implemented{Ref: TraitRef{Trait: "B", Args: []Type{NewApplied(StructID("Y"))}}})
	c := Fact(Implemented{Ref: TraitRef{Trait: "C", Args: []Type{NewApplied(StructID("Z"))}}})

	forward := NewClauseSet()
	for _, cl := range []ProgramClause{a, b, c} {
		forward.Insert(cl)
	}
	backward := NewClauseSet()
	for _, cl := range []ProgramClause{c, b, a} {
		backward.Insert(cl)
	}

	assert.Equal(t, forward.Sorted(), backward.Sorted(), "sorted listing must not depend on insertion order")
}
