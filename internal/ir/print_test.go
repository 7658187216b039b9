package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClauseString(t *testing.T) {
	clause := ProgramClause{
		Binders: 1,
		Consequence: Implemented{Ref: TraitRef{
			Trait: "Send",
			Args:  []Type{NewApplied(StructID("MyList"), BoundVar{Depth: 0})},
		}},
		Conditions: []Goal{
			Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{BoundVar{Depth: 0}}}},
			Implemented{Ref: TraitRef{Trait: "Send", Args: []Type{
				NewApplied(StructID("Box"), NewApplied(StructID("Option"), NewApplied(StructID("MyList"), BoundVar{Depth: 0}))),
			}}},
		},
	}

	assert.Equal(t,
		"forall<1> { Implemented(MyList<^0>: Send) :- Implemented(^0: Send), Implemented(Box<Option<MyList<^0>>>: Send) }",
		clause.String())
}

func TestGoalString(t *testing.T) {
	tests := []struct {
		name     string
		goal     Goal
		expected string
	}{
		{
			"implemented",
			Implemented{Ref: TraitRef{Trait: "Clone", Args: []Type{NewApplied(StructID("u32"))}}},
			"Implemented(u32: Clone)",
		},
		{
			"well-formed type",
			WellFormedType{Ty: NewApplied(StructID("Foo"))},
			"WellFormed(Foo)",
		},
		{
			"normalize",
			Normalize{
				Projection: Projection{AssocType: "Item", Args: []Type{BoundVar{Depth: 0}}},
				Ty:         NewApplied(StructID("u32")),
			},
			"Normalize((Item)<^0> -> u32)",
		},
		{
			"in scope",
			InScope{Kind: StructID("Foo")},
			"InScope(struct Foo)",
		},
		{
			"compatible",
			Compatible{},
			"Compatible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GoalString(tt.goal))
		})
	}
}
