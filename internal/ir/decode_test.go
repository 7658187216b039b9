package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClauseRoundTrip(t *testing.T) {
	clause := ProgramClause{
		Binders: 2,
		Consequence: Implemented{Ref: TraitRef{Trait: "Clone", Args: []Type{
			NewApplied(StructID("Pair"), BoundVar{Depth: 0}, BoundVar{Depth: 1}),
		}}},
		Conditions: []Goal{
			Implemented{Ref: TraitRef{Trait: "Clone", Args: []Type{BoundVar{Depth: 0}}}},
			Normalize{
				Projection: Projection{AssocType: "Iterator::Item", Args: []Type{BoundVar{Depth: 1}}},
				Ty:         NewApplied(StructID("u32")),
			},
		},
	}

	parsed, err := ParseClause(CanonicalClause(clause))
	require.NoError(t, err)
	assert.Equal(t, clause.Key(), parsed.Key())
	assert.Equal(t, clause, parsed)
}

func TestParseGoalCoversEveryVariant(t *testing.T) {
	ref := TraitRef{Trait: "Send", Args: []Type{NewApplied(StructID("u32"))}}
	proj := Projection{AssocType: "Iterator::Item", Args: []Type{InferenceVar{Index: 0}}}

	goals := []Goal{
		Implemented{Ref: ref},
		ProjectionEq{Projection: proj, Ty: BoundVar{Depth: 0}},
		WellFormedTrait{Ref: ref},
		WellFormedType{Ty: NewApplied(Placeholder{Universe: 1, Index: 2})},
		IsLocal{Ty: NewApplied(StructID("u32"))},
		IsUpstream{Ty: NewApplied(StructID("u32"))},
		IsFullyVisible{Ty: NewApplied(StructID("u32"))},
		DownstreamType{Ty: NewApplied(StructID("u32"))},
		FromEnvTrait{Ref: ref},
		FromEnvType{Ty: ForAll{Binders: 1, Ty: BoundVar{Depth: 0}}},
		Normalize{Projection: proj, Ty: NewApplied(StructID("u32"))},
		UnselectedNormalize{
			Ty:         NewApplied(StructID("u32")),
			Projection: UnselectedProjection{Name: "Item", Args: []Type{NewApplied(StructID("u32"))}},
		},
		InScope{Kind: AssocTypeID("Iterator::Item")},
		LocalImplAllowed{Ref: ref},
		Compatible{},
	}

	for _, g := range goals {
		t.Run(GoalString(g), func(t *testing.T) {
			parsed, err := ParseGoal(CanonicalGoal(g))
			require.NoError(t, err)
			assert.Equal(t, g, parsed)
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an array", `{"tag":"apply"}`},
		{"empty array", `[]`},
		{"unknown type tag", `["tuple",[]]`},
		{"unknown goal tag", `["proven",["u32"]]`},
		{"apply arity", `["apply",["struct","u32"]]`},
		{"var depth not a number", `["var","zero"]`},
		{"unknown kind tag", `["in-scope",["enum","Color"]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseType([]byte(tt.input))
			assert.Error(t, err)
			_, err = ParseGoal([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseGoalRejectsWrongProjectionShape(t *testing.T) {
	// projection-eq whose left side decodes to a non-projection type.
	input := `["projection-eq",["var",0],["var",1]]`
	_, err := ParseGoal([]byte(input))
	assert.ErrorContains(t, err, "want projection")
}
