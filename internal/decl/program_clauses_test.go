package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
)

func u32() ir.Applied { return ir.NewApplied(ir.StructID("u32")) }

func cloneProgram(t *testing.T) *decl.Program {
	t.Helper()

	program := decl.NewProgram()
	require.NoError(t, program.AddTrait(&decl.TraitDatum{
		Binders: decl.Binders[decl.TraitDatumBound]{
			Params: []string{"Self"},
			Value: decl.TraitDatumBound{
				TraitRef: ir.TraitRef{Trait: "Clone", Args: []ir.Type{ir.BoundVar{Depth: 0}}},
			},
		},
	}))
	return program
}

func TestImplToProgramClauses(t *testing.T) {
	program := cloneProgram(t)
	impl := &decl.ImplDatum{
		Binders: decl.Binders[decl.ImplDatumBound]{
			Params: []string{"T"},
			Value: decl.ImplDatumBound{
				TraitRef: ir.TraitRef{Trait: "Clone", Args: []ir.Type{
					ir.NewApplied(ir.StructID("Vec"), ir.BoundVar{Depth: 0}),
				}},
				WhereClauses: []ir.Goal{
					ir.Implemented{Ref: ir.TraitRef{Trait: "Clone", Args: []ir.Type{ir.BoundVar{Depth: 0}}}},
				},
			},
		},
	}

	got := impl.ToProgramClauses(program)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Binders)
	assert.Equal(t,
		"forall<1> { Implemented(Vec<^0>: Clone) :- Implemented(^0: Clone) }",
		got[0].String())
}

func TestNegativeImplProducesNoClause(t *testing.T) {
	program := cloneProgram(t)
	impl := &decl.ImplDatum{
		Binders: decl.Binders[decl.ImplDatumBound]{
			Value: decl.ImplDatumBound{
				TraitRef: ir.TraitRef{Trait: "Clone", Args: []ir.Type{u32()}},
				Polarity: decl.Negative,
			},
		},
	}

	assert.Empty(t, impl.ToProgramClauses(program))
}

func TestTraitToProgramClauses(t *testing.T) {
	program := cloneProgram(t)
	program.AddImpl(&decl.ImplDatum{
		Binders: decl.Binders[decl.ImplDatumBound]{
			Value: decl.ImplDatumBound{
				TraitRef: ir.TraitRef{Trait: "Clone", Args: []ir.Type{u32()}},
			},
		},
	})

	got := program.TraitDatum("Clone").ToProgramClauses(program)

	var rendered []string
	for _, c := range got {
		rendered = append(rendered, c.String())
	}
	assert.Equal(t, []string{
		"Implemented(u32: Clone)",
		"forall<1> { WellFormed(^0: Clone) :- Implemented(^0: Clone) }",
	}, rendered)
}

func TestStructToProgramClauses(t *testing.T) {
	program := decl.NewProgram()
	whereClause := ir.Implemented{Ref: ir.TraitRef{Trait: "Sized", Args: []ir.Type{ir.BoundVar{Depth: 0}}}}
	require.NoError(t, program.AddStruct(&decl.StructDatum{
		Binders: decl.Binders[decl.StructDatumBound]{
			Params: []string{"T"},
			Value: decl.StructDatumBound{
				SelfTy:       ir.NewApplied(ir.StructID("Vec"), ir.BoundVar{Depth: 0}),
				Fields:       []ir.Type{ir.BoundVar{Depth: 0}},
				WhereClauses: []ir.Goal{whereClause},
			},
		},
	}))

	got := program.StructDatum("Vec").ToProgramClauses(program)
	require.Len(t, got, 2)
	assert.Equal(t, "forall<1> { WellFormed(Vec<^0>) :- Implemented(^0: Sized), WellFormed(^0) }", got[0].String())
	assert.Equal(t, "forall<1> { IsLocal(Vec<^0>) }", got[1].String())
}

func TestUpstreamStructLocalityClause(t *testing.T) {
	program := decl.NewProgram()
	require.NoError(t, program.AddStruct(&decl.StructDatum{
		Binders: decl.Binders[decl.StructDatumBound]{
			Value: decl.StructDatumBound{
				SelfTy: ir.NewApplied(ir.StructID("String")),
				Flags:  decl.StructFlags{Upstream: true},
			},
		},
	}))

	got := program.StructDatum("String").ToProgramClauses(program)
	require.Len(t, got, 2)
	assert.Equal(t, "IsUpstream(String)", got[1].String())
}

func TestAssociatedTyToProgramClauses(t *testing.T) {
	program := decl.NewProgram()
	require.NoError(t, program.AddTrait(&decl.TraitDatum{
		Binders: decl.Binders[decl.TraitDatumBound]{
			Params: []string{"Self"},
			Value: decl.TraitDatumBound{
				TraitRef: ir.TraitRef{Trait: "Iterator", Args: []ir.Type{ir.BoundVar{Depth: 0}}},
			},
		},
	}))
	require.NoError(t, program.AddAssociatedTy(&decl.AssociatedTyDatum{
		Trait:  "Iterator",
		ID:     "Iterator::Item",
		Name:   "Item",
		Params: []string{"Self"},
	}))
	program.AddImpl(&decl.ImplDatum{
		Binders: decl.Binders[decl.ImplDatumBound]{
			Value: decl.ImplDatumBound{
				TraitRef: ir.TraitRef{Trait: "Iterator", Args: []ir.Type{ir.NewApplied(ir.StructID("Counter"))}},
				AssociatedTyValues: []decl.AssociatedTyValue{
					{AssocType: "Iterator::Item", Value: u32()},
				},
			},
		},
	})

	got := program.AssociatedTyDatum("Iterator::Item").ToProgramClauses(program)
	require.Len(t, got, 2)
	assert.Equal(t, "Normalize((Iterator::Item)<Counter> -> u32)", got[0].String())
	assert.Equal(t,
		"forall<2> { ProjectionEq((Iterator::Item)<^0> = ^1) :- Normalize((Iterator::Item)<^0> -> ^1) }",
		got[1].String())
}

func TestImplProvidedForCountsBothPolarities(t *testing.T) {
	program := cloneProgram(t)
	program.AddImpl(&decl.ImplDatum{
		Binders: decl.Binders[decl.ImplDatumBound]{
			Value: decl.ImplDatumBound{
				TraitRef: ir.TraitRef{Trait: "Clone", Args: []ir.Type{u32()}},
				Polarity: decl.Negative,
			},
		},
	})

	assert.True(t, program.ImplProvidedFor("Clone", "u32"))
	assert.False(t, program.ImplProvidedFor("Clone", "i64"))
}

func TestUnknownLookupPanics(t *testing.T) {
	program := decl.NewProgram()
	assert.Panics(t, func() { program.TraitDatum("Nope") })
	assert.Panics(t, func() { program.StructDatum("Nope") })
	assert.Panics(t, func() { program.AssociatedTyDatum("Nope") })
}
