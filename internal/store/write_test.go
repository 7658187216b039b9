package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-lang/slate/internal/decl"
	"github.com/slate-lang/slate/internal/ir"
	"github.com/slate-lang/slate/internal/testutil"
)

// iteratorProgram exercises every declaration kind: flags, where-clauses,
// negative impls, and associated-type values.
func iteratorProgram() *decl.Program {
	return testutil.NewProgramBuilder().
		Trait("Iterator", []string{"Self"}).
		AutoTrait("Send").
		Struct("Counter", nil).
		UpstreamStruct("Rc", []string{"T"}, ir.BoundVar{Depth: 0}).
		StructWhere("Vec", []string{"T"},
			[]ir.Goal{ir.Implemented{Ref: ir.TraitRef{Trait: "Send", Args: []ir.Type{ir.BoundVar{Depth: 0}}}}},
			ir.BoundVar{Depth: 0}).
		AssociatedTy("Iterator", "Iterator::Item", "Item", []string{"Self"}).
		ImplWithAssoc(nil,
			ir.TraitRef{Trait: "Iterator", Args: []ir.Type{ir.NewApplied(ir.StructID("Counter"))}},
			[]decl.AssociatedTyValue{{AssocType: "Iterator::Item", Value: ir.NewApplied(ir.StructID("Counter"))}}).
		NegImpl([]string{"T"},
			ir.TraitRef{Trait: "Send", Args: []ir.Type{ir.NewApplied(ir.StructID("Rc"), ir.BoundVar{Depth: 0})}}).
		Build()
}

func TestSaveProgramSnapshotToken(t *testing.T) {
	s := openTestStore(t)

	snapshot, err := s.SaveProgram(context.Background(), iteratorProgram())
	require.NoError(t, err)

	token, err := uuid.Parse(snapshot.Token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), token.Version())
	assert.NotEmpty(t, snapshot.ProgramHash)
}

func TestSaveProgramHashIsContentAddressed(t *testing.T) {
	s := openTestStore(t)

	first, err := s.SaveProgram(context.Background(), iteratorProgram())
	require.NoError(t, err)
	second, err := s.SaveProgram(context.Background(), iteratorProgram())
	require.NoError(t, err)

	// Same program, same hash; each save is still its own snapshot.
	assert.Equal(t, first.ProgramHash, second.ProgramHash)
	assert.NotEqual(t, first.Token, second.Token)

	changed, err := s.SaveProgram(context.Background(),
		testutil.NewProgramBuilder().Trait("Iterator", []string{"Self"}).Build())
	require.NoError(t, err)
	assert.NotEqual(t, first.ProgramHash, changed.ProgramHash)
}

func TestSaveProgramReplacesPrevious(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveProgram(ctx, iteratorProgram())
	require.NoError(t, err)

	replacement := testutil.NewProgramBuilder().Trait("Clone", []string{"Self"}).Build()
	snapshot, err := s.SaveProgram(ctx, replacement)
	require.NoError(t, err)

	loaded, loadedSnapshot, err := s.LoadProgram(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, loadedSnapshot)
	assert.True(t, loaded.HasTrait("Clone"))
	assert.False(t, loaded.HasTrait("Iterator"))
	assert.Empty(t, loaded.Impls())
}
