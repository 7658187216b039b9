package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-lang/slate/internal/decl"
)

// renderProgram flattens a program into clause strings, covering every
// datum the translation can see. Two programs that render identically
// behave identically in clause generation.
func renderProgram(p *decl.Program) []string {
	var out []string
	for _, d := range p.Traits() {
		for _, c := range d.ToProgramClauses(p) {
			out = append(out, "trait: "+c.String())
		}
	}
	for _, d := range p.Structs() {
		for _, c := range d.ToProgramClauses(p) {
			out = append(out, "struct: "+c.String())
		}
	}
	for _, d := range p.AssociatedTys() {
		for _, c := range d.ToProgramClauses(p) {
			out = append(out, "assoc: "+c.String())
		}
	}
	return out
}

func TestLoadProgramRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	original := iteratorProgram()

	saved, err := s.SaveProgram(ctx, original)
	require.NoError(t, err)

	loaded, snapshot, err := s.LoadProgram(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, snapshot)

	assert.Equal(t, renderProgram(original), renderProgram(loaded))

	// Declaration metadata the clause strings don't show.
	assert.True(t, loaded.TraitDatum("Send").Binders.Value.Flags.Auto)
	assert.True(t, loaded.StructDatum("Rc").Binders.Value.Flags.Upstream)
	assert.Equal(t, []string{"T"}, loaded.StructDatum("Vec").Binders.Params)
	assert.Equal(t, "Item", loaded.AssociatedTyDatum("Iterator::Item").Name)

	// The negative impl survives with its polarity: it suppresses
	// auto-trait synthesis for Rc but produces no clause.
	require.Len(t, loaded.Impls(), 2)
	assert.Equal(t, decl.Negative, loaded.Impls()[1].Binders.Value.Polarity)
	assert.True(t, loaded.ImplProvidedFor("Send", "Rc"))
}

func TestLoadProgramEmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	_, _, err := s.LoadProgram(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = s.LatestSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadProgramDetectsRowCorruption(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveProgram(ctx, iteratorProgram())
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE traits SET data = '{"params":[]}' WHERE id = 'Iterator'`)
	require.NoError(t, err)

	_, _, err = s.LoadProgram(ctx)
	assert.ErrorContains(t, err, "content hash mismatch")
}

func TestLoadProgramDetectsSnapshotDrift(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveProgram(ctx, iteratorProgram())
	require.NoError(t, err)

	// Row deleted with its hash intact: per-row checks pass, the
	// program-level hash does not.
	_, err = s.db.Exec(`DELETE FROM structs WHERE id = 'Counter'`)
	require.NoError(t, err)

	_, _, err = s.LoadProgram(ctx)
	assert.ErrorContains(t, err, "program hash mismatch")
}
