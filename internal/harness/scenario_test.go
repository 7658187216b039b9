package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-lang/slate/internal/ir"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/env-closure-dedup.yaml")
	require.NoError(t, err)

	assert.Equal(t, "env-closure-dedup", scenario.Name)
	assert.NotEmpty(t, scenario.Description)
	// The program path resolves relative to the scenario file.
	assert.Equal(t, filepath.Join("testdata", "programs", "list.cue"), scenario.Program)
	assert.Equal(t, "MyList<u32>", scenario.Goal.WellFormedType)
	require.Len(t, scenario.Environment, 1)
	assert.Equal(t, []string{"T"}, scenario.Environment[0].Params)
	assert.Equal(t, "MyList<T>: Clone", scenario.Environment[0].Trait)
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"unknown field",
			"name: x\ndescription: d\nprogram: p.cue\ngoals: {implemented: \"u32: Clone\"}\n",
			"field goals not found",
		},
		{
			"missing name",
			"description: d\nprogram: p.cue\ngoal: {implemented: \"u32: Clone\"}\n",
			"name is required",
		},
		{
			"missing description",
			"name: x\nprogram: p.cue\ngoal: {implemented: \"u32: Clone\"}\n",
			"description is required",
		},
		{
			"missing program",
			"name: x\ndescription: d\ngoal: {implemented: \"u32: Clone\"}\n",
			"program is required",
		},
		{
			"program not found",
			"name: x\ndescription: d\nprogram: missing.cue\ngoal: {implemented: \"u32: Clone\"}\n",
			"program file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "scenario.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadScenarioGoalCardinality(t *testing.T) {
	dir := t.TempDir()
	program := filepath.Join(dir, "p.cue")
	require.NoError(t, os.WriteFile(program, []byte("program: {}\n"), 0o644))

	noGoal := filepath.Join(dir, "none.yaml")
	require.NoError(t, os.WriteFile(noGoal,
		[]byte("name: x\ndescription: d\nprogram: p.cue\ngoal: {}\n"), 0o644))
	_, err := LoadScenario(noGoal)
	assert.ErrorContains(t, err, "exactly one goal kind")

	twoGoals := filepath.Join(dir, "two.yaml")
	require.NoError(t, os.WriteFile(twoGoals,
		[]byte("name: x\ndescription: d\nprogram: p.cue\ngoal: {implemented: \"u32: Clone\", is_local: \"u32\"}\n"), 0o644))
	_, err = LoadScenario(twoGoals)
	assert.ErrorContains(t, err, "exactly one goal kind")

	badEnv := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(badEnv,
		[]byte("name: x\ndescription: d\nprogram: p.cue\ngoal: {is_local: \"u32\"}\nenvironment: [{trait: \"u32: Clone\", type: \"u32\"}]\n"), 0o644))
	_, err = LoadScenario(badEnv)
	assert.ErrorContains(t, err, "exactly one of trait or type")
}

func TestGoalSpecBuildGoal(t *testing.T) {
	u32 := ir.NewApplied(ir.StructID("u32"))
	tests := []struct {
		name string
		spec GoalSpec
		want ir.Goal
	}{
		{
			"implemented",
			GoalSpec{Implemented: "u32: Clone"},
			ir.Implemented{Ref: ir.TraitRef{Trait: "Clone", Args: []ir.Type{u32}}},
		},
		{
			"well-formed trait",
			GoalSpec{WellFormedTrait: "u32: Clone"},
			ir.WellFormedTrait{Ref: ir.TraitRef{Trait: "Clone", Args: []ir.Type{u32}}},
		},
		{
			"well-formed type",
			GoalSpec{WellFormedType: "Vec<u32>"},
			ir.WellFormedType{Ty: ir.NewApplied(ir.StructID("Vec"), u32)},
		},
		{
			"is local",
			GoalSpec{IsLocal: "u32"},
			ir.IsLocal{Ty: u32},
		},
		{
			"is upstream",
			GoalSpec{IsUpstream: "u32"},
			ir.IsUpstream{Ty: u32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.BuildGoal()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoalSpecBuildGoalParseError(t *testing.T) {
	spec := GoalSpec{Implemented: "Vec<"}
	_, err := spec.BuildGoal()
	assert.Error(t, err)
}

func TestBuildEnvironment(t *testing.T) {
	env, err := BuildEnvironment([]EnvSpec{
		{Params: []string{"T"}, Trait: "MyList<T>: Clone"},
		{Type: "u32"},
	})
	require.NoError(t, err)
	require.Len(t, env.Clauses, 2)

	assert.Equal(t, ir.ProgramClause{
		Binders: 1,
		Consequence: ir.FromEnvTrait{Ref: ir.TraitRef{
			Trait: "Clone",
			Args:  []ir.Type{ir.NewApplied(ir.StructID("MyList"), ir.BoundVar{Depth: 0})},
		}},
	}, env.Clauses[0])
	assert.Equal(t, ir.ProgramClause{
		Consequence: ir.FromEnvType{Ty: ir.NewApplied(ir.StructID("u32"))},
	}, env.Clauses[1])
}

func TestLoadGoalFile(t *testing.T) {
	path := writeTempFile(t, "goal.yaml",
		"goal: {implemented: \"u32: Clone\"}\nenvironment: [{type: \"u32\"}]\n")
	goalFile, err := LoadGoalFile(path)
	require.NoError(t, err)
	assert.Equal(t, "u32: Clone", goalFile.Goal.Implemented)
	require.Len(t, goalFile.Environment, 1)

	bad := writeTempFile(t, "bad.yaml", "environment: [{type: \"u32\"}]\n")
	_, err = LoadGoalFile(bad)
	assert.ErrorContains(t, err, "exactly one goal kind")
}
