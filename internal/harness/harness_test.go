package harness_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-lang/slate/internal/harness"
)

func TestScenarioGoldens(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			harness.RunWithGolden(t, path)
		})
	}
}

func TestRunProgramNotFound(t *testing.T) {
	_, err := harness.Run(&harness.Scenario{
		Name:        "broken",
		Description: "program file does not exist",
		Program:     filepath.Join("testdata", "programs", "missing.cue"),
		Goal:        harness.GoalSpec{IsLocal: "u32"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read program file")
}

func TestRunRejectsUndeclaredNames(t *testing.T) {
	program := filepath.Join("testdata", "programs", "list.cue")

	_, err := harness.Run(&harness.Scenario{
		Name:        "unknown-trait",
		Description: "goal names a trait the program does not declare",
		Program:     program,
		Goal:        harness.GoalSpec{Implemented: "u32: Nope"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `undeclared trait "Nope"`)

	_, err = harness.Run(&harness.Scenario{
		Name:        "unknown-env-struct",
		Description: "environment hypothesis names an undeclared struct",
		Program:     program,
		Goal:        harness.GoalSpec{IsLocal: "u32"},
		Environment: []harness.EnvSpec{{Type: "Ghost"}},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `undeclared struct "Ghost"`)
}

func TestRunGoalParseError(t *testing.T) {
	_, err := harness.Run(&harness.Scenario{
		Name:        "bad-goal",
		Description: "goal expression fails to parse",
		Program:     filepath.Join("testdata", "programs", "list.cue"),
		Goal:        harness.GoalSpec{Implemented: "Vec<"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "goal")
}

func TestResultRender(t *testing.T) {
	empty := &harness.Result{ScenarioName: "empty", Goal: "IsLocal(u32)"}
	assert.Equal(t, "scenario: empty\ngoal: IsLocal(u32)\nclauses: (none)\n", string(empty.Render()))

	full := &harness.Result{
		ScenarioName: "full",
		Goal:         "Implemented(u32: Clone)",
		Clauses:      []string{"Implemented(u32: Clone)"},
	}
	assert.Equal(t,
		"scenario: full\ngoal: Implemented(u32: Clone)\nclauses:\n  Implemented(u32: Clone)\n",
		string(full.Render()))
}
