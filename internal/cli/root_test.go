package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with the given arguments and
// returns the combined output.
func executeCommand(args ...string) (string, error) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandRejectsInvalidFormat(t *testing.T) {
	_, err := executeCommand("--format", "xml", "validate", "testdata/program")
	require.Error(t, err)
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "compile")
	assert.Contains(t, names, "validate")
	assert.Contains(t, names, "clauses")
	assert.Contains(t, names, "snapshot")
}
