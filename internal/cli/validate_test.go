package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	out, err := executeCommand("validate", "testdata/program")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Program valid")
}

func TestValidateCommandReportsErrors(t *testing.T) {
	out, err := executeCommand("validate", "testdata/invalid")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, `undeclared trait "Nope"`)
}

func TestValidateCommandJSON(t *testing.T) {
	out, err := executeCommand("--format", "json", "validate", "testdata/invalid")
	require.Error(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E103", response.Error.Code)
}

func TestValidateCommandMissingDirectory(t *testing.T) {
	out, err := executeCommand("validate", "testdata/missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
}
