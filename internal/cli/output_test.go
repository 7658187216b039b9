package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "database not found")
	assert.Equal(t, "database not found", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	wrapped := WrapExitError(ExitFailure, "validation failed", errors.New("boom"))
	assert.Equal(t, "validation failed: boom", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")

	// Exit code survives further wrapping.
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", err)))

	// Non-ExitError defaults to failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatterText(t *testing.T) {
	buf := new(bytes.Buffer)
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("done"))
	require.NoError(t, f.Error("E005", "not found", nil))

	assert.Contains(t, buf.String(), "done")
	assert.Contains(t, buf.String(), "Error [E005]: not found")
}

func TestOutputFormatterJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Success(map[string]int{"clauses": 3}))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)

	buf.Reset()
	require.NoError(t, f.Error("E009", "no snapshot", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E009", response.Error.Code)
}

func TestVerboseLogGoesToErrWriter(t *testing.T) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)

	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	f.VerboseLog("loaded %d file(s)", 2)
	assert.Empty(t, out.String())
	assert.Equal(t, "loaded 2 file(s)\n", errOut.String())

	quiet := &OutputFormatter{Format: "text", Writer: out, Verbose: false}
	quiet.VerboseLog("hidden")
	assert.Empty(t, out.String())
}
