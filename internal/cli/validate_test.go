package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidRequests(t *testing.T) {
	dir := t.TempDir()
	writeRequest(t, dir, "cpu.yaml", hostRequest)
	writeRequest(t, dir, "batch.yaml", batchRequest)

	out, err := executeValidate(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All requests valid (3 request(s) in 2 file(s))")
}

func TestValidateValidRequestsJSON(t *testing.T) {
	path := writeRequest(t, t.TempDir(), "cpu.yaml", hostRequest)

	out, err := executeValidate(t, "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Requests)
	assert.Empty(t, resp.Data.Errors)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	dir := t.TempDir()
	writeRequest(t, dir, "a.yaml", "measurements: [cpu\n")
	writeRequest(t, dir, "b.yaml", "measurements: []\n")
	writeRequest(t, dir, "c.yaml", hostRequest)
	writeRequest(t, dir, "d.yaml", "measurements: [cpu]\ngroup_by: [time(1h)]\n")

	out, err := executeValidate(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "3 error(s)")

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Files)
	require.Len(t, resp.Data.Errors, 3)

	parseErr := resp.Data.Errors[0]
	assert.Equal(t, filepath.Join(dir, "a.yaml"), parseErr.File)
	assert.Equal(t, -1, parseErr.Index)
	assert.Equal(t, ErrCodeParseFailed, parseErr.Code)
	assert.Positive(t, parseErr.Line)

	assert.Equal(t, ErrCodeMeasurementsRequired, resp.Data.Errors[1].Code)
	assert.Equal(t, 0, resp.Data.Errors[1].Index)
	assert.Equal(t, ErrCodeInvalidGroupBy, resp.Data.Errors[2].Code)
	assert.Contains(t, resp.Data.Errors[2].Message, "time(1h)")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParseFailed, resp.Error.Code)
}

func TestValidateTextOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeRequest(t, dir, "b.yaml", "measurements: []\n")

	out, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, path+"[0]")
	assert.Contains(t, out, "  E101: MEASUREMENTS_REQUIRED")
}

func TestValidateNonExistentPath(t *testing.T) {
	out, err := executeValidate(t, "text", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	out, err := executeValidate(t, "text", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "E003")
}

func TestValidateIntegersAsFloatFlag(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	flag := cmd.Flags().Lookup("integers-as-float")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
