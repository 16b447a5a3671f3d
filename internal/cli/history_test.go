package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeHistory(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(opts)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// seedHistory compiles two requests into a fresh database and returns its path.
func seedHistory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	first := writeRequest(t, dir, "a.yaml", "measurements: [cpu]\n")
	second := writeRequest(t, dir, "b.yaml", "measurements: [mem]\n")

	_, err := executeCompile(t, "text", "--db", db, first)
	require.NoError(t, err)
	_, err = executeCompile(t, "text", "--db", db, second)
	require.NoError(t, err)
	return db
}

func TestHistoryRequiresDB(t *testing.T) {
	_, err := executeHistory(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestHistoryNewestFirst(t *testing.T) {
	db := seedHistory(t)

	out, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], `SELECT * FROM "mem"`), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], `SELECT * FROM "cpu"`), lines[1])
}

func TestHistoryLimit(t *testing.T) {
	db := seedHistory(t)

	out, err := executeHistory(t, &RootOptions{Format: "json"}, "--db", db, "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Entries []HistoryEntry `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, `SELECT * FROM "mem"`, resp.Data.Entries[0].Query)
	assert.Empty(t, resp.Data.Entries[0].Request)
}

func TestHistoryVerboseIncludesRequest(t *testing.T) {
	db := seedHistory(t)

	out, err := executeHistory(t, &RootOptions{Format: "json", Verbose: true}, "--db", db, "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Entries []HistoryEntry `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Entries, 1)
	assert.Contains(t, resp.Data.Entries[0].Request, `"mem"`)
}

func TestHistoryFingerprint(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	path := writeRequest(t, dir, "usage.yaml", usageRequest)

	out, err := executeCompile(t, "json", "--db", db, path)
	require.NoError(t, err)
	_, err = executeCompile(t, "json", "--db", db, "--integers-as-float", path)
	require.NoError(t, err)

	var compiled struct {
		Data CompileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &compiled))
	fp := compiled.Data.Queries[0].Fingerprint

	out, err = executeHistory(t, &RootOptions{Format: "text"}, "--db", db, "--fingerprint", fp)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "usage > 20i"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "usage > 20"), lines[1])
}

func TestHistoryBatch(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	path := writeRequest(t, dir, "batch.yaml", batchRequest)

	out, err := executeCompile(t, "json", "--batch", "--db", db, path)
	require.NoError(t, err)
	var compiled struct {
		Data CompileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &compiled))

	out, err = executeHistory(t, &RootOptions{Format: "json"}, "--db", db, "--batch", compiled.Data.BatchID)
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Statement string         `json:"statement"`
			Entries   []HistoryEntry `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, compiled.Data.Batch, resp.Data.Statement)
	require.Len(t, resp.Data.Entries, 2)
	assert.Equal(t, compiled.Data.Queries[0].ID, resp.Data.Entries[0].ID)
	assert.Equal(t, compiled.Data.Queries[1].ID, resp.Data.Entries[1].ID)
}

func TestHistoryUnknownFingerprint(t *testing.T) {
	db := seedHistory(t)

	out, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", db, "--fingerprint", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E007]")
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := executeHistory(t, &RootOptions{Format: "text"}, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No recorded queries.\n", out)
}
