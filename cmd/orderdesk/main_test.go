package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "orderdesk version ")
}

func TestSessionCommands_FileDriver(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORDERDESK_SESSIONS_DRIVER", "file")
	t.Setenv("ORDERDESK_SESSIONS_DIR", dir)

	assert.Contains(t, run(t, "session", "ls"), "No active sessions found.")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.json"), []byte(`{"id":"abc"}`), 0o644))
	assert.Contains(t, run(t, "session", "ls"), "- abc")
	assert.Contains(t, run(t, "session", "inspect", "abc"), `"id": "abc"`)
	assert.Contains(t, run(t, "session", "rm", "--all"), "Removed session 'abc'")
	assert.Contains(t, run(t, "session", "ls"), "No active sessions found.")
}

func TestCatalogSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vehicles:\n  - model: Ranger\n    price: 3300000\n    stock: 2\n    delivery_days: 10\n"), 0o644))

	assert.Contains(t, run(t, "catalog", "seed", "--file", path), "Catalog updated from")
}
