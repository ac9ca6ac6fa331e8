package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tinysplit/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	require.NoError(t, execute(t, "version"))
	assert.Contains(t, buf.String(), "tinysplit version")
}

func TestSplit_SessionIsPersistedAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "part1.txt")
	second := filepath.Join(dir, "part2.txt")
	require.NoError(t, os.WriteFile(first, []byte("(BLOCK\n:attr\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("@sec\n"), 0644))

	require.NoError(t, execute(t, "split", "--dir", dir, "--json", "--session", "doc", first))
	require.NoError(t, execute(t, "split", "--dir", dir, "--json", "--session", "doc", second))

	store := file.New(filepath.Join(dir, file.DefaultPath))
	snap, err := store.Load(context.Background(), "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{"(BLOCK", ":attr", "@sec"}, snap.Stack)
	assert.Equal(t, 3, snap.Lines)

	require.NoError(t, execute(t, "session", "rm", "--dir", dir, "doc"))
	_, err = store.Load(context.Background(), "doc")
	assert.Error(t, err)
}

func TestConfigFromProjectDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tinysplit.yaml"), []byte("stack:\n  limit: 1\n"), 0644))
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("(A\n:b\n"), 0644))

	err := execute(t, "split", "--dir", dir, "--json", "--session", "", input)
	assert.Error(t, err, "stack.limit from the project config rejects the second scope")
}

func TestUnknownConfigKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nope: 1\n"), 0644))

	err := execute(t, "version", "--config", path)
	assert.Error(t, err)
}
