package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tinysplit/pkg/adapters/file"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements SnapshotStore
var _ ports.SnapshotStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSnapshotStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(filepath.Join(dir, "nested", "sessions"))
	ctx := context.Background()

	sessions, err := store.List(ctx)
	require.NoError(t, err, "a missing directory lists as empty")
	assert.Empty(t, sessions)

	require.NoError(t, store.Save(ctx, "doc-1", &domain.Snapshot{Stack: []string{"(BLOCK"}, Lines: 1}))

	path := filepath.Join(dir, "nested", "sessions", "doc-1.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"(BLOCK"`)

	// Overwrite keeps a single file
	require.NoError(t, store.Save(ctx, "doc-1", &domain.Snapshot{Stack: []string{}, Lines: 2}))
	entries, err := os.ReadDir(filepath.Join(dir, "nested", "sessions"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_RejectsPathLikeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		err := store.Save(ctx, id, domain.NewSnapshot())
		assert.Error(t, err, "id %q", id)
	}
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, file.DefaultPath, file.New("").BasePath)
}
