package backup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestStore_SnapshotAndFiles(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	files := map[string][]byte{
		"src/App.vue":              []byte("<script setup>\nconst resources = []\n</script>\n"),
		"src/i18n/translations.js": []byte("export const translations = {}\n"),
	}
	snap, err := s.Snapshot(ctx, "add-resource r1", files)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, []string{"src/App.vue", "src/i18n/translations.js"}, snap.Paths)

	got, err := s.Files(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, files, got)
}

func TestStore_EmptyFile(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	snap, err := s.Snapshot(ctx, "empty", map[string][]byte{"a.js": nil})
	require.NoError(t, err)
	got, err := s.Files(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got["a.js"])
}

func TestStore_FilesUnknownID(t *testing.T) {
	_, err := openStore(t).Files(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	var ids []string
	for _, label := range []string{"one", "two", "three"} {
		snap, err := s.Snapshot(ctx, label, map[string][]byte{"f": []byte(label)})
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Label)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, []string{"f"}, all[0].Paths)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "two", two[1].Label)
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	var ids []string
	for i := 0; i < 5; i++ {
		snap, err := s.Snapshot(ctx, "edit", map[string][]byte{"f": {byte('0' + i)}})
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	n, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	left, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, ids[4], left[0].ID)
	assert.Equal(t, ids[3], left[1].ID)

	_, err = s.Files(ctx, ids[0])
	assert.True(t, errors.Is(err, ErrNotFound))

	n, err = s.Prune(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Resolve(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	snap, err := s.Snapshot(ctx, "x", map[string][]byte{"f": []byte("x")})
	require.NoError(t, err)

	id, err := s.Resolve(ctx, snap.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, snap.ID, id)

	_, err = s.Resolve(ctx, "zzzz")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Resolve(ctx, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_PersistsOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backups.db")

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	snap, err := s.Snapshot(ctx, "disk", map[string][]byte{"f": []byte("data")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	files, err := s.Files(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "data", string(files["f"]))
}
