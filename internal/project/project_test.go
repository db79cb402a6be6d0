package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memProject(t *testing.T) *Project {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "src/App.vue", []byte("<script setup>\nconst resources = []\n</script>\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "src/i18n/translations.js", []byte("export const translations = {}\n"), 0o644))
	return New(fs, Paths{})
}

func TestProject_ReadWriteSources(t *testing.T) {
	ctx := context.Background()
	p := memProject(t)

	text, err := p.ReadResourceListSource(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "const resources = []")

	require.NoError(t, p.WriteTranslationsSource(ctx, "export const translations = { fr: {} }\n"))
	text, err = p.ReadTranslationsSource(ctx)
	require.NoError(t, err)
	assert.Equal(t, "export const translations = { fr: {} }\n", text)

	require.NoError(t, p.WriteResourceListSource(ctx, "<script setup>\nconst resources = [1]\n</script>\n"))
	text, err = p.ReadResourceListSource(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "[1]")
}

func TestProject_MissingFile(t *testing.T) {
	p := New(memfs.New(), Paths{})
	_, err := p.ReadTranslationsSource(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "src/i18n/translations.js")
}

func TestProject_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := memProject(t)
	_, err := p.ReadResourceListSource(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, p.WriteResourceListSource(ctx, "x"), context.Canceled)
}

func TestProject_Lock(t *testing.T) {
	p := memProject(t)
	unlock, err := p.Lock(context.Background())
	require.NoError(t, err)
	require.NoError(t, unlock())

	_, err = p.fs.Stat(DefaultLockFile)
	assert.NoError(t, err, "lock file is created at the project root")
}

func TestProject_Check(t *testing.T) {
	ctx := context.Background()
	info, err := memProject(t).Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, "src/App.vue", info.ResourceList)
	assert.Positive(t, info.ResourceListSize)
	assert.Positive(t, info.TranslationsSize)

	_, err = New(memfs.New(), Paths{}).Check(ctx)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "i18n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "i18n", "translations.js"), []byte("export const translations = {}\n"), 0o644))

	p, err := Open(dir, Paths{ResourceList: "App.vue"})
	require.NoError(t, err)
	assert.Equal(t, "App.vue", p.Paths().ResourceList)
	assert.Equal(t, "src/i18n/translations.js", p.Paths().Translations)

	text, err := p.ReadTranslationsSource(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "export const translations = {}\n", text)

	_, err = Open(filepath.Join(dir, "missing"), Paths{})
	assert.Error(t, err)

	_, err = Open(filepath.Join(dir, "src", "i18n", "translations.js"), Paths{})
	assert.Error(t, err)
}
