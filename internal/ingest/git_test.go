package ingest

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHistory(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.name", "Tester")
	runGit(t, dir, "config", "user.email", "test@example.com")

	file := filepath.Join(dir, "App.vue")
	require.NoError(t, os.WriteFile(file, []byte("<script setup>\nconst resources = []\n</script>\n"), 0o644))
	runGit(t, dir, "add", "App.vue")
	runGit(t, dir, "commit", "-m", "Add resource list")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	runGit(t, dir, "add", "other.txt")
	runGit(t, dir, "commit", "-m", "Unrelated")

	require.NoError(t, os.WriteFile(file, []byte("<script setup>\nconst resources = [{ id: 'a' }]\n</script>\n"), 0o644))
	runGit(t, dir, "commit", "-am", "Add resource a\n\nWith body")

	commits, err := FileHistory(context.Background(), dir, "App.vue", 0)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "Add resource a", commits[0].Subject)
	assert.Equal(t, "Tester", commits[0].Author)
	assert.NotEmpty(t, commits[0].SHA)
	assert.NotEmpty(t, commits[0].Date)
	assert.Equal(t, "Add resource list", commits[1].Subject)

	commits, err = FileHistory(context.Background(), dir, "App.vue", 1)
	require.NoError(t, err)
	assert.Len(t, commits, 1)
}

func TestFileHistory_NotARepository(t *testing.T) {
	commits, err := FileHistory(context.Background(), t.TempDir(), "App.vue", 5)
	assert.NoError(t, err)
	assert.Empty(t, commits)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, out)
}
