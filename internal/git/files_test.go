package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTrackedFiles_ReadsIndex(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "scripts/tool.py", "print()")
	writeFile(t, dir, "untracked.js", "x")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	_, err = wt.Add("scripts/tool.py")
	require.NoError(t, err)

	files, err := TrackedFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "scripts/tool.py"}, files)

	listed, err := NewLister(dir).Files()
	require.NoError(t, err)
	assert.Equal(t, files, listed)
}

func TestTrackedFiles_SkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, ".golangci.yml", "run:")
	writeFile(t, dir, ".github/scripts/x.py", "print()")
	writeFile(t, dir, "web/.hidden/d.js", "x")

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for _, name := range []string{"main.go", ".golangci.yml", ".github/scripts/x.py", "web/.hidden/d.js"} {
		_, err = wt.Add(name)
		require.NoError(t, err)
	}

	files, err := TrackedFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".golangci.yml", "main.go"}, files)

	walked, err := WalkFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, walked, files)
}

func TestLister_FallsBackToWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "")
	writeFile(t, dir, "web/b.ts", "")
	writeFile(t, dir, ".cache/c.go", "")
	writeFile(t, dir, "web/.hidden/d.js", "")

	files, err := NewLister(dir).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "web/b.ts"}, files)
}

func TestTrackedFiles_NotARepository(t *testing.T) {
	_, err := TrackedFiles(t.TempDir())
	assert.ErrorIs(t, err, gogit.ErrRepositoryNotExists)
}

func TestWalkFiles_MissingRoot(t *testing.T) {
	_, err := WalkFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
