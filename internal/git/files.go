// Package git enumerates the files of the working repository.
package git

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Lister lists the files under a repository root
type Lister struct {
	Root string
}

// NewLister creates a lister rooted at root ("" means the current directory)
func NewLister(root string) *Lister {
	if root == "" {
		root = "."
	}
	return &Lister{Root: root}
}

// Files returns slash-separated paths relative to the root, sorted
func (l *Lister) Files() ([]string, error) {
	files, err := TrackedFiles(l.Root)
	if err == nil {
		return files, nil
	}
	if !errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, err
	}
	return WalkFiles(l.Root)
}

// TrackedFiles returns the paths recorded in the git index at root. Paths
// under hidden directories are left out, matching WalkFiles.
func TrackedFiles(root string) ([]string, error) {
	repo, err := gogit.PlainOpen(root)
	if err != nil {
		return nil, err
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read git index: %w", err)
	}

	files := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		if inHiddenDir(entry.Name) {
			continue
		}
		files = append(files, entry.Name)
	}
	sort.Strings(files)
	return files, nil
}

func inHiddenDir(name string) bool {
	dirs := strings.Split(name, "/")
	for _, dir := range dirs[:len(dirs)-1] {
		if strings.HasPrefix(dir, ".") {
			return true
		}
	}
	return false
}

// WalkFiles lists regular files under root, skipping hidden directories
func WalkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
