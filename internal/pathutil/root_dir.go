// Package pathutil resolves the root of a repository by walking up the
// filesystem from the current directory: commands walk upward from the
// current working directory until a .git/ directory is found.
package pathutil

import (
	"os"
	"path/filepath"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/internal/gitpath"
	"golang.org/x/xerrors"
)

// RepoRoot returns the absolute path to the repository root containing
// the current working directory.
func RepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", xerrors.Errorf("could not get current working directory: %w", err)
	}
	return RepoRootFromPath(wd)
}

// RepoRootFromPath returns the absolute path to the root of the repo
// containing the given directory, by walking up until a .git directory
// is found.
func RepoRootFromPath(p string) (string, error) {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", xerrors.Errorf("could not resolve %s: %w", p, err)
	}
	p = absPath
	prev := ""
	for p != prev {
		info, err := os.Stat(filepath.Join(p, gitpath.DotGitPath))
		if err == nil && info.IsDir() {
			return p, nil
		}
		prev = p
		p = filepath.Dir(p)
	}
	return "", ginternals.ErrNotARepository
}
