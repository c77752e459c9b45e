// Package fsbackend contains an implementation of the backend.Backend
// interface that stores loose objects on a filesystem.
package fsbackend

import (
	"path/filepath"

	"github.com/minigit-go/minigit/backend"
	"github.com/minigit-go/minigit/internal/cache"
	"github.com/minigit-go/minigit/internal/gitpath"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// we make sure the struct implements the interface
var _ backend.Backend = (*Backend)(nil)

// defaultCacheSize bounds how many inflated objects are kept around to
// avoid re-inflating the same object repeatedly within one command.
const defaultCacheSize = 128

// Backend is a Backend implementation that uses the filesystem to
// store loose objects under a .git directory.
type Backend struct {
	fs   afero.Fs
	root string // absolute path to the .git directory

	cache *cache.LRU
}

// New returns a new Backend rooted at dotGitPath.
func New(fs afero.Fs, dotGitPath string) *Backend {
	c, _ := cache.NewLRU(defaultCacheSize)
	return &Backend{
		fs:    fs,
		root:  dotGitPath,
		cache: c,
	}
}

// Init initializes a repository: creates objects/, refs/, and writes
// HEAD.
func (b *Backend) Init() error {
	dirs := []string{
		gitpath.ObjectsPath,
		gitpath.RefsPath,
	}
	for _, d := range dirs {
		fullPath := filepath.Join(b.root, d)
		if err := b.fs.MkdirAll(fullPath, 0o750); err != nil {
			return xerrors.Errorf("could not create directory %s: %w", d, err)
		}
	}

	headPath := filepath.Join(b.root, gitpath.HEADPath)
	if err := afero.WriteFile(b.fs, headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return xerrors.Errorf("could not create %s: %w", gitpath.HEADPath, err)
	}

	if err := b.setDefaultCfg(); err != nil {
		return xerrors.Errorf("could not set the default config: %w", err)
	}
	return nil
}

// Close frees the resources held by the backend.
func (b *Backend) Close() error {
	if b.cache != nil {
		b.cache.Clear()
	}
	return nil
}
