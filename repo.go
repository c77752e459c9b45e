// Package minigit ties the object-format packages in ginternals/ and
// the storage packages in backend/ into a Repository: the handle every
// command in cmd/minigit drives to read and write objects and to
// materialize a working tree.
package minigit

import (
	"io"
	"os"
	"path/filepath"

	"github.com/minigit-go/minigit/backend"
	"github.com/minigit-go/minigit/backend/fsbackend"
	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/minigit-go/minigit/internal/gitpath"
	"github.com/minigit-go/minigit/internal/pathutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Repository is a handle to a git repository: its working-tree root
// and the backend storing its loose objects.
type Repository struct {
	// WorkTreePath is the absolute path of the repository's working
	// directory (the parent of .git/).
	WorkTreePath string
	// DotGitPath is the absolute path of the repository's .git
	// directory.
	DotGitPath string

	dotGit backend.Backend
}

// InitRepository creates a new repository rooted at path: the
// directory (and any missing parents) are created if needed, then
// .git/objects/, .git/refs/, .git/HEAD, and .git/config are written.
func InitRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, xerrors.Errorf("could not resolve %s: %w", path, err)
	}
	if err := os.MkdirAll(absPath, 0o750); err != nil {
		return nil, xerrors.Errorf("could not create %s: %w", absPath, err)
	}

	dotGitPath := filepath.Join(absPath, gitpath.DotGitPath)
	b := fsbackend.New(afero.NewOsFs(), dotGitPath)
	if err := b.Init(); err != nil {
		return nil, xerrors.Errorf("could not initialize repository at %s: %w", dotGitPath, err)
	}

	return &Repository{
		WorkTreePath: absPath,
		DotGitPath:   dotGitPath,
		dotGit:       b,
	}, nil
}

// OpenRepository discovers and opens the repository containing path,
// walking upward until a .git/ directory is found.
func OpenRepository(path string) (*Repository, error) {
	root, err := pathutil.RepoRootFromPath(path)
	if err != nil {
		return nil, err
	}

	dotGitPath := filepath.Join(root, gitpath.DotGitPath)
	return &Repository{
		WorkTreePath: root,
		DotGitPath:   dotGitPath,
		dotGit:       fsbackend.New(afero.NewOsFs(), dotGitPath),
	}, nil
}

// Close releases any resources (caches) held by the repository.
func (r *Repository) Close() error {
	return r.dotGit.Close()
}

// Object returns the object identified by oid.
func (r *Repository) Object(oid ginternals.Oid) (*object.Object, error) {
	return r.dotGit.Object(oid)
}

// HasObject returns whether oid exists in the object database.
func (r *Repository) HasObject(oid ginternals.Oid) (bool, error) {
	return r.dotGit.HasObject(oid)
}

// WriteObject stores o and returns its Oid.
func (r *Repository) WriteObject(o *object.Object) (ginternals.Oid, error) {
	return r.dotGit.WriteObject(o)
}

// WriteObjectStream stores an object of the given kind whose payload is
// streamed from src, which must yield exactly size bytes.
func (r *Repository) WriteObjectStream(typ object.Type, size int64, src io.Reader) (ginternals.Oid, error) {
	return r.dotGit.WriteObjectStream(typ, size, src)
}
