package minigit

import (
	"os"
	"path/filepath"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ownerExecBit is the owner-execute permission bit consulted when
// choosing between ModeFile and ModeExecutable; group/other exec bits
// are ignored.
const ownerExecBit = 0o100

// dotGitDirName is the one working-tree entry write-tree always skips.
const dotGitDirName = ".git"

// WriteTree walks the repository's working tree from its root (never
// from the caller's current directory, which may sit in a subdirectory)
// and writes a tree object for every directory it visits, recursively.
// It returns the Oid of the root tree.
func (r *Repository) WriteTree() (ginternals.Oid, error) {
	fs := afero.NewOsFs()
	oid, _, err := r.writeTreeDir(fs, r.WorkTreePath)
	return oid, err
}

// writeTreeDir builds and writes the tree object for the directory at
// dir, recursing into subdirectories first so their Oids are available
// for this level's entries. The returned count is the number of entries
// in this directory's own tree, used by the caller to decide whether an
// empty subdirectory should be omitted entirely.
func (r *Repository) writeTreeDir(fs afero.Fs, dir string) (ginternals.Oid, int, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return ginternals.NullOid, 0, xerrors.Errorf("could not read directory %s: %w", dir, err)
	}

	entries := make([]object.TreeEntry, 0, len(infos))
	for _, info := range infos {
		if info.Name() == dotGitDirName {
			continue
		}

		entry, ok, err := r.writeTreeEntry(fs, dir, info)
		if err != nil {
			return ginternals.NullOid, 0, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	tree := object.NewTree(entries)
	o := object.New(object.TypeTree, tree.Encode())
	oid, err := r.WriteObject(o)
	if err != nil {
		return ginternals.NullOid, 0, xerrors.Errorf("could not write tree for %s: %w", dir, err)
	}
	return oid, len(entries), nil
}

// writeTreeEntry produces the tree entry for one directory child. ok is
// false when the child is an empty directory, which is omitted entirely
// from the parent rather than recorded as a tree entry.
func (r *Repository) writeTreeEntry(fs afero.Fs, dir string, info os.FileInfo) (object.TreeEntry, bool, error) {
	path := filepath.Join(dir, info.Name())
	name := []byte(info.Name())

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := readSymlink(fs, path)
		if err != nil {
			return object.TreeEntry{}, false, xerrors.Errorf("could not read symlink %s: %w", path, err)
		}
		oid, err := r.WriteObject(object.New(object.TypeBlob, target))
		if err != nil {
			return object.TreeEntry{}, false, xerrors.Errorf("could not write blob for %s: %w", path, err)
		}
		return object.TreeEntry{Mode: object.ModeSymlink, Name: name, ID: oid}, true, nil
	}

	if info.IsDir() {
		oid, count, err := r.writeTreeDir(fs, path)
		if err != nil {
			return object.TreeEntry{}, false, err
		}
		if count == 0 {
			return object.TreeEntry{}, false, nil
		}
		return object.TreeEntry{Mode: object.ModeDirectory, Name: name, ID: oid}, true, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return object.TreeEntry{}, false, xerrors.Errorf("could not read file %s: %w", path, err)
	}
	mode := object.ModeFile
	if info.Mode().Perm()&ownerExecBit != 0 {
		mode = object.ModeExecutable
	}
	oid, err := r.WriteObject(object.New(object.TypeBlob, content))
	if err != nil {
		return object.TreeEntry{}, false, xerrors.Errorf("could not write blob for %s: %w", path, err)
	}
	return object.TreeEntry{Mode: mode, Name: name, ID: oid}, true, nil
}

// readSymlink reads the raw target bytes of a symlink without
// dereferencing it, using afero's optional LinkReader extension when
// the underlying Fs supports it (afero.OsFs does).
func readSymlink(fs afero.Fs, path string) ([]byte, error) {
	lr, ok := fs.(afero.LinkReader)
	if !ok {
		return nil, xerrors.Errorf("filesystem does not support reading symlinks")
	}
	target, err := lr.ReadlinkIfPossible(path)
	if err != nil {
		return nil, err
	}
	return []byte(target), nil
}
