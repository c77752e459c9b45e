package minigit

import (
	"os"
	"path/filepath"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// executableFileMode is the permission bits written for a blob whose
// tree entry is object.ModeExecutable.
const executableFileMode os.FileMode = 0o755

// regularFileMode is the permission bits written for a blob whose tree
// entry is object.ModeFile.
const regularFileMode os.FileMode = 0o644

// CheckoutEmpty materializes commitID's tree onto the working tree,
// recursively. The precondition that the working tree is empty is the
// caller's responsibility; this only writes.
func (r *Repository) CheckoutEmpty(commitID ginternals.Oid) error {
	o, err := r.Object(commitID)
	if err != nil {
		return xerrors.Errorf("could not read commit %s: %w", commitID, err)
	}
	c, err := object.NewCommitFromObject(o)
	if err != nil {
		return xerrors.Errorf("%s is not a valid commit: %w", commitID, err)
	}

	fs := afero.NewOsFs()
	return r.checkoutTree(fs, c.TreeID(), r.WorkTreePath)
}

// checkoutTree materializes the tree identified by treeID into dir,
// recursing into subdirectories.
func (r *Repository) checkoutTree(fs afero.Fs, treeID ginternals.Oid, dir string) error {
	o, err := r.Object(treeID)
	if err != nil {
		return xerrors.Errorf("could not read tree %s: %w", treeID, err)
	}
	tree, err := object.ParseTree(o.Bytes())
	if err != nil {
		return xerrors.Errorf("%s is not a valid tree: %w", treeID, err)
	}

	for _, e := range tree.Entries() {
		path := filepath.Join(dir, string(e.Name))
		if err := r.checkoutEntry(fs, e, path); err != nil {
			return err
		}
	}
	return nil
}

// checkoutEntry writes a single tree entry to path.
func (r *Repository) checkoutEntry(fs afero.Fs, e object.TreeEntry, path string) error {
	switch e.Mode {
	case object.ModeDirectory:
		if err := fs.MkdirAll(path, 0o750); err != nil {
			return xerrors.Errorf("could not create directory %s: %w", path, err)
		}
		return r.checkoutTree(fs, e.ID, path)

	case object.ModeSymlink:
		o, err := r.Object(e.ID)
		if err != nil {
			return xerrors.Errorf("could not read blob %s: %w", e.ID, err)
		}
		return writeSymlink(fs, path, string(o.Bytes()))

	case object.ModeFile, object.ModeExecutable:
		o, err := r.Object(e.ID)
		if err != nil {
			return xerrors.Errorf("could not read blob %s: %w", e.ID, err)
		}
		mode := regularFileMode
		if e.Mode == object.ModeExecutable {
			mode = executableFileMode
		}
		if err := afero.WriteFile(fs, path, o.Bytes(), mode); err != nil {
			return xerrors.Errorf("could not write file %s: %w", path, err)
		}
		return nil

	default:
		return xerrors.Errorf("entry %s has unsupported mode %o", path, e.Mode)
	}
}

// writeSymlink creates a symlink at path pointing at target, using
// afero's optional Symlinker extension (afero.OsFs supports it).
func writeSymlink(fs afero.Fs, path, target string) error {
	sl, ok := fs.(afero.Symlinker)
	if !ok {
		return xerrors.New("filesystem does not support creating symlinks")
	}
	return sl.SymlinkIfPossible(target, path)
}
