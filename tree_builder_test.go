package minigit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minigit-go/minigit"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/minigit-go/minigit/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTreeBasic(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.txt"), []byte("nested\n"), 0o644))

	oid, err := r.WriteTree()
	require.NoError(t, err)

	o, err := r.Object(oid)
	require.NoError(t, err)
	assert.Equal(t, object.TypeTree, o.Type())

	tree, err := object.ParseTree(o.Bytes())
	require.NoError(t, err)
	entries := tree.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello.txt", string(entries[0].Name))
	assert.Equal(t, object.ModeFile, entries[0].Mode)
	assert.Equal(t, "sub", string(entries[1].Name))
	assert.Equal(t, object.ModeDirectory, entries[1].Mode)
}

// TestWriteTreeOmitsEmptyDirectories checks that a directory whose
// recursion produces zero entries is omitted entirely from the parent.
func TestWriteTreeOmitsEmptyDirectories(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.txt"), []byte("x"), 0o644))

	oid, err := r.WriteTree()
	require.NoError(t, err)

	o, err := r.Object(oid)
	require.NoError(t, err)
	tree, err := object.ParseTree(o.Bytes())
	require.NoError(t, err)

	entries := tree.Entries()
	require.Len(t, entries, 1, "the empty directory must be omitted entirely")
	assert.Equal(t, "present.txt", string(entries[0].Name))
}

// TestWriteTreeOmitsNestedEmptyDirectory checks the same rule one level
// deeper: a directory that only contains an empty subdirectory must
// itself disappear, not be kept as an entry pointing at an empty tree.
func TestWriteTreeOmitsNestedEmptyDirectory(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "outer", "inner"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.txt"), []byte("x"), 0o644))

	oid, err := r.WriteTree()
	require.NoError(t, err)

	o, err := r.Object(oid)
	require.NoError(t, err)
	tree, err := object.ParseTree(o.Bytes())
	require.NoError(t, err)

	entries := tree.Entries()
	require.Len(t, entries, 1, "outer/ has no non-empty descendant and must be omitted")
	assert.Equal(t, "present.txt", string(entries[0].Name))
}

func TestWriteTreeExecutableBit(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"), 0o755))

	oid, err := r.WriteTree()
	require.NoError(t, err)

	o, err := r.Object(oid)
	require.NoError(t, err)
	tree, err := object.ParseTree(o.Bytes())
	require.NoError(t, err)

	entries := tree.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, object.ModeExecutable, entries[0].Mode)
}

func TestWriteTreeIgnoresDotGit(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	oid, err := r.WriteTree()
	require.NoError(t, err)
	assert.Equal(t, "4b825dc642cb6eb9a060e54bf8d69288fbee4904", oid.String(), "an empty working tree besides .git/ produces the well-known empty tree oid")
}

func TestWriteTreeIsPermutationInvariant(t *testing.T) {
	t.Parallel()

	makeRepo := func(t *testing.T, names []string) (*minigit.Repository, string) {
		t.Helper()
		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)
		r, err := minigit.InitRepository(dir)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, r.Close()) })
		for _, n := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
		}
		return r, dir
	}

	r1, _ := makeRepo(t, []string{"a", "b", "c"})
	r2, _ := makeRepo(t, []string{"c", "a", "b"})

	oid1, err := r1.WriteTree()
	require.NoError(t, err)
	oid2, err := r2.WriteTree()
	require.NoError(t, err)

	assert.Equal(t, oid1, oid2, "tree oid must not depend on filesystem readdir order")
}
