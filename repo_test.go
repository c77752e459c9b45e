package minigit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minigit-go/minigit"
	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/minigit-go/minigit/internal/gitpath"
	"github.com/minigit-go/minigit/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRepository(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	assert.Equal(t, filepath.Join(dir, gitpath.DotGitPath), r.DotGitPath)

	head := filepath.Join(r.DotGitPath, gitpath.HEADPath)
	assert.FileExists(t, head)
}

func TestOpenRepositoryDiscoversFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	_, err := minigit.InitRepository(dir)
	require.NoError(t, err)

	sub := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	r, err := minigit.OpenRepository(sub)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	assert.Equal(t, dir, r.WorkTreePath)
}

func TestOpenRepositoryFailsOutsideARepo(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	_, err := minigit.OpenRepository(dir)
	assert.ErrorIs(t, err, ginternals.ErrNotARepository)
}

func TestWriteAndGetObjectRoundTrip(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	o := object.New(object.TypeBlob, []byte("hello\n"))
	oid, err := r.WriteObject(o)
	require.NoError(t, err)
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", oid.String())

	has, err := r.HasObject(oid)
	require.NoError(t, err)
	assert.True(t, has)

	got, err := r.Object(oid)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\n"), got.Bytes())
}
