package minigit_test

import (
	"testing"

	"github.com/minigit-go/minigit"
	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/minigit-go/minigit/internal/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitTree(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	treeOid, err := r.WriteTree()
	require.NoError(t, err)

	author := object.Signature{Name: "A U Thor", Email: "author@example.com", Date: "@0 +0000"}
	oid, err := r.CommitTree(treeOid, minigit.CommitTreeOptions{
		Messages: []string{"first commit"},
		Author:   author,
	})
	require.NoError(t, err)

	o, err := r.Object(oid)
	require.NoError(t, err)
	assert.Equal(t, object.TypeCommit, o.Type())

	c, err := object.NewCommitFromObject(o)
	require.NoError(t, err)
	assert.Equal(t, treeOid, c.TreeID())
	assert.Equal(t, author, c.Author())
	assert.Equal(t, author, c.Committer(), "committer defaults to author")
	assert.Equal(t, "first commit\n", c.Message())
	assert.Empty(t, c.ParentIDs())
}

// TestCommitTreeMultipleMessagesJoinAsParagraphs checks the paragraph-
// joining rule for multiple -m arguments.
func TestCommitTreeMultipleMessagesJoinAsParagraphs(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	treeOid, err := r.WriteTree()
	require.NoError(t, err)

	author := object.Signature{Name: "A", Email: "a@b.c", Date: "@0 +0000"}
	oid, err := r.CommitTree(treeOid, minigit.CommitTreeOptions{
		Messages: []string{"summary line", "body paragraph one", "body paragraph two"},
		Author:   author,
	})
	require.NoError(t, err)

	o, err := r.Object(oid)
	require.NoError(t, err)
	c, err := object.NewCommitFromObject(o)
	require.NoError(t, err)
	assert.Equal(t, "summary line\n\nbody paragraph one\n\nbody paragraph two\n", c.Message())
}

func TestCommitTreeWithParents(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	treeOid, err := r.WriteTree()
	require.NoError(t, err)

	author := object.Signature{Name: "A", Email: "a@b.c", Date: "@0 +0000"}
	parentOid, err := r.CommitTree(treeOid, minigit.CommitTreeOptions{
		Messages: []string{"root"},
		Author:   author,
	})
	require.NoError(t, err)

	childOid, err := r.CommitTree(treeOid, minigit.CommitTreeOptions{
		Messages:  []string{"child"},
		Author:    author,
		ParentIDs: []ginternals.Oid{parentOid},
	})
	require.NoError(t, err)

	o, err := r.Object(childOid)
	require.NoError(t, err)
	c, err := object.NewCommitFromObject(o)
	require.NoError(t, err)
	assert.Equal(t, []ginternals.Oid{parentOid}, c.ParentIDs())
}

func TestCommitTreeRequiresAtLeastOneMessage(t *testing.T) {
	t.Parallel()

	dir, cleanup := testhelper.TempDir(t)
	t.Cleanup(cleanup)

	r, err := minigit.InitRepository(dir)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, r.Close()) })

	treeOid, err := r.WriteTree()
	require.NoError(t, err)

	_, err = r.CommitTree(treeOid, minigit.CommitTreeOptions{
		Author: object.Signature{Name: "A", Email: "a@b.c", Date: "@0 +0000"},
	})
	assert.Error(t, err)
}
