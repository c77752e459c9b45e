package minigit

import (
	"strings"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"golang.org/x/xerrors"
)

// CommitTreeOptions carries the arguments to CommitTree, mirroring
// `commit-tree <tree> -m <msg>... [-p <parent>]`.
type CommitTreeOptions struct {
	// Messages are joined as paragraphs separated by a single blank
	// line, with exactly one trailing newline on the assembled result.
	Messages  []string
	ParentIDs []ginternals.Oid
	Author    object.Signature
	Committer object.Signature
}

// CommitTree assembles and writes a commit object pointing at treeID,
// returning its Oid.
func (r *Repository) CommitTree(treeID ginternals.Oid, opts CommitTreeOptions) (ginternals.Oid, error) {
	if len(opts.Messages) == 0 {
		return ginternals.NullOid, xerrors.New("commit-tree requires at least one -m message")
	}

	c := object.NewCommit(treeID, opts.Author, &object.CommitOptions{
		Message:   joinMessages(opts.Messages),
		Committer: opts.Committer,
		ParentIDs: opts.ParentIDs,
	})

	oid, err := r.WriteObject(c.ToObject())
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write commit: %w", err)
	}
	return oid, nil
}

// joinMessages turns one or more -m arguments into a single message
// text: paragraphs separated by a blank line, ending with exactly one
// trailing newline.
func joinMessages(messages []string) string {
	return strings.Join(messages, "\n\n") + "\n"
}
