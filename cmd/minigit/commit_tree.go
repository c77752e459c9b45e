package main

import (
	"fmt"
	"io"
	"os"

	"github.com/minigit-go/minigit"
	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCommitTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit-tree TREE -m MSG [-m MSG...] [-p PARENT...]",
		Short: "create a new commit object from a tree and its identity environment",
		Args:  cobra.ExactArgs(1),
	}

	messages := cmd.Flags().StringArrayP("message", "m", nil, "the commit message (may be given multiple times for multiple paragraphs)")
	parents := cmd.Flags().StringArrayP("parent", "p", nil, "a parent commit id (may be given multiple times)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return commitTreeCmd(cmd.OutOrStdout(), args[0], *messages, *parents)
	}

	return cmd
}

func commitTreeCmd(out io.Writer, treeName string, messages, parents []string) error {
	if len(messages) == 0 {
		return errors.New("commit-tree requires at least one -m message")
	}

	treeID, err := ginternals.NewOidFromStr(treeName)
	if err != nil {
		return errors.Wrapf(err, "%s is not a valid tree id", treeName)
	}

	parentIDs := make([]ginternals.Oid, len(parents))
	for i, p := range parents {
		parentIDs[i], err = ginternals.NewOidFromStr(p)
		if err != nil {
			return errors.Wrapf(err, "%s is not a valid parent id", p)
		}
	}

	author, err := signatureFromEnv("GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_AUTHOR_DATE")
	if err != nil {
		return err
	}
	committer, err := signatureFromEnv("GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL", "GIT_COMMITTER_DATE")
	if err != nil {
		return err
	}

	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	oid, err := r.CommitTree(treeID, minigit.CommitTreeOptions{
		Messages:  messages,
		ParentIDs: parentIDs,
		Author:    author,
		Committer: committer,
	})
	if err != nil {
		return errors.Wrap(err, "could not write commit")
	}

	fmt.Fprintln(out, oid)
	return nil
}

// signatureFromEnv reads a NAME/EMAIL/DATE triple of environment
// variables into a Signature.
func signatureFromEnv(nameVar, emailVar, dateVar string) (object.Signature, error) {
	name, email, date := os.Getenv(nameVar), os.Getenv(emailVar), os.Getenv(dateVar)
	if name == "" || email == "" || date == "" {
		return object.Signature{}, errors.Errorf("%s, %s, and %s must all be set", nameVar, emailVar, dateVar)
	}
	return object.Signature{Name: name, Email: email, Date: date}, nil
}
