package main

import (
	"io"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] TREE",
		Short: "list the contents of a tree object",
		Args:  cobra.ExactArgs(1),
	}

	nameOnly := cmd.Flags().Bool("name-only", false, "list only the filenames instead of the full entry")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return lsTreeCmd(cmd.OutOrStdout(), args[0], *nameOnly)
	}

	return cmd
}

func lsTreeCmd(out io.Writer, treeName string, nameOnly bool) error {
	oid, err := ginternals.NewOidFromStr(treeName)
	if err != nil {
		return errors.Wrapf(err, "%s is not a valid object id", treeName)
	}

	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	o, err := r.Object(oid)
	if err != nil {
		return errors.Wrapf(err, "could not read object %s", treeName)
	}
	if o.Type() != object.TypeTree {
		return errors.Errorf("%s is a %s, not a tree", treeName, o.Type())
	}

	tree, err := object.ParseTree(o.Bytes())
	if err != nil {
		return errors.Wrap(err, "could not parse tree")
	}
	return printTreeEntries(out, tree, nameOnly)
}
