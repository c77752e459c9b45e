package main

import (
	"fmt"
	"io"

	"github.com/minigit-go/minigit/ginternals"
	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat-file -p OBJECT",
		Short: "print an object's content, pretty-printed according to its type",
		Args:  cobra.ExactArgs(1),
	}

	prettyPrint := cmd.Flags().BoolP("p", "p", false, "pretty-print the object's content based on its type")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !*prettyPrint {
			return errors.New("cat-file: only -p is supported")
		}
		return catFileCmd(cmd.OutOrStdout(), args[0])
	}

	return cmd
}

func catFileCmd(out io.Writer, objectName string) error {
	oid, err := ginternals.NewOidFromStr(objectName)
	if err != nil {
		return errors.Wrapf(err, "%s is not a valid object id", objectName)
	}

	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	o, err := r.Object(oid)
	if err != nil {
		return errors.Wrapf(err, "could not read object %s", objectName)
	}

	return prettyPrintObject(out, o)
}

// prettyPrintObject dispatches on the object's kind. Trees go through
// printTreeEntries, which ls-tree also calls directly.
func prettyPrintObject(out io.Writer, o *object.Object) error {
	if o.Type() == object.TypeBlob {
		_, err := out.Write(object.NewBlob(o).Bytes())
		return err
	}
	if o.Type() != object.TypeTree {
		_, err := out.Write(o.Bytes())
		return err
	}

	tree, err := object.ParseTree(o.Bytes())
	if err != nil {
		return errors.Wrap(err, "could not parse tree")
	}
	return printTreeEntries(out, tree, false)
}

// printTreeEntries writes one line per entry. nameOnly switches between
// the full "MODE SP TYPE SP OID TAB NAME" line and a bare name line.
func printTreeEntries(out io.Writer, tree *object.Tree, nameOnly bool) error {
	for _, e := range tree.Entries() {
		if nameOnly {
			if _, err := fmt.Fprintf(out, "%s\n", e.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(out, "%06d %s %s\t%s\n", e.Mode, e.Mode.ObjectType(), e.ID, e.Name); err != nil {
			return err
		}
	}
	return nil
}
