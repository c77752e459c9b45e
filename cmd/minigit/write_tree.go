package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newWriteTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-tree",
		Short: "build a tree object from the current working tree",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return writeTreeCmd(cmd.OutOrStdout())
	}

	return cmd
}

func writeTreeCmd(out io.Writer) error {
	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	oid, err := r.WriteTree()
	if err != nil {
		return errors.Wrap(err, "could not write tree")
	}

	fmt.Fprintln(out, oid)
	return nil
}
