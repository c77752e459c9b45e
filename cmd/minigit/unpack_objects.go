package main

import (
	"io"

	"github.com/minigit-go/minigit/ginternals/packfile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newUnpackObjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack-objects",
		Short: "read a pack stream from standard input and write its objects as loose objects",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return unpackObjectsCmd(cmd.InOrStdin())
	}

	return cmd
}

func unpackObjectsCmd(in io.Reader) error {
	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	if _, err := packfile.Unpack(in, r); err != nil {
		return errors.Wrap(err, "could not unpack objects")
	}
	return nil
}
