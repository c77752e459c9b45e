package main

import (
	"fmt"
	"io"
	"os"

	"github.com/minigit-go/minigit/ginternals/object"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-object [-w] FILE",
		Short: "compute the object id of a file, optionally writing it as a blob",
		Args:  cobra.ExactArgs(1),
	}

	write := cmd.Flags().BoolP("w", "w", false, "write the object into the object database")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return hashObjectCmd(cmd.OutOrStdout(), args[0], *write)
	}

	return cmd
}

func hashObjectCmd(out io.Writer, filePath string, write bool) error {
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "could not open %s", filePath)
	}
	defer f.Close() //nolint:errcheck // read-only file

	// The declared size is the file's length at open time; the stream
	// yielding fewer bytes than that is fatal.
	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "could not stat %s", filePath)
	}
	size := info.Size()

	if !write {
		oid, err := object.HashStream(object.TypeBlob, size, f)
		if err != nil {
			return errors.Wrapf(err, "could not hash %s", filePath)
		}
		fmt.Fprintln(out, oid)
		return nil
	}

	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	oid, err := r.WriteObjectStream(object.TypeBlob, size, f)
	if err != nil {
		return errors.Wrapf(err, "could not write object for %s", filePath)
	}
	fmt.Fprintln(out, oid)
	return nil
}
