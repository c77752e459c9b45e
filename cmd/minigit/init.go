package main

import (
	"fmt"

	"github.com/minigit-go/minigit"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "create an empty repository",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return initCmd(cmd, dir)
	}

	return cmd
}

func initCmd(cmd *cobra.Command, dir string) error {
	r, err := minigit.InitRepository(dir)
	if err != nil {
		return errors.Wrap(err, "could not init repository")
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s/\n", r.DotGitPath)
	return nil
}
