package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "minigit",
		Short:         "a small content-addressed object store, compatible with git's on-disk format",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCatFileCmd())
	cmd.AddCommand(newHashObjectCmd())
	cmd.AddCommand(newLsTreeCmd())
	cmd.AddCommand(newWriteTreeCmd())
	cmd.AddCommand(newCommitTreeCmd())
	cmd.AddCommand(newCheckoutEmptyCmd())
	cmd.AddCommand(newUnpackObjectsCmd())

	return cmd
}
