package main

import (
	"github.com/minigit-go/minigit/ginternals"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCheckoutEmptyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout-empty COMMIT",
		Short: "materialize a commit's tree onto an empty working tree",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return checkoutEmptyCmd(args[0])
	}

	return cmd
}

func checkoutEmptyCmd(commitName string) error {
	commitID, err := ginternals.NewOidFromStr(commitName)
	if err != nil {
		return errors.Wrapf(err, "%s is not a valid commit id", commitName)
	}

	r, err := openRepository()
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // nothing actionable to do with a close error here

	if err := r.CheckoutEmpty(commitID); err != nil {
		return errors.Wrap(err, "could not checkout commit")
	}
	return nil
}
