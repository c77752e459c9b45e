package main

import (
	"os"

	"github.com/minigit-go/minigit"
	"github.com/pkg/errors"
)

// openRepository discovers and opens the repository containing the
// current working directory.
func openRepository() (*minigit.Repository, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "could not get current working directory")
	}

	r, err := minigit.OpenRepository(wd)
	if err != nil {
		return nil, errors.Wrap(err, "could not open repository")
	}
	return r, nil
}
