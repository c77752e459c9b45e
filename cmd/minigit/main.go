// Command minigit is a small subset of git: enough to
// init a repository, hash and inspect loose objects, build and walk
// trees, assemble commits, materialize a working tree, and unpack a
// pack stream.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
