// Command stringhash drives a stringhash table from the command line: a
// timing benchmark of the basic operations, and loading key/value files.
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
