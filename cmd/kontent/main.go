// Command kontent queries the Delivery and Content Management APIs from the shell.
//
// Configuration is read from flags, KONTENT_* environment variables and
// ~/.kontent/config.yml, in that order of precedence.
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
