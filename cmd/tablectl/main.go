// Command tablectl queries and edits a users seed from the command line
// with the same engine the server uses.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
