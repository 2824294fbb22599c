// Command entitygraph drives the incremental connected-component graph
// from scripted scenarios or randomized simulations.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
