// Package main is the entry point for the storeplane control plane.
//
// storeplane provisions isolated e-commerce storefront instances on a shared
// Kubernetes cluster and exposes a small HTTP API for managing them.
//
// For detailed usage information, run:
//
//	storeplane --help
package main

import (
	"fmt"
	"os"

	"github.com/storeplane/storeplane/cmd/storeplane/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
