// Package commands defines the CLI command structure.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the storeplane CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storeplane",
		Short: "Provision tenant storefronts on a shared Kubernetes cluster",
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Version())

	return cmd
}
