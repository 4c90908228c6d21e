// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// DefaultConfigFile is the configuration file looked for when no
// --config flag is given.
const DefaultConfigFile = "robotpool.yaml"

// Root returns the root command for the robotpool CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "robotpool",
		Short: "Join dedicated servers into a Talos Kubernetes cluster",
	}

	cmd.AddCommand(Apply())
	cmd.AddCommand(Install())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(RotateToken())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
