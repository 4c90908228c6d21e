package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/robotpool/cmd/robotpool/handlers"
)

// Destroy returns the command that decommissions dedicated servers.
func Destroy() *cobra.Command {
	var configPath string
	var removeSubnets bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "destroy [hostname...]",
		Short: "Decommission dedicated servers from the cluster",
		Long: `Decommission dedicated servers: cordon, drain, remove the node object,
and delete its bootstrap-token secret.

The hardware is never touched. Dedicated servers are externally owned
machines; they are detached from the cluster, not deleted or wiped.

With no hostnames the whole declared fleet is decommissioned, which
requires --yes; pass hostnames to remove individual servers.

Examples:
  # Remove one server from the cluster
  robotpool destroy metal-3

  # Decommission the whole fleet and drop the vSwitch subnets
  robotpool destroy --yes --remove-subnets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Destroy(cmd.Context(), configPath, args, removeSubnets, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: robotpool.yaml)")
	cmd.Flags().BoolVar(&removeSubnets, "remove-subnets", false, "Also remove the vSwitch subnets (full destroy only)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm decommissioning the whole fleet")

	return cmd
}
