package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/robotpool/cmd/robotpool/handlers"
)

// Apply returns the command that reconciles the declared fleet.
//
// Optional flags:
//
//	--config, -c: path to the configuration YAML (default: robotpool.yaml)
//	--skip-install: generate artifacts but perform no rescue installs
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token
func Apply() *cobra.Command {
	var configPath string
	var skipInstall bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the dedicated-server fleet",
		Long: `Reconcile the declared dedicated-server fleet against the cluster.

This derives every node's address from the declared topology, ensures the
vSwitch subnets exist on the cloud network, generates machine configs for
native-mode nodes and bootstrap tokens plus join instructions for
manual-mode nodes, and installs auto-install nodes over the rescue system.

Examples:
  # Reconcile using robotpool.yaml in the current directory
  robotpool apply

  # Reconcile using a specific config file
  robotpool apply -c production.yaml

  # Regenerate artifacts without touching any machine
  robotpool apply --skip-install`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, skipInstall)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: robotpool.yaml)")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Skip rescue-mode installs")

	return cmd
}
