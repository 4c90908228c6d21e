package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/robotpool/cmd/robotpool/handlers"
)

// Install returns the command that forces a rescue-mode install.
func Install() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "install <hostname>...",
		Short: "Force a rescue-mode install on specific servers",
		Long: `Install the configured Talos image on the named servers, even when the
recorded install state says nothing changed.

The servers must be booted into the Hetzner rescue system and reachable
over SSH.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Install(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: robotpool.yaml)")

	return cmd
}
