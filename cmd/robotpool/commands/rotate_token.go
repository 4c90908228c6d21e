package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/robotpool/cmd/robotpool/handlers"
)

// RotateToken returns the command that rotates bootstrap tokens.
func RotateToken() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rotate-token <hostname>...",
		Short: "Rotate the bootstrap token of manual-mode servers",
		Long: `Issue a fresh bootstrap token for the named manual-mode servers, update
the token secret in the cluster, and regenerate the join artifacts.

Rotation is explicit: re-running apply always reuses the recorded token.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.RotateToken(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: robotpool.yaml)")

	return cmd
}
