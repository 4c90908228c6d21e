package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/robotpool/internal/provisioning"
)

// Destroy decommissions dedicated servers: cordon, drain, delete the
// node object, and remove the bootstrap-token secret. The hardware is
// never touched. With no hostnames the whole declared fleet is removed;
// removeSubnets additionally drops the vSwitch subnets and applies only
// to a full destroy. A full destroy must be confirmed with --yes.
func Destroy(ctx context.Context, configPath string, hostnames []string, removeSubnets, confirmed bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.KubeconfigPath == "" {
		return fmt.Errorf("destroy requires kubeconfig_path to drain nodes")
	}
	if len(hostnames) == 0 && !confirmed {
		return fmt.Errorf("destroying the whole fleet requires --yes")
	}
	if removeSubnets && len(hostnames) > 0 {
		return fmt.Errorf("--remove-subnets applies only to a full destroy")
	}

	pctx, err := newLifecycleContext(ctx, cfg, false)
	if err != nil {
		return err
	}

	if err := provisioning.RunPhases(pctx, []provisioning.Phase{&provisioning.TopologyPhase{}}); err != nil {
		return err
	}

	if err := provisioning.Decommission(pctx, hostnames); err != nil {
		return err
	}

	if removeSubnets {
		if pctx.Cloud == nil {
			return fmt.Errorf("removing subnets requires a cloud token")
		}
		network, err := pctx.Cloud.GetNetwork(pctx, cfg.ClusterName)
		if err != nil {
			return err
		}
		pctx.State.Network = network
		if err := provisioning.RemoveSubnets(pctx); err != nil {
			return err
		}
	}

	fmt.Printf("\nDecommission complete. Hardware untouched.\n")
	return nil
}
