package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/provisioning"
)

// Install forces a rescue-mode install on the named servers, ignoring
// the recorded install state. The servers must be native-mode nodes
// booted into the rescue system. Failures are collected per node so one
// unreachable server does not block its siblings.
func Install(ctx context.Context, configPath string, hostnames []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	pctx, err := newLifecycleContext(ctx, cfg, true)
	if err != nil {
		return err
	}

	if err := provisioning.RunPhases(pctx, []provisioning.Phase{&provisioning.TopologyPhase{}}); err != nil {
		return err
	}

	targets := make([]fleet.Node, 0, len(hostnames))
	for _, name := range hostnames {
		node, ok := pctx.State.Routed.Lookup(name)
		if !ok {
			return &fleet.ValidationError{Hostname: name, Reason: "not part of the declared fleet"}
		}
		if node.Mode != fleet.JoinModeNative {
			return &fleet.ValidationError{Hostname: name, Reason: "manual-mode nodes are installed by their operator"}
		}
		targets = append(targets, *node)
	}

	var failures []error
	for _, node := range targets {
		pctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventNodeInstalling,
			Phase:    "install",
			Resource: node.Hostname,
			Message:  node.ImageURL,
		})

		if err := pctx.Installer.Install(pctx, node); err != nil {
			var installErr *fleet.RemoteInstallFailure
			if errors.As(err, &installErr) {
				failures = append(failures, err)
				pctx.Observer.Event(provisioning.Event{
					Type:     provisioning.EventNodeInstallFailed,
					Phase:    "install",
					Resource: node.Hostname,
					Message:  err.Error(),
				})
				continue
			}
			return err
		}

		if err := pctx.Installs.MarkInstalled(node); err != nil {
			return err
		}
		pctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventNodeInstalled,
			Phase:    "install",
			Resource: node.Hostname,
			Message:  "installed and rebooting",
		})
	}

	if len(failures) > 0 {
		for _, err := range failures {
			fmt.Printf("Install failure: %v\n", err)
		}
		return fmt.Errorf("%d node install(s) failed", len(failures))
	}
	return nil
}
