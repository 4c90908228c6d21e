package provisioning

import (
	"fmt"

	"github.com/imamik/robotpool/internal/fleet"
)

// Decommission removes the named dedicated servers from the cluster:
// cordon, drain, delete the node object, delete the bootstrap-token
// secret, and drop recorded tokens and install state.
//
// The hardware is never touched. Dedicated servers are externally owned
// machines; unlike cloud instances they are not deleted or wiped, they
// are only detached from the cluster. An empty hostname list means the
// whole declared fleet.
func Decommission(ctx *Context, hostnames []string) error {
	if ctx.Kube == nil {
		return fmt.Errorf("decommissioning requires a kubernetes client")
	}

	targets, err := decommissionTargets(ctx, hostnames)
	if err != nil {
		return err
	}

	for _, node := range targets {
		ctx.Observer.Event(Event{
			Type:     EventNodeDraining,
			Phase:    "decommission",
			Resource: node.Hostname,
			Message:  "cordoning and draining",
		})

		if err := ctx.Kube.CordonNode(ctx, node.Hostname); err != nil {
			return err
		}
		if err := ctx.Kube.DrainNode(ctx, node.Hostname); err != nil {
			return err
		}
		if err := ctx.Kube.DeleteNode(ctx, node.Hostname); err != nil {
			return err
		}

		if ctx.Tokens != nil {
			if tok, ok := ctx.Tokens.Lookup(node.Hostname); ok {
				if err := ctx.Kube.DeleteSecret(ctx, "kube-system", tok.SecretName()); err != nil {
					return err
				}
				if err := ctx.Tokens.Forget(node.Hostname); err != nil {
					return err
				}
			}
		}
		if ctx.Installs != nil {
			if err := ctx.Installs.Forget(node.Hostname); err != nil {
				return err
			}
		}

		ctx.Observer.Event(Event{
			Type:     EventNodeRemoved,
			Phase:    "decommission",
			Resource: node.Hostname,
			Message:  "detached from cluster, hardware untouched",
		})
	}
	return nil
}

// RemoveSubnets removes the vSwitch subnets of groups that no longer
// have any nodes. It runs only on a full destroy: while any node of a
// group remains, the subnet carries its traffic.
func RemoveSubnets(ctx *Context) error {
	if ctx.Cloud == nil || ctx.State.Network == nil {
		return nil
	}

	for _, group := range ctx.State.Groups {
		ipRange := ctx.State.GroupRanges[group.VSwitch]
		if err := ctx.Cloud.RemoveSubnet(ctx, ctx.State.Network, ipRange); err != nil {
			return err
		}
		ctx.Observer.Event(Event{
			Type:     EventSubnetRemoved,
			Phase:    "decommission",
			Resource: group.VSwitch,
			Message:  ipRange,
		})
	}
	return nil
}

func decommissionTargets(ctx *Context, hostnames []string) ([]fleet.Node, error) {
	if len(hostnames) == 0 {
		return ctx.State.Nodes, nil
	}

	targets := make([]fleet.Node, 0, len(hostnames))
	for _, name := range hostnames {
		node, ok := ctx.State.Routed.Lookup(name)
		if !ok {
			return nil, &fleet.ValidationError{Hostname: name, Reason: "not part of the declared fleet"}
		}
		targets = append(targets, *node)
	}
	return targets, nil
}
