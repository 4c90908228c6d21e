package provisioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/robotpool/internal/bootstrap"
	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/platform/talos"
)

// ApplyPhases is the ordered apply pipeline.
func ApplyPhases() []Phase {
	return []Phase{
		&TopologyPhase{},
		&NetworkPhase{},
		&ArtifactsPhase{},
		&InstallPhase{},
		&AddonsPhase{},
	}
}

// TopologyPhase normalizes the declared fleet, partitions it into
// connectivity groups, derives every group's address range, and assigns
// each node its address. It is pure computation; no API is touched.
type TopologyPhase struct{}

func (p *TopologyPhase) Name() string { return "topology" }

func (p *TopologyPhase) Run(ctx *Context) error {
	nodes, err := fleet.Normalize(ctx.Config.ClusterName, ctx.Config.FlattenNodes(), ctx.Config.ClusterLabels)
	if err != nil {
		return err
	}

	groups := fleet.GroupByVSwitch(nodes)
	ranges, err := ctx.Config.GroupRanges(fleet.GroupIDs(nodes))
	if err != nil {
		return err
	}

	gateway, err := ctx.Config.GroupGateway()
	if err != nil {
		return err
	}

	addresses := make(map[string]string, len(nodes))
	for _, group := range groups {
		groupRange := ranges[group.VSwitch]
		assigned := make(map[string]string, len(group.Nodes))
		for i, node := range group.Nodes {
			addr := node.PrivateIP
			if addr == "" {
				addr, err = config.NodeAddress(groupRange, i)
				if err != nil {
					return fmt.Errorf("group %s node %s: %w", group.VSwitch, node.Hostname, err)
				}
			} else if ok, err := config.CIDRContains(groupRange, addr); err != nil || !ok {
				return &fleet.ValidationError{
					Hostname: node.Hostname,
					Reason:   fmt.Sprintf("declared private_ip %s is outside group range %s", addr, groupRange),
				}
			}
			// A declared private_ip can land on another node's slot, so
			// every assignment is checked, derived or not.
			if other, taken := assigned[addr]; taken {
				return &fleet.ValidationError{
					Hostname: node.Hostname,
					Reason:   fmt.Sprintf("address %s is already assigned to %s in group %s", addr, other, group.VSwitch),
				}
			}
			assigned[addr] = node.Hostname
			addresses[node.Hostname] = addr + prefixLength(groupRange)
		}
	}

	ctx.State.Nodes = nodes
	ctx.State.Groups = groups
	ctx.State.Routed = fleet.Route(nodes)
	ctx.State.GroupRanges = ranges
	ctx.State.Addresses = addresses
	ctx.State.Gateway = gateway

	ctx.Observer.Printf("topology: %d nodes in %d groups (%d native, %d manual)",
		len(nodes), len(groups), len(ctx.State.Routed.Native), len(ctx.State.Routed.Manual))
	return nil
}

// NetworkPhase ensures every connectivity group's range exists as a
// vSwitch subnet on the cluster network. The network itself is owned by
// the core provisioner and only looked up.
type NetworkPhase struct{}

func (p *NetworkPhase) Name() string { return "network" }

func (p *NetworkPhase) Run(ctx *Context) error {
	if ctx.Cloud == nil {
		ctx.Observer.Printf("network: no cloud client, skipping subnet reconciliation")
		return nil
	}

	network, err := ctx.Cloud.GetNetwork(ctx, ctx.Config.ClusterName)
	if err != nil {
		return err
	}
	ctx.State.Network = network

	for _, group := range ctx.State.Groups {
		vswitchID, ok := ctx.Config.Network.VSwitchIDs[group.VSwitch]
		if !ok {
			return &fleet.ConfigurationError{Hostname: group.VSwitch, Field: "network.vswitch_ids"}
		}

		ipRange := ctx.State.GroupRanges[group.VSwitch]
		if err := ctx.Cloud.EnsureVSwitchSubnet(ctx, network, ipRange, ctx.Config.Network.Zone, vswitchID); err != nil {
			return err
		}
		ctx.Observer.Event(Event{
			Type:     EventSubnetEnsured,
			Phase:    p.Name(),
			Resource: group.VSwitch,
			Message:  ipRange,
		})
	}
	return nil
}

// ArtifactsPhase generates the per-node join artifacts: full machine
// configurations for native nodes, bootstrap-token secrets and join
// instructions for manual nodes. Manual-node secrets are also applied
// to the cluster when a Kubernetes client is wired.
type ArtifactsPhase struct{}

func (p *ArtifactsPhase) Name() string { return "artifacts" }

func (p *ArtifactsPhase) Run(ctx *Context) error {
	if err := p.nativeArtifacts(ctx); err != nil {
		return err
	}
	return p.manualArtifacts(ctx)
}

func (p *ArtifactsPhase) nativeArtifacts(ctx *Context) error {
	if len(ctx.State.Routed.Native) > 0 && ctx.Generator == nil {
		return fmt.Errorf("native-mode nodes declared but no config generator available")
	}

	for _, node := range ctx.State.Routed.Native {
		net := talos.NodeNetwork{
			Address:     ctx.State.Addresses[node.Hostname],
			Gateway:     ctx.State.Gateway,
			ClusterCIDR: ctx.Config.Network.IPv4CIDR,
			NodeCIDR:    ctx.Config.Network.NodeIPv4CIDR,
		}

		data, err := ctx.Generator.GenerateNodeConfig(node, net, ctx.Config.ClusterPatch, ctx.Config.PoolPatch(node.Pool))
		if err != nil {
			return err
		}
		ctx.State.NodeConfigs[node.Hostname] = data
		ctx.Observer.Event(Event{
			Type:     EventArtifactWritten,
			Phase:    p.Name(),
			Resource: node.Hostname,
			Message:  "machine config generated",
		})
	}
	return nil
}

func (p *ArtifactsPhase) manualArtifacts(ctx *Context) error {
	if len(ctx.State.Routed.Manual) > 0 && ctx.Tokens == nil {
		return fmt.Errorf("manual-mode nodes declared but no token store available")
	}

	for _, node := range ctx.State.Routed.Manual {
		reused := false
		if _, ok := ctx.Tokens.Lookup(node.Hostname); ok {
			reused = true
		}
		tok, err := ctx.Tokens.Ensure(node.Hostname)
		if err != nil {
			return err
		}
		if !reused {
			ctx.Observer.Event(Event{
				Type:     EventTokenIssued,
				Phase:    p.Name(),
				Resource: node.Hostname,
				Message:  tok.SecretName(),
			})
		}

		secretFile := node.Hostname + "-token.yaml"
		manifest, err := bootstrap.SecretManifest(ctx.Config.ClusterName, node.Hostname, tok)
		if err != nil {
			return err
		}
		ctx.State.Secrets[node.Hostname] = manifest

		instructions, err := bootstrap.RenderInstructions(ctx.Config.Endpoint, node, tok, secretFile)
		if err != nil {
			return err
		}
		ctx.State.Instructions[node.Hostname] = instructions

		if ctx.Kube != nil {
			secret := bootstrap.BuildSecret(ctx.Config.ClusterName, node.Hostname, tok)
			if err := ctx.Kube.ApplySecret(ctx, secret); err != nil {
				return err
			}
		}
	}
	return nil
}

// InstallPhase performs rescue-mode installs on native auto-install
// nodes whose image or disk changed since the last completed install.
// Installs are best effort: a failed node is recorded and skipped, the
// rest of the fleet proceeds.
type InstallPhase struct{}

func (p *InstallPhase) Name() string { return "install" }

func (p *InstallPhase) Run(ctx *Context) error {
	if ctx.Installer == nil {
		return nil
	}

	candidates := make([]fleet.Node, 0)
	for _, node := range ctx.State.Routed.Native {
		if !node.AutoInstall {
			continue
		}
		if ctx.Installs != nil && !ctx.Installs.NeedsInstall(node) {
			ctx.Observer.Event(Event{
				Type:     EventNodeSkipped,
				Phase:    p.Name(),
				Resource: node.Hostname,
				Message:  "image and disk unchanged",
			})
			continue
		}
		candidates = append(candidates, node)
	}

	for i, node := range candidates {
		ctx.Observer.Event(Event{
			Type:     EventNodeInstalling,
			Phase:    p.Name(),
			Resource: node.Hostname,
			Message:  node.ImageURL,
		})
		ctx.Observer.Progress(p.Name(), i+1, len(candidates))

		if err := ctx.Installer.Install(ctx, node); err != nil {
			var installErr *fleet.RemoteInstallFailure
			if errors.As(err, &installErr) {
				ctx.State.InstallFailures = append(ctx.State.InstallFailures, err)
				ctx.Observer.Event(Event{
					Type:     EventNodeInstallFailed,
					Phase:    p.Name(),
					Resource: node.Hostname,
					Message:  err.Error(),
				})
				continue
			}
			return err
		}

		if ctx.Installs != nil {
			if err := ctx.Installs.MarkInstalled(node); err != nil {
				return err
			}
		}
		ctx.State.Installed = append(ctx.State.Installed, node.Hostname)
		ctx.Observer.Event(Event{
			Type:     EventNodeInstalled,
			Phase:    p.Name(),
			Resource: node.Hostname,
			Message:  "installed and rebooting",
		})
	}
	return nil
}

// AddonsPhase renders the enabled addon manifests.
type AddonsPhase struct {
	// Render is swappable for tests; nil means the real addon renderer.
	Render func(cfg *config.Config) (map[string][]byte, error)
}

func (p *AddonsPhase) Name() string { return "addons" }

func (p *AddonsPhase) Run(ctx *Context) error {
	render := p.Render
	if render == nil {
		render = renderAddons
	}

	manifests, err := render(ctx.Config)
	if err != nil {
		return err
	}
	for name, content := range manifests {
		ctx.State.Addons[name] = content
		ctx.Observer.Event(Event{
			Type:     EventArtifactWritten,
			Phase:    p.Name(),
			Resource: name,
			Message:  "addon manifest rendered",
		})
	}
	return nil
}

// prefixLength extracts the "/nn" suffix of a CIDR.
func prefixLength(cidr string) string {
	if idx := strings.LastIndex(cidr, "/"); idx >= 0 {
		return cidr[idx:]
	}
	return ""
}
