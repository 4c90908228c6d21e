package talos

import (
	"github.com/imamik/robotpool/internal/fleet"
)

// NodeNetwork carries the topology-derived network facts for one node.
type NodeNetwork struct {
	// Address is the node's private address with the range's prefix
	// length, e.g. "10.0.94.129/25". It becomes the node's sole
	// interface address.
	Address string
	// Gateway is the cloud network gateway the mandatory route points at.
	Gateway string
	// ClusterCIDR is the network the mandatory route covers.
	ClusterCIDR string
	// NodeCIDR bounds the kubelet's node IP selection.
	NodeCIDR string
}

// BuildNodePatch assembles the full config patch for one native-mode
// node by merging three layers in fixed precedence: cluster-wide
// defaults, pool-level settings, node-specific fields. Later layers win
// key-by-key, not document-by-document.
//
// A missing install disk or interface is a per-node configuration error;
// callers keep processing sibling nodes.
func BuildNodePatch(node fleet.Node, net NodeNetwork, installerImage string, clusterPatch, poolPatch map[string]any) (map[string]any, error) {
	if node.InstallDisk == "" {
		return nil, &fleet.ConfigurationError{Hostname: node.Hostname, Field: "install_disk"}
	}
	if node.Interface == "" {
		return nil, &fleet.ConfigurationError{Hostname: node.Hostname, Field: "interface"}
	}

	merged := buildDefaultPatch(net)
	deepMerge(merged, clusterPatch)
	deepMerge(merged, poolPatch)
	deepMerge(merged, buildNodeLayer(node, net, installerImage))

	return merged, nil
}

// buildDefaultPatch is the lowest layer: cluster-wide kubelet and feature
// defaults every dedicated node starts from.
func buildDefaultPatch(net NodeNetwork) map[string]any {
	kubelet := map[string]any{
		"extraArgs": map[string]any{
			"cloud-provider": "external",
		},
		"extraConfig": map[string]any{
			"shutdownGracePeriod":             "90s",
			"shutdownGracePeriodCriticalPods": "15s",
			"systemReserved": map[string]any{
				"cpu":               "100m",
				"memory":            "300Mi",
				"ephemeral-storage": "1Gi",
			},
			"kubeReserved": map[string]any{
				"cpu":               "100m",
				"memory":            "350Mi",
				"ephemeral-storage": "1Gi",
			},
		},
	}

	if net.NodeCIDR != "" {
		kubelet["nodeIP"] = map[string]any{
			"validSubnets": []any{net.NodeCIDR},
		}
	}

	return map[string]any{
		"machine": map[string]any{
			"kubelet": kubelet,
			"sysctls": map[string]any{
				"net.core.somaxconn":          "65535",
				"net.core.netdev_max_backlog": "4096",
			},
			"features": map[string]any{
				"hostDNS": map[string]any{
					"enabled":            true,
					"resolveMemberNames": true,
				},
			},
		},
	}
}

// buildNodeLayer is the highest layer: identity, addressing, and install
// target of one node.
func buildNodeLayer(node fleet.Node, net NodeNetwork, installerImage string) map[string]any {
	install := map[string]any{
		"disk":  node.InstallDisk,
		"image": installerImage,
		"wipe":  false,
	}
	if len(node.KernelArgs) > 0 {
		args := make([]any, 0, len(node.KernelArgs))
		for _, a := range node.KernelArgs {
			args = append(args, a)
		}
		install["extraKernelArgs"] = args
	}

	machine := map[string]any{
		"install": install,
		"network": buildNetworkLayer(node, net),
	}

	if len(node.Labels) > 0 {
		machine["nodeLabels"] = stringMapToAny(node.Labels)
	}
	if len(node.Annotations) > 0 {
		machine["nodeAnnotations"] = stringMapToAny(node.Annotations)
	}
	if len(node.Taints) > 0 {
		taints := make(map[string]any, len(node.Taints))
		for _, t := range node.Taints {
			taints[t.Key] = t.Value + ":" + string(t.Effect)
		}
		machine["nodeTaints"] = taints
	}

	return map[string]any{"machine": machine}
}

// buildNetworkLayer injects the derived private address as the node's
// sole interface address. The route to the cluster network is mandatory;
// caller-supplied extra routes are appended after it, never instead.
func buildNetworkLayer(node fleet.Node, net NodeNetwork) map[string]any {
	routes := []any{
		map[string]any{
			"network": net.ClusterCIDR,
			"gateway": net.Gateway,
		},
	}
	for _, r := range node.ExtraRoutes {
		route := map[string]any{"network": r.Network}
		if r.Gateway != "" {
			route["gateway"] = r.Gateway
		}
		if r.Metric != 0 {
			route["metric"] = r.Metric
		}
		routes = append(routes, route)
	}

	return map[string]any{
		"hostname": node.Hostname,
		"interfaces": []any{
			map[string]any{
				"interface": node.Interface,
				"addresses": []any{net.Address},
				"routes":    routes,
			},
		},
	}
}

func stringMapToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
