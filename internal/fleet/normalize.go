package fleet

import (
	"fmt"

	"github.com/imamik/robotpool/internal/util/labels"
)

// defaultInterface is assumed when a declaration does not name the private
// network interface. Hetzner dedicated servers expose the vSwitch VLAN on
// the first NIC.
const defaultInterface = "eth0"

// Normalize canonicalizes raw declarations into Node records, preserving
// declaration order. It fails with a *ValidationError on the first
// malformed taint or duplicate hostname.
//
// The reserved marker label labels.KeyDedicated is merged into every
// record. Caller-supplied labels of the same key are ignored: the key is
// documented as reserved, not silently overridden in either direction.
func Normalize(clusterName string, raws []RawNode, clusterLabels map[string]string) ([]Node, error) {
	nodes := make([]Node, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for _, raw := range raws {
		if raw.Hostname == "" {
			return nil, &ValidationError{Reason: "hostname is required"}
		}
		if seen[raw.Hostname] {
			return nil, &ValidationError{Hostname: raw.Hostname, Reason: "duplicate hostname"}
		}
		seen[raw.Hostname] = true

		if raw.VSwitch == "" {
			return nil, &ValidationError{Hostname: raw.Hostname, Reason: "vswitch is required"}
		}

		mode, err := parseMode(raw)
		if err != nil {
			return nil, err
		}

		taints, err := parseTaints(raw.Hostname, raw.Taints)
		if err != nil {
			return nil, err
		}

		iface := raw.Interface
		if iface == "" {
			iface = defaultInterface
		}

		nodeLabels := labels.NewBuilder(clusterName).
			WithVSwitch(raw.VSwitch).
			WithJoinMode(string(mode)).
			WithDedicated().
			Merge(clusterLabels).
			Merge(raw.Labels).
			Build()

		annotations := make(map[string]string, len(raw.Annotations))
		for k, v := range raw.Annotations {
			annotations[k] = v
		}

		nodes = append(nodes, Node{
			Hostname:    raw.Hostname,
			Pool:        raw.Pool,
			VSwitch:     raw.VSwitch,
			PrivateIP:   raw.PrivateIP,
			Interface:   iface,
			Mode:        mode,
			Labels:      nodeLabels,
			Annotations: annotations,
			Taints:      taints,
			InstallDisk: raw.InstallDisk,
			ImageURL:    raw.ImageURL,
			KernelArgs:  raw.KernelArgs,
			AutoInstall: raw.AutoInstall,
			RescueUser:  raw.RescueUser,
			RescueKey:   raw.RescueKey,
			ExtraRoutes: raw.ExtraRoutes,
		})
	}

	return nodes, nil
}

func parseMode(raw RawNode) (JoinMode, error) {
	switch raw.Mode {
	case "", string(JoinModeNative):
		return JoinModeNative, nil
	case string(JoinModeManual):
		return JoinModeManual, nil
	default:
		return "", &ValidationError{
			Hostname: raw.Hostname,
			Reason:   fmt.Sprintf("unknown join mode %q (valid: %s, %s)", raw.Mode, JoinModeNative, JoinModeManual),
		}
	}
}
