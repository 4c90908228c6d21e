package config

import (
	"github.com/imamik/robotpool/internal/fleet"
)

// Config holds the full robotpool configuration.
type Config struct {
	ClusterName string `yaml:"cluster_name"`
	HCloudToken string `yaml:"hcloud_token"`

	// Endpoint is the stable Kubernetes API join endpoint of the core
	// cluster (load balancer or floating IP), e.g. https://10.0.64.10:6443.
	Endpoint string `yaml:"endpoint"`

	// KubeconfigPath points at the core cluster's kubeconfig, used to
	// apply bootstrap-token secrets and to drain nodes on destroy.
	KubeconfigPath string `yaml:"kubeconfig_path"`

	// TalosSecretsPath is the persisted Talos secrets bundle of the core
	// cluster. robotpool reads it; it never creates or rotates it.
	TalosSecretsPath string `yaml:"talos_secrets_path"`

	// TokenStatePath persists generated bootstrap tokens so that
	// re-evaluating an unchanged declaration reuses them.
	TokenStatePath string `yaml:"token_state_path"`

	// InstallStatePath persists completed rescue-mode installs so that
	// only an image or disk change triggers a reinstall.
	InstallStatePath string `yaml:"install_state_path"`

	// OutputDir receives the generated artifacts (machine config patches,
	// join secrets, join instructions).
	OutputDir string `yaml:"output_dir"`

	Network NetworkConfig `yaml:"network"`
	Talos   TalosConfig   `yaml:"talos"`
	Install InstallConfig `yaml:"install"`
	Addons  AddonsConfig  `yaml:"addons"`

	// ClusterLabels are merged into every node record (lowest precedence).
	ClusterLabels map[string]string `yaml:"cluster_labels"`

	// ClusterPatch is the cluster-wide machine configuration overlay, the
	// lowest layer of the three-layer merge.
	ClusterPatch map[string]any `yaml:"cluster_patch"`

	// DedicatedPools are the declared dedicated-server pools.
	DedicatedPools []DedicatedPool `yaml:"dedicated_pools"`
}

// NetworkConfig describes the shared address pool and its partitioning.
type NetworkConfig struct {
	// IPv4CIDR is the cloud network CIDR the node pool is carved from.
	IPv4CIDR string `yaml:"ipv4_cidr"`

	// NodeIPv4CIDR is the pool CIDR all node/group ranges come from.
	NodeIPv4CIDR string `yaml:"node_ipv4_cidr"`

	// SubnetMaskSize is the mask size of each carved range.
	SubnetMaskSize int `yaml:"subnet_mask_size"`

	// WorkerRangeCount is how many worker ranges the core cluster already
	// holds at the low end of the pool (control plane and load balancer
	// each hold one more).
	WorkerRangeCount int `yaml:"worker_range_count"`

	// AutoscalerReserve is the number of high-end ranges kept free for
	// the autoscaler before dedicated-server ranges begin.
	AutoscalerReserve int `yaml:"autoscaler_reserve"`

	// Zone is the cloud network zone the vSwitch subnets live in.
	Zone string `yaml:"zone"`

	// VSwitchIDs maps vSwitch group identifiers to the cloud-side vSwitch
	// numeric IDs used when materializing subnets.
	VSwitchIDs map[string]int64 `yaml:"vswitch_ids"`
}

// TalosConfig pins the OS and Kubernetes versions for native-mode nodes.
type TalosConfig struct {
	Version           string `yaml:"version"`
	KubernetesVersion string `yaml:"kubernetes_version"`
	// SchematicID selects a factory.talos.dev installer image with
	// extensions; empty means the stock installer.
	SchematicID string `yaml:"schematic_id"`
}

// InstallConfig bounds the optional rescue-mode remote installer.
type InstallConfig struct {
	// ConnectTimeout bounds the SSH dial to the rescue system.
	ConnectTimeout Duration `yaml:"connect_timeout"`
	// SettleDelay is the fixed wait after a successful install before the
	// node is considered reachable again.
	SettleDelay Duration `yaml:"settle_delay"`
}

// AddonsConfig selects the packaged applications whose manifests are
// rendered for the cluster operator to apply.
type AddonsConfig struct {
	IngressNginx AddonConfig `yaml:"ingress_nginx"`
	ExternalDNS  AddonConfig `yaml:"external_dns"`
}

// AddonConfig is the per-addon toggle plus chart overrides.
type AddonConfig struct {
	Enabled bool           `yaml:"enabled"`
	Version string         `yaml:"version"`
	Values  map[string]any `yaml:"values"`
}

// DedicatedPool groups dedicated servers that share settings. Pool-level
// values are defaults for the member nodes; the machine-config Patch is
// the middle layer of the three-layer merge.
type DedicatedPool struct {
	Name    string `yaml:"name"`
	VSwitch string `yaml:"vswitch"`

	Labels map[string]string `yaml:"labels"`
	Taints []string          `yaml:"taints"`
	Patch  map[string]any    `yaml:"patch"`
	Nodes  []fleet.RawNode   `yaml:"nodes"`
}

// FlattenNodes returns all declared nodes with pool defaults applied:
// the pool name, the pool vSwitch when the node declares none, and the
// pool taints and labels prepended so node-level values keep precedence.
func (c *Config) FlattenNodes() []fleet.RawNode {
	var out []fleet.RawNode
	for _, pool := range c.DedicatedPools {
		for _, raw := range pool.Nodes {
			raw.Pool = pool.Name
			if raw.VSwitch == "" {
				raw.VSwitch = pool.VSwitch
			}
			if len(pool.Taints) > 0 {
				raw.Taints = append(append([]string{}, pool.Taints...), raw.Taints...)
			}
			if len(pool.Labels) > 0 {
				merged := make(map[string]string, len(pool.Labels)+len(raw.Labels))
				for k, v := range pool.Labels {
					merged[k] = v
				}
				for k, v := range raw.Labels {
					merged[k] = v
				}
				raw.Labels = merged
			}
			out = append(out, raw)
		}
	}
	return out
}

// PoolPatch returns the machine-config overlay of the named pool, or nil.
func (c *Config) PoolPatch(name string) map[string]any {
	for _, pool := range c.DedicatedPools {
		if pool.Name == name {
			return pool.Patch
		}
	}
	return nil
}
