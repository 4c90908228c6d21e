package fleet

import (
	corev1 "k8s.io/api/core/v1"
)

// JoinMode selects the pathway a dedicated server uses to join the cluster.
type JoinMode string

const (
	// JoinModeNative pushes a full Talos machine configuration to the node.
	JoinModeNative JoinMode = "native"
	// JoinModeManual joins via a bootstrap token and a generic join command.
	JoinModeManual JoinMode = "manual"
)

// RawNode is one dedicated-server declaration as it appears in the
// configuration file. Field presence is heterogeneous: manual-mode nodes
// carry none of the install fields.
type RawNode struct {
	Hostname  string `yaml:"hostname"`
	Pool      string `yaml:"-"` // set when flattening pools, not declared per node
	VSwitch   string `yaml:"vswitch"`
	PrivateIP string `yaml:"private_ip,omitempty"`
	Interface string `yaml:"interface,omitempty"`
	Mode      string `yaml:"mode,omitempty"`

	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
	Taints      []string          `yaml:"taints,omitempty"`

	// Native-mode install fields.
	InstallDisk string   `yaml:"install_disk,omitempty"`
	ImageURL    string   `yaml:"image_url,omitempty"`
	KernelArgs  []string `yaml:"kernel_args,omitempty"`
	AutoInstall bool     `yaml:"auto_install,omitempty"`

	// Rescue-system access for the optional remote installer.
	RescueUser string `yaml:"rescue_user,omitempty"`
	RescueKey  string `yaml:"rescue_key,omitempty"`

	// Extra routes appended after the mandatory cluster route.
	ExtraRoutes []StaticRoute `yaml:"extra_routes,omitempty"`
}

// StaticRoute is a single static route entry for a node's private interface.
type StaticRoute struct {
	Network string `yaml:"network"`
	Gateway string `yaml:"gateway,omitempty"`
	Metric  int    `yaml:"metric,omitempty"`
}

// Node is the canonical record for one dedicated server. All downstream
// generators consume Nodes, never RawNodes.
type Node struct {
	Hostname  string
	Pool      string
	VSwitch   string
	PrivateIP string
	Interface string
	Mode      JoinMode

	Labels      map[string]string
	Annotations map[string]string
	Taints      []corev1.Taint

	InstallDisk string
	ImageURL    string
	KernelArgs  []string
	AutoInstall bool

	RescueUser string
	RescueKey  string

	ExtraRoutes []StaticRoute
}
