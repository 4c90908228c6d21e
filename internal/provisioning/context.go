// Package provisioning sequences the lifecycle of a dedicated-server
// fleet: topology allocation, network plumbing, artifact generation,
// rescue-mode installs, and drain-based decommissioning.
package provisioning

import (
	"context"

	hcloudsdk "github.com/hetznercloud/hcloud-go/v2/hcloud"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/robotpool/internal/bootstrap"
	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/installer"
	"github.com/imamik/robotpool/internal/platform/hcloud"
	"github.com/imamik/robotpool/internal/platform/talos"
)

// KubeClient is the slice of the Kubernetes surface the lifecycle
// touches. *k8s.Client implements it; tests substitute fakes.
type KubeClient interface {
	ApplySecret(ctx context.Context, secret *corev1.Secret) error
	DeleteSecret(ctx context.Context, namespace, name string) error
	CordonNode(ctx context.Context, name string) error
	DrainNode(ctx context.Context, name string) error
	DeleteNode(ctx context.Context, name string) error
	ListDedicatedNodes(ctx context.Context, clusterName string) ([]corev1.Node, error)
}

// ConfigGenerator produces per-node machine configurations.
// *talos.Generator implements it.
type ConfigGenerator interface {
	GenerateNodeConfig(node fleet.Node, net talos.NodeNetwork, clusterPatch, poolPatch map[string]any) ([]byte, error)
}

// NodeInstaller performs rescue-mode installs. *installer.Installer
// implements it.
type NodeInstaller interface {
	Install(ctx context.Context, node fleet.Node) error
}

// State holds the shared results of lifecycle phases. It is
// progressively populated as each phase completes and read by the
// phases that follow.
type State struct {
	// Topology results.
	Nodes       []fleet.Node
	Groups      []fleet.Group
	Routed      *fleet.Routed
	GroupRanges map[string]string // vswitch -> range CIDR
	Addresses   map[string]string // hostname -> address with prefix length
	Gateway     string

	// Network results.
	Network *hcloudsdk.Network

	// Artifact results, keyed by hostname.
	NodeConfigs  map[string][]byte
	Secrets      map[string][]byte
	Instructions map[string][]byte

	// Install results. Failures are collected, never fatal.
	Installed       []string
	InstallFailures []error

	// Rendered addon manifests, keyed by addon name.
	Addons map[string][]byte
}

// NewState creates an empty lifecycle state.
func NewState() *State {
	return &State{
		GroupRanges:  make(map[string]string),
		Addresses:    make(map[string]string),
		NodeConfigs:  make(map[string][]byte),
		Secrets:      make(map[string][]byte),
		Instructions: make(map[string][]byte),
		Addons:       make(map[string][]byte),
	}
}

// Context wraps the dependencies and state a lifecycle phase needs.
type Context struct {
	context.Context
	Config    *config.Config
	State     *State
	Cloud     hcloud.NetworkManager
	Kube      KubeClient
	Generator ConfigGenerator
	Installer NodeInstaller
	Tokens    *bootstrap.Store
	Installs  *installer.State
	Observer  Observer
}

// NewContext creates a lifecycle context with a console observer.
func NewContext(ctx context.Context, cfg *config.Config) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Observer: NewConsoleObserver(),
	}
}
