// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/siderolabs/talos/pkg/machinery/config/generate/secrets"

	"github.com/imamik/robotpool/internal/bootstrap"
	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/installer"
	"github.com/imamik/robotpool/internal/k8s"
	"github.com/imamik/robotpool/internal/platform/hcloud"
	"github.com/imamik/robotpool/internal/platform/talos"
	"github.com/imamik/robotpool/internal/provisioning"
	"github.com/imamik/robotpool/internal/ssh"
)

// defaultConfigFile is looked for when no --config flag is given.
const defaultConfigFile = "robotpool.yaml"

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// loadSecrets reads the core cluster's Talos secrets bundle.
	loadSecrets = talos.LoadSecrets

	// newGenerator creates a machine-config generator for native nodes.
	newGenerator = func(cfg *config.Config, sb *secrets.Bundle) provisioning.ConfigGenerator {
		return talos.NewGenerator(
			cfg.ClusterName,
			cfg.Talos.KubernetesVersion,
			cfg.Talos.Version,
			cfg.Endpoint,
			cfg.Talos.SchematicID,
			sb,
		)
	}

	// newCloudClient creates a Hetzner Cloud client.
	newCloudClient = func(token string) hcloud.NetworkManager {
		return hcloud.NewClient(token)
	}

	// newKubeClient creates a Kubernetes client from a kubeconfig path.
	newKubeClient = func(path string) (provisioning.KubeClient, error) {
		return k8s.NewClient(path)
	}

	// openTokenStore opens the persisted bootstrap-token store.
	openTokenStore = bootstrap.OpenStore

	// openInstallState opens the persisted install-state record.
	openInstallState = installer.OpenState

	// readFile reads a file (rescue SSH keys).
	readFile = os.ReadFile
)

// Apply reconciles the declared dedicated-server fleet against the cluster.
//
// The full workflow:
//  1. Loads and validates the fleet configuration
//  2. Derives every node's address from the declared topology
//  3. Ensures the vSwitch subnets exist on the cloud network
//  4. Generates machine configs for native-mode nodes and bootstrap
//     tokens plus join instructions for manual-mode nodes
//  5. Installs auto-install nodes over the rescue system (unless
//     skipInstall is set)
//  6. Writes all artifacts to the configured output directory
//
// Installs are best effort: failed nodes are reported at the end and the
// rest of the fleet proceeds.
func Apply(ctx context.Context, configPath string, skipInstall bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	pctx, err := newLifecycleContext(ctx, cfg, !skipInstall)
	if err != nil {
		return err
	}

	if err := provisioning.RunPhases(pctx, provisioning.ApplyPhases()); err != nil {
		return err
	}

	if err := provisioning.WriteArtifacts(pctx, cfg.OutputDir); err != nil {
		return err
	}

	printApplySummary(pctx)

	if n := len(pctx.State.InstallFailures); n > 0 {
		return fmt.Errorf("%d node install(s) failed", n)
	}
	return nil
}

// loadConfig loads and validates the fleet configuration. If configPath
// is empty, robotpool.yaml in the current directory is used.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = defaultConfigFile
	}
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLifecycleContext wires the lifecycle dependencies the configuration
// calls for. The cloud and Kubernetes clients are optional: without them
// the respective phases degrade to artifact generation only.
func newLifecycleContext(ctx context.Context, cfg *config.Config, withInstaller bool) (*provisioning.Context, error) {
	pctx := provisioning.NewContext(ctx, cfg)

	if cfg.HCloudToken != "" {
		pctx.Cloud = newCloudClient(cfg.HCloudToken)
	}

	if cfg.KubeconfigPath != "" {
		kube, err := newKubeClient(cfg.KubeconfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
		}
		pctx.Kube = kube
	}

	if hasNativeNodes(cfg) {
		if cfg.TalosSecretsPath == "" {
			return nil, fmt.Errorf("native-mode nodes declared but talos_secrets_path is not set")
		}
		sb, err := loadSecrets(cfg.TalosSecretsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load talos secrets: %w", err)
		}
		pctx.Generator = newGenerator(cfg, sb)
	}

	tokens, err := openTokenStore(cfg.TokenStatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	pctx.Tokens = tokens

	installs, err := openInstallState(cfg.InstallStatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open install state: %w", err)
	}
	pctx.Installs = installs

	if withInstaller {
		pctx.Installer = installer.New(rescueCommunicator(cfg), cfg.Install.SettleDelay.Std())
	}

	return pctx, nil
}

// hasNativeNodes reports whether any declared node joins in native mode.
// An empty mode defaults to native during normalization.
func hasNativeNodes(cfg *config.Config) bool {
	for _, raw := range cfg.FlattenNodes() {
		if raw.Mode == "" || raw.Mode == string(fleet.JoinModeNative) {
			return true
		}
	}
	return false
}

// rescueCommunicator builds SSH clients against the rescue system of
// each node. A missing or unreadable key surfaces as a connect failure
// on that node, keeping installs best effort.
func rescueCommunicator(cfg *config.Config) installer.CommunicatorFactory {
	return func(node fleet.Node) ssh.Communicator {
		user := node.RescueUser
		if user == "" {
			user = "root"
		}
		var key []byte
		if node.RescueKey != "" {
			key, _ = readFile(node.RescueKey)
		}
		return ssh.NewClient(node.Hostname, user, key, cfg.Install.ConnectTimeout.Std())
	}
}

// printApplySummary outputs completion information for the user.
func printApplySummary(pctx *provisioning.Context) {
	st := pctx.State
	fmt.Printf("\nApply complete!\n")
	fmt.Printf("  Nodes: %d (%d native, %d manual)\n",
		len(st.Nodes), len(st.Routed.Native), len(st.Routed.Manual))
	fmt.Printf("  Artifacts written to: %s\n", pctx.Config.OutputDir)

	if len(st.Installed) > 0 {
		fmt.Printf("  Installed: %d node(s), rebooting out of rescue\n", len(st.Installed))
	}
	if len(st.Routed.Manual) > 0 {
		fmt.Printf("\nManual-mode nodes join with the generated instructions:\n")
		for _, node := range st.Routed.Manual {
			fmt.Printf("  %s/%s-join.md\n", pctx.Config.OutputDir, node.Hostname)
		}
	}
	for _, err := range st.InstallFailures {
		fmt.Printf("\nInstall failure: %v\n", err)
	}
}
