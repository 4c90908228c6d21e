package talos

import (
	"fmt"
	"strings"
	"time"

	"github.com/siderolabs/talos/pkg/machinery/config"
	"github.com/siderolabs/talos/pkg/machinery/config/generate"
	"github.com/siderolabs/talos/pkg/machinery/config/generate/secrets"
	"github.com/siderolabs/talos/pkg/machinery/config/machine"
	"gopkg.in/yaml.v3"

	"github.com/imamik/robotpool/internal/fleet"
)

// SecretsBundle is a type alias for the Talos secrets bundle.
type SecretsBundle = secrets.Bundle

// Generator produces machine configurations for dedicated servers joining
// an existing cluster. It holds the core cluster's secrets bundle but
// never creates or rotates it; that bundle is owned by the core
// provisioner.
type Generator struct {
	clusterName       string
	kubernetesVersion string
	talosVersion      string
	endpoint          string
	schematicID       string
	secretsBundle     *secrets.Bundle
}

// NewGenerator creates a Generator.
func NewGenerator(clusterName, kubernetesVersion, talosVersion, endpoint, schematicID string, sb *secrets.Bundle) *Generator {
	// Machinery adds the 'v' prefix itself.
	kubernetesVersion = strings.TrimPrefix(kubernetesVersion, "v")

	return &Generator{
		clusterName:       clusterName,
		kubernetesVersion: kubernetesVersion,
		talosVersion:      talosVersion,
		endpoint:          endpoint,
		schematicID:       schematicID,
		secretsBundle:     sb,
	}
}

// LoadSecrets loads the core cluster's Talos secrets bundle from a file.
func LoadSecrets(path string) (*secrets.Bundle, error) {
	sb, err := secrets.LoadBundle(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets bundle: %w", err)
	}
	if sb == nil {
		return nil, fmt.Errorf("loaded secrets bundle is nil")
	}

	// Re-inject clock, the loaded bundle has it reset.
	sb.Clock = secrets.NewFixedClock(time.Now())
	return sb, nil
}

// GenerateNodeConfig generates the full machine configuration for one
// native-mode node: the machinery worker base plus the layered patch.
func (g *Generator) GenerateNodeConfig(node fleet.Node, net NodeNetwork, clusterPatch, poolPatch map[string]any) ([]byte, error) {
	base, err := g.generateBaseConfig()
	if err != nil {
		return nil, err
	}

	patch, err := BuildNodePatch(node, net, g.installerImageURL(), clusterPatch, poolPatch)
	if err != nil {
		return nil, err
	}

	return applyConfigPatch(base, patch)
}

// generateBaseConfig generates the machinery worker config the patches
// apply on top of.
func (g *Generator) generateBaseConfig() ([]byte, error) {
	vc, err := config.ParseContractFromVersion(g.talosVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version contract: %w", err)
	}

	input, err := generate.NewInput(
		g.clusterName,
		g.endpoint,
		g.kubernetesVersion,
		generate.WithVersionContract(vc),
		generate.WithSecretsBundle(g.secretsBundle),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create input: %w", err)
	}

	cfg, err := input.Config(machine.TypeWorker)
	if err != nil {
		return nil, fmt.Errorf("failed to generate worker config: %w", err)
	}

	bytes, err := cfg.Bytes()
	if err != nil {
		return nil, err
	}

	return stripComments(bytes), nil
}

// installerImageURL returns the Talos installer image. A schematic ID
// selects a factory.talos.dev image with extensions.
func (g *Generator) installerImageURL() string {
	if g.schematicID != "" {
		return fmt.Sprintf("factory.talos.dev/installer/%s:%s", g.schematicID, g.talosVersion)
	}
	return fmt.Sprintf("ghcr.io/siderolabs/installer:%s", g.talosVersion)
}

// applyConfigPatch applies a patch map to the base config using deep merge.
func applyConfigPatch(baseConfig []byte, patch map[string]any) ([]byte, error) {
	var configMap map[string]any
	if err := yaml.Unmarshal(baseConfig, &configMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal base config: %w", err)
	}

	deepMerge(configMap, patch)

	return yaml.Marshal(configMap)
}

// deepMerge recursively merges src into dst. Maps merge key-by-key;
// anything else in src overwrites dst. Sub-maps taken from src are
// copied, never aliased: later merges into dst must not write through
// into the caller's overlay maps.
func deepMerge(dst, src map[string]any) {
	for key, srcVal := range src {
		if srcMap, srcIsMap := srcVal.(map[string]any); srcIsMap {
			dstMap, dstIsMap := dst[key].(map[string]any)
			if !dstIsMap {
				dstMap = make(map[string]any, len(srcMap))
				dst[key] = dstMap
			}
			deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
}

func stripComments(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	var result []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		result = append(result, line)
	}
	return []byte(strings.Join(result, "\n"))
}
