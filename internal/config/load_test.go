package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
cluster_name: prod
endpoint: https://10.0.64.10:6443
kubeconfig_path: ./secrets/kubeconfig
talos_secrets_path: ./secrets/talos-secrets.yaml
network:
  vswitch_ids:
    vs-a: 4711
talos:
  version: v1.12.4
  kubernetes_version: 1.34.1
install:
  connect_timeout: 2m
cluster_labels:
  env: prod
dedicated_pools:
  - name: storage
    vswitch: vs-a
    taints:
      - storage=local:NoSchedule
    nodes:
      - hostname: metal-1
        install_disk: /dev/nvme0n1
      - hostname: metal-2
        mode: manual
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "robotpool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.ClusterName)
	assert.Equal(t, "https://10.0.64.10:6443", cfg.Endpoint)
	assert.Equal(t, int64(4711), cfg.Network.VSwitchIDs["vs-a"])

	// Defaults applied.
	assert.Equal(t, DefaultIPv4CIDR, cfg.Network.IPv4CIDR)
	assert.Equal(t, DefaultNodeIPv4CIDR, cfg.Network.NodeIPv4CIDR)
	assert.Equal(t, DefaultSubnetMaskSize, cfg.Network.SubnetMaskSize)
	assert.Equal(t, DefaultAutoscalerReserve, cfg.Network.AutoscalerReserve)
	assert.Equal(t, DefaultZone, cfg.Network.Zone)
	assert.Equal(t, DefaultInstallSettleDelay, cfg.Install.SettleDelay.Std())

	// Explicit values win over defaults.
	assert.Equal(t, 2*time.Minute, cfg.Install.ConnectTimeout.Std())

	require.Len(t, cfg.DedicatedPools, 1)
	assert.Len(t, cfg.DedicatedPools[0].Nodes, 2)
}

func TestLoadFile_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadFile("/nonexistent/robotpool.yaml")
	require.Error(t, err)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(writeConfig(t, "cluster_name: [unclosed"))
	require.Error(t, err)
}

func TestLoadFile_ValidationFailure(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(writeConfig(t, "cluster_name: prod\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")
}

func TestDuration_UnmarshalRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(writeConfig(t, `
cluster_name: prod
endpoint: https://example:6443
install:
  connect_timeout: soon
`))
	require.Error(t, err)
}
