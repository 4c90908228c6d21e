package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/robotpool/internal/fleet"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing cluster name",
			mutate:  func(c *Config) { c.ClusterName = "" },
			wantErr: "cluster_name",
		},
		{
			name:    "missing endpoint",
			mutate:  func(c *Config) { c.Endpoint = "" },
			wantErr: "endpoint",
		},
		{
			name:    "node pool outside network",
			mutate:  func(c *Config) { c.Network.NodeIPv4CIDR = "172.16.0.0/19" },
			wantErr: "not inside",
		},
		{
			name:    "mask does not subdivide",
			mutate:  func(c *Config) { c.Network.SubnetMaskSize = 19 },
			wantErr: "subnet_mask_size",
		},
		{
			name:    "negative reserve",
			mutate:  func(c *Config) { c.Network.AutoscalerReserve = -1 },
			wantErr: "autoscaler_reserve",
		},
		{
			name: "duplicate pool name",
			mutate: func(c *Config) {
				c.DedicatedPools = []DedicatedPool{
					{Name: "storage", VSwitch: "vs-a"},
					{Name: "storage", VSwitch: "vs-b"},
				}
			},
			wantErr: "duplicate dedicated pool",
		},
		{
			name: "node without any vswitch",
			mutate: func(c *Config) {
				c.DedicatedPools = []DedicatedPool{
					{Name: "storage", Nodes: []fleet.RawNode{{Hostname: "metal-1"}}},
				}
			},
			wantErr: "no vswitch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlattenNodes_AppliesPoolDefaults(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.DedicatedPools = []DedicatedPool{
		{
			Name:    "storage",
			VSwitch: "vs-a",
			Labels:  map[string]string{"tier": "storage"},
			Taints:  []string{"storage=local:NoSchedule"},
			Nodes: []fleet.RawNode{
				{Hostname: "metal-1"},
				{Hostname: "metal-2", VSwitch: "vs-b", Labels: map[string]string{"tier": "fast"}},
			},
		},
	}

	flat := cfg.FlattenNodes()
	require.Len(t, flat, 2)

	assert.Equal(t, "storage", flat[0].Pool)
	assert.Equal(t, "vs-a", flat[0].VSwitch)
	assert.Equal(t, []string{"storage=local:NoSchedule"}, flat[0].Taints)
	assert.Equal(t, "storage", flat[0].Labels["tier"])

	// Node-level values win over pool defaults.
	assert.Equal(t, "vs-b", flat[1].VSwitch)
	assert.Equal(t, "fast", flat[1].Labels["tier"])
}

func TestPoolPatch(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.DedicatedPools = []DedicatedPool{
		{Name: "storage", Patch: map[string]any{"machine": map[string]any{"install": map[string]any{"wipe": true}}}},
	}

	assert.NotNil(t, cfg.PoolPatch("storage"))
	assert.Nil(t, cfg.PoolPatch("missing"))
}
