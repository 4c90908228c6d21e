package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads, defaults, and validates the configuration from a YAML
// file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields with the standard layout.
func (c *Config) applyDefaults() {
	if c.HCloudToken == "" {
		c.HCloudToken = os.Getenv("HCLOUD_TOKEN")
	}
	if c.Network.IPv4CIDR == "" {
		c.Network.IPv4CIDR = DefaultIPv4CIDR
	}
	if c.Network.NodeIPv4CIDR == "" {
		c.Network.NodeIPv4CIDR = DefaultNodeIPv4CIDR
	}
	if c.Network.SubnetMaskSize == 0 {
		c.Network.SubnetMaskSize = DefaultSubnetMaskSize
	}
	if c.Network.WorkerRangeCount == 0 {
		c.Network.WorkerRangeCount = DefaultWorkerRangeCount
	}
	if c.Network.AutoscalerReserve == 0 {
		c.Network.AutoscalerReserve = DefaultAutoscalerReserve
	}
	if c.Network.Zone == "" {
		c.Network.Zone = DefaultZone
	}
	if c.TokenStatePath == "" {
		c.TokenStatePath = "./secrets/join-tokens.yaml"
	}
	if c.InstallStatePath == "" {
		c.InstallStatePath = "./secrets/installs.yaml"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./out"
	}
	c.Install.withDefaults()
}
