package config

import (
	"fmt"
	"net"
)

// Validate checks the configuration for common errors and returns a
// detailed error if validation fails. Node-level validation (taints,
// duplicate hostnames) is owned by the fleet normalizer, not repeated
// here.
func (c *Config) Validate() error {
	if c.ClusterName == "" {
		return fmt.Errorf("cluster_name is required")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	if err := c.validateNetwork(); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}

	if err := c.validatePools(); err != nil {
		return fmt.Errorf("pool validation failed: %w", err)
	}

	return nil
}

func (c *Config) validateNetwork() error {
	_, ipNet, err := net.ParseCIDR(c.Network.IPv4CIDR)
	if err != nil {
		return fmt.Errorf("invalid ipv4_cidr %q: %w", c.Network.IPv4CIDR, err)
	}

	nodeIP, nodeNet, err := net.ParseCIDR(c.Network.NodeIPv4CIDR)
	if err != nil {
		return fmt.Errorf("invalid node_ipv4_cidr %q: %w", c.Network.NodeIPv4CIDR, err)
	}
	if !ipNet.Contains(nodeIP) {
		return fmt.Errorf("node_ipv4_cidr %s is not inside ipv4_cidr %s",
			c.Network.NodeIPv4CIDR, c.Network.IPv4CIDR)
	}

	nodeSize, _ := nodeNet.Mask.Size()
	if c.Network.SubnetMaskSize <= nodeSize || c.Network.SubnetMaskSize > 30 {
		return fmt.Errorf("subnet_mask_size /%d must be between /%d and /30",
			c.Network.SubnetMaskSize, nodeSize+1)
	}

	if c.Network.AutoscalerReserve < 0 {
		return fmt.Errorf("autoscaler_reserve must not be negative")
	}
	if c.Network.WorkerRangeCount < 0 {
		return fmt.Errorf("worker_range_count must not be negative")
	}

	return nil
}

func (c *Config) validatePools() error {
	seen := make(map[string]bool, len(c.DedicatedPools))
	for _, pool := range c.DedicatedPools {
		if pool.Name == "" {
			return fmt.Errorf("dedicated pool without a name")
		}
		if seen[pool.Name] {
			return fmt.Errorf("duplicate dedicated pool name %q", pool.Name)
		}
		seen[pool.Name] = true

		for _, node := range pool.Nodes {
			if node.VSwitch == "" && pool.VSwitch == "" {
				return fmt.Errorf("pool %q: node %q declares no vswitch and the pool has no default",
					pool.Name, node.Hostname)
			}
		}
	}
	return nil
}
