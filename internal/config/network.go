package config

import (
	"fmt"
	"net"
	"sort"

	"github.com/imamik/robotpool/internal/fleet"
)

// Node role constants for fixed-range allocation at the low end of the
// pool CIDR. These ranges belong to the core cloud cluster and are only
// reserved here, never created.
const (
	RoleControlPlane = "control-plane"
	RoleLoadBalancer = "load-balancer"
	RoleWorker       = "worker"
)

// rangeBits returns how many extra mask bits one carved range takes and
// the total number of ranges in the pool CIDR.
func (c *Config) rangeBits() (newBits, total int, err error) {
	_, poolNet, err := net.ParseCIDR(c.Network.NodeIPv4CIDR)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse node pool CIDR: %w", err)
	}

	poolSize, _ := poolNet.Mask.Size()
	newBits = c.Network.SubnetMaskSize - poolSize
	if newBits <= 0 {
		return 0, 0, fmt.Errorf("subnet mask size /%d does not subdivide pool CIDR %s",
			c.Network.SubnetMaskSize, c.Network.NodeIPv4CIDR)
	}

	return newBits, 1 << newBits, nil
}

// reservedLowRanges is the count of low-end ranges held by the core
// cluster: one control-plane range, one load-balancer range, and one per
// worker pool.
func (c *Config) reservedLowRanges() int {
	return 2 + c.Network.WorkerRangeCount
}

// SubnetForRole returns the fixed low-end range of a core-cluster role.
// Control plane takes index 0, load balancer 1, worker pool i takes 2+i;
// this mirrors the allocation order of the core provisioner so dedicated
// ranges can never collide with it.
func (c *Config) SubnetForRole(role string, index int) (string, error) {
	newBits, _, err := c.rangeBits()
	if err != nil {
		return "", err
	}

	var subnetIndex int
	switch role {
	case RoleControlPlane:
		subnetIndex = 0
	case RoleLoadBalancer:
		subnetIndex = 1
	case RoleWorker:
		subnetIndex = 2 + index
	default:
		return "", fmt.Errorf("unknown role %q (valid roles: %s, %s, %s)",
			role, RoleControlPlane, RoleLoadBalancer, RoleWorker)
	}

	return CIDRSubnet(c.Network.NodeIPv4CIDR, newBits, subnetIndex)
}

// GroupRanges derives one address range per vSwitch group, carving from
// the HIGH end of the pool CIDR while the fixed roles hold the low end.
//
// The group identifiers are sorted lexicographically first; the group at
// sorted position i takes the range (i+1) steps below the autoscaler
// reserve. Given the same identifier set the result is identical whatever
// order the groups were declared or discovered in, which makes the
// allocation safe under concurrent or partial re-evaluation.
//
// The allocation fails closed: on capacity exhaustion no assignment is
// returned at all.
func (c *Config) GroupRanges(groupIDs []string) (map[string]string, error) {
	newBits, total, err := c.rangeBits()
	if err != nil {
		return nil, err
	}

	sorted := make([]string, len(groupIDs))
	copy(sorted, groupIDs)
	sort.Strings(sorted)

	reserve := c.Network.AutoscalerReserve
	low := c.reservedLowRanges()

	ranges := make(map[string]string, len(sorted))
	for i, id := range sorted {
		idx := total - reserve - (i + 1)
		if idx < low {
			return nil, &fleet.CapacityExceededError{
				Group:     id,
				Index:     idx,
				Available: total - reserve - low,
			}
		}

		subnet, err := CIDRSubnet(c.Network.NodeIPv4CIDR, newBits, idx)
		if err != nil {
			return nil, fmt.Errorf("failed to carve range for vswitch group %q: %w", id, err)
		}
		ranges[id] = subnet
	}

	return ranges, nil
}

// NodeAddress returns the address of the node at the given zero-based
// position within its group's range. Position 0 maps to the first usable
// host, leaving the network address untouched.
func NodeAddress(groupRange string, position int) (string, error) {
	return CIDRHost(groupRange, position+1)
}

// GroupGateway returns the gateway for a carved range. On a Hetzner cloud
// network every subnet routes through the network's .1 address.
func (c *Config) GroupGateway() (string, error) {
	return CIDRHost(c.Network.IPv4CIDR, 1)
}
