package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/robotpool/internal/util/retry"
)

// GetNetwork returns the named cluster network.
func (c *Client) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	var network *hcloud.Network
	err := retry.Do(ctx, func() error {
		var apiErr error
		network, _, apiErr = c.client.Network.Get(ctx, name)
		return apiErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get network %s: %w", name, err)
	}
	if network == nil {
		return nil, fmt.Errorf("network %s not found", name)
	}
	return network, nil
}

// EnsureVSwitchSubnet idempotently adds a vSwitch subnet to the network.
func (c *Client) EnsureVSwitchSubnet(ctx context.Context, network *hcloud.Network, ipRange, zone string, vswitchID int64) error {
	for _, subnet := range network.Subnets {
		if subnet.IPRange == nil || subnet.IPRange.String() != ipRange {
			continue
		}
		if subnet.Type != hcloud.NetworkSubnetTypeVSwitch {
			return fmt.Errorf("subnet %s exists but is type %s, not vswitch", ipRange, subnet.Type)
		}
		if subnet.VSwitchID != vswitchID {
			return fmt.Errorf("subnet %s is bound to vSwitch %d, expected %d", ipRange, subnet.VSwitchID, vswitchID)
		}
		return nil
	}

	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return fmt.Errorf("invalid subnet ip range %s: %w", ipRange, err)
	}

	opts := hcloud.NetworkAddSubnetOpts{
		Subnet: hcloud.NetworkSubnet{
			Type:        hcloud.NetworkSubnetTypeVSwitch,
			IPRange:     ipNet,
			NetworkZone: hcloud.NetworkZone(zone),
			VSwitchID:   vswitchID,
		},
	}

	return retry.Do(ctx, func() error {
		action, _, apiErr := c.client.Network.AddSubnet(ctx, network, opts)
		if apiErr != nil {
			return fmt.Errorf("failed to add subnet %s: %w", ipRange, apiErr)
		}
		if err := c.client.Action.WaitFor(ctx, action); err != nil {
			return fmt.Errorf("failed waiting for subnet %s: %w", ipRange, err)
		}
		return nil
	})
}

// RemoveSubnet removes the subnet covering ipRange from the network.
func (c *Client) RemoveSubnet(ctx context.Context, network *hcloud.Network, ipRange string) error {
	var target *hcloud.NetworkSubnet
	for i := range network.Subnets {
		if network.Subnets[i].IPRange != nil && network.Subnets[i].IPRange.String() == ipRange {
			target = &network.Subnets[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	opts := hcloud.NetworkDeleteSubnetOpts{Subnet: *target}
	return retry.Do(ctx, func() error {
		action, _, apiErr := c.client.Network.DeleteSubnet(ctx, network, opts)
		if apiErr != nil {
			return fmt.Errorf("failed to delete subnet %s: %w", ipRange, apiErr)
		}
		if err := c.client.Action.WaitFor(ctx, action); err != nil {
			return fmt.Errorf("failed waiting for subnet removal %s: %w", ipRange, err)
		}
		return nil
	})
}
