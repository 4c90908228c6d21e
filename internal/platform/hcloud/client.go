// Package hcloud wraps the Hetzner Cloud API for the pieces this tool
// touches: the cluster's private network and its vSwitch subnets.
package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// NetworkManager manages the cluster network and its vSwitch subnets.
type NetworkManager interface {
	// GetNetwork returns the named network, or an error if it does not
	// exist. The cluster network is owned by whoever provisioned the
	// cluster; this tool never creates it.
	GetNetwork(ctx context.Context, name string) (*hcloud.Network, error)
	// EnsureVSwitchSubnet idempotently adds a vSwitch subnet covering
	// ipRange to the network. An existing subnet with the same range
	// and vSwitch ID is left alone; the same range bound to a
	// different vSwitch is an error.
	EnsureVSwitchSubnet(ctx context.Context, network *hcloud.Network, ipRange, zone string, vswitchID int64) error
	// RemoveSubnet removes the subnet covering ipRange from the
	// network. A missing subnet is a no-op.
	RemoveSubnet(ctx context.Context, network *hcloud.Network, ipRange string) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHCloudClient sets a custom hcloud client, useful for tests.
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// Client implements NetworkManager against the real Hetzner Cloud API.
type Client struct {
	client *hcloud.Client
}

// NewClient creates a Client authenticated with token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client: hcloud.NewClient(hcloud.WithToken(token)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
