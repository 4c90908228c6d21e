// Package installer writes Talos images onto dedicated servers booted
// into the Hetzner rescue system. Installs are best effort: a failure is
// reported but never blocks the remaining fleet.
package installer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/robotpool/internal/fleet"
	"github.com/imamik/robotpool/internal/ssh"
)

// CommunicatorFactory creates a Communicator for one node, typically an
// SSH client against the node's rescue address.
type CommunicatorFactory func(node fleet.Node) ssh.Communicator

// Installer drives rescue-mode installs for auto-install nodes.
type Installer struct {
	factory     CommunicatorFactory
	settleDelay time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// New creates an Installer. settleDelay is how long to wait after the
// reboot command before the node is considered reachable again.
func New(factory CommunicatorFactory, settleDelay time.Duration) *Installer {
	return &Installer{
		factory:     factory,
		settleDelay: settleDelay,
		sleep:       sleepCtx,
	}
}

// Install writes the node's image onto its install disk and reboots the
// machine out of the rescue system. The returned error is always a
// *fleet.RemoteInstallFailure or *fleet.ConfigurationError so callers
// can keep going with sibling nodes.
func (i *Installer) Install(ctx context.Context, node fleet.Node) error {
	if node.ImageURL == "" {
		return &fleet.ConfigurationError{Hostname: node.Hostname, Field: "image_url"}
	}
	if node.InstallDisk == "" {
		return &fleet.ConfigurationError{Hostname: node.Hostname, Field: "install_disk"}
	}

	comm := i.factory(node)

	if out, err := comm.Run(ctx, writeImageCommand(node)); err != nil {
		return &fleet.RemoteInstallFailure{
			Hostname: node.Hostname,
			Err:      fmt.Errorf("image write failed: %w, output: %s", err, out),
		}
	}

	// The reboot tears down the SSH connection, so a connection error
	// here is the expected outcome, not a failure.
	_, _ = comm.Run(ctx, "nohup reboot >/dev/null 2>&1 &")

	if err := i.sleep(ctx, i.settleDelay); err != nil {
		return &fleet.RemoteInstallFailure{Hostname: node.Hostname, Err: err}
	}
	return nil
}

// writeImageCommand assembles the shell pipeline that streams the image
// onto the install disk. The decompressor follows the image suffix.
func writeImageCommand(node fleet.Node) string {
	decompress := decompressor(node.ImageURL)
	parts := []string{
		fmt.Sprintf("wget -qO- %q", node.ImageURL),
	}
	if decompress != "" {
		parts = append(parts, decompress)
	}
	parts = append(parts, fmt.Sprintf("dd of=%q bs=4M", node.InstallDisk))
	return strings.Join(parts, " | ") + " && sync"
}

func decompressor(imageURL string) string {
	switch {
	case strings.HasSuffix(imageURL, ".zst"):
		return "zstd -d"
	case strings.HasSuffix(imageURL, ".xz"):
		return "xz -d"
	case strings.HasSuffix(imageURL, ".gz"):
		return "gzip -d"
	default:
		return ""
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
