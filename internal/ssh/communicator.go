// Package ssh executes commands on dedicated servers booted into the
// Hetzner rescue system.
package ssh

import (
	"context"
)

// Communicator runs commands on a remote server. Implementations handle
// connection establishment and retries; a nil error means the command
// exited zero.
type Communicator interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, command string) (string, error)
}
