// Package main is the entry point for the robotpool CLI.
//
// robotpool joins externally owned dedicated servers into an existing
// Talos Kubernetes cluster on a Hetzner Cloud network. It derives the
// network topology from a declarative configuration, generates per-node
// join artifacts, and sequences installs and decommissioning.
//
// Commands: apply, install, destroy, rotate-token, version, completion.
//
// For detailed usage information, run:
//
//	robotpool --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/robotpool/cmd/robotpool/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
