// Package talos generates Talos Linux machine configurations for
// native-mode dedicated servers.
//
// A node's final configuration is the machinery-generated base document
// plus a three-layer patch: cluster-wide defaults, pool-level settings,
// and node-specific fields, merged key-by-key in that precedence order.
package talos
