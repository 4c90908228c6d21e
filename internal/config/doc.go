// Package config defines the declarative input of robotpool: the cluster
// identity, the shared node network pool, and the dedicated-server pools.
//
// It also owns the topology derivation: carving non-overlapping address
// ranges for fixed roles and vSwitch groups out of the node pool CIDR.
package config
