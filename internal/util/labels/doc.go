// Package labels provides consistent labeling for cluster resources.
//
// All labels use the robotpool.io domain prefix and follow a builder
// pattern for constructing label sets with cluster name, vSwitch group,
// join mode, and manager identification.
package labels
