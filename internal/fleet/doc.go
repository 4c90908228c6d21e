// Package fleet normalizes dedicated-server declarations into canonical
// node records and splits them into the two join pipelines (native Talos
// config push vs. manual bootstrap-token join).
//
// Everything in this package is a pure transform: the same declarations
// always produce the same records, regardless of declaration order or
// evaluation interleaving. That property is what allows the provisioning
// layer to evaluate independent nodes in parallel.
package fleet
