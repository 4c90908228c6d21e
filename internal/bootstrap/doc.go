// Package bootstrap generates and persists kubelet bootstrap tokens for
// manual-mode dedicated servers, renders the matching Kubernetes secret
// manifests, and produces operator-facing join instructions.
package bootstrap
