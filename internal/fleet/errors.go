package fleet

import "fmt"

// ValidationError reports a malformed declaration. Validation runs before
// any allocation, so a ValidationError always blocks dependent provisioning.
type ValidationError struct {
	Hostname string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Hostname == "" {
		return fmt.Sprintf("invalid node declaration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid node declaration %q: %s", e.Hostname, e.Reason)
}

// CapacityExceededError reports that the shared pool CIDR cannot hold a
// range for the named vSwitch group. The allocation for that group fails
// closed; no partial range is emitted.
type CapacityExceededError struct {
	Group     string
	Index     int
	Available int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("pool CIDR exhausted: vswitch group %q needs subnet index %d but only %d subnets remain below the reserved ranges",
		e.Group, e.Index, e.Available)
}

// ConfigurationError reports a per-node configuration problem (a field the
// chosen join mode requires is missing). It is scoped to one hostname and
// never aborts sibling nodes.
type ConfigurationError struct {
	Hostname string
	Field    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("node %q: required field %q is missing for its join mode", e.Hostname, e.Field)
}

// RemoteInstallFailure reports a failed rescue-mode install attempt. The
// install channel is best-effort: callers log it and continue with the
// rest of the batch.
type RemoteInstallFailure struct {
	Hostname string
	Err      error
}

func (e *RemoteInstallFailure) Error() string {
	return fmt.Sprintf("rescue install on %q failed: %v", e.Hostname, e.Err)
}

func (e *RemoteInstallFailure) Unwrap() error {
	return e.Err
}
