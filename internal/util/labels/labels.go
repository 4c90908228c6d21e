package labels

// Standard label keys for robotpool-managed resources.
// Using the robotpool.io prefix for clear namespacing.
const (
	// KeyCluster identifies which cluster a resource belongs to.
	KeyCluster = "robotpool.io/cluster"

	// KeyDedicated marks a node as an externally owned dedicated server.
	// This key is RESERVED: the normalizer stamps it on every dedicated
	// node record and caller-supplied labels cannot override it.
	KeyDedicated = "robotpool.io/dedicated-server"

	// KeyVSwitch identifies the vSwitch (connectivity group) a node is
	// attached to.
	KeyVSwitch = "robotpool.io/vswitch"

	// KeyJoinMode identifies the join pathway (native, manual).
	KeyJoinMode = "robotpool.io/join-mode"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "robotpool.io/managed-by"
)

// ManagedBy values.
const (
	ManagedByRobotpool = "robotpool"
)

// DedicatedValue is the fixed value of the reserved KeyDedicated label.
const DedicatedValue = "true"

// Builder accumulates a label set for one resource.
type Builder struct {
	labels map[string]string
}

// NewBuilder creates a label builder with the cluster name pre-set.
func NewBuilder(clusterName string) *Builder {
	return &Builder{
		labels: map[string]string{
			KeyCluster:   clusterName,
			KeyManagedBy: ManagedByRobotpool,
		},
	}
}

// WithVSwitch adds the vSwitch group label.
func (b *Builder) WithVSwitch(vswitch string) *Builder {
	b.labels[KeyVSwitch] = vswitch
	return b
}

// WithJoinMode adds the join-mode label.
func (b *Builder) WithJoinMode(mode string) *Builder {
	b.labels[KeyJoinMode] = mode
	return b
}

// WithDedicated stamps the reserved dedicated-server marker.
func (b *Builder) WithDedicated() *Builder {
	b.labels[KeyDedicated] = DedicatedValue
	return b
}

// Merge adds all labels from the provided map. Reserved keys already set
// by the builder keep their builder value.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyDedicated {
			continue
		}
		b.labels[k] = v
	}
	return b
}

// Build returns a copy of the labels map.
func (b *Builder) Build() map[string]string {
	result := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		result[k] = v
	}
	return result
}

// SelectorForCluster returns a label selector matching all resources of a
// cluster.
func SelectorForCluster(clusterName string) string {
	return KeyCluster + "=" + clusterName
}

// SelectorForDedicated returns a label selector matching the dedicated
// nodes of a cluster.
func SelectorForDedicated(clusterName string) string {
	return SelectorForCluster(clusterName) + "," + KeyDedicated + "=" + DedicatedValue
}
