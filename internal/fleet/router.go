package fleet

// Routed holds the two disjoint join pipelines produced from one
// normalized node sequence. Relative order within each pipeline matches
// the input order; no node appears in both.
type Routed struct {
	Native []Node
	Manual []Node

	index map[string]*Node
}

// Route partitions nodes by join mode. The split happens exactly once
// here; downstream generators receive their pipeline and never re-check
// the mode.
func Route(nodes []Node) *Routed {
	r := &Routed{}

	for _, n := range nodes {
		if n.Mode == JoinModeManual {
			r.Manual = append(r.Manual, n)
		} else {
			r.Native = append(r.Native, n)
		}
	}

	// Index is built after both slices are final so the pointers stay valid.
	r.index = make(map[string]*Node, len(nodes))
	for i := range r.Native {
		r.index[r.Native[i].Hostname] = &r.Native[i]
	}
	for i := range r.Manual {
		r.index[r.Manual[i].Hostname] = &r.Manual[i]
	}

	return r
}

// Lookup returns the node with the given hostname, if routed.
func (r *Routed) Lookup(hostname string) (*Node, bool) {
	n, ok := r.index[hostname]
	return n, ok
}

// Len returns the total number of routed nodes.
func (r *Routed) Len() int {
	return len(r.Native) + len(r.Manual)
}
