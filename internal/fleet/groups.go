package fleet

import "sort"

// Group is a set of nodes sharing one vSwitch segment. Groups are derived
// by partitioning normalized nodes on their vSwitch identifier; they are
// never declared directly.
type Group struct {
	VSwitch string
	Nodes   []Node
}

// GroupByVSwitch partitions nodes into connectivity groups. The returned
// slice is ordered by a stable lexicographic sort of the vSwitch
// identifiers, so the grouping is identical however the nodes were
// declared or discovered. Node order within a group follows input order.
func GroupByVSwitch(nodes []Node) []Group {
	byID := make(map[string][]Node)
	for _, n := range nodes {
		byID[n.VSwitch] = append(byID[n.VSwitch], n)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]Group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, Group{VSwitch: id, Nodes: byID[id]})
	}
	return groups
}

// GroupIDs returns the sorted distinct vSwitch identifiers of a node set.
// This is the domain of the range-allocation function.
func GroupIDs(nodes []Node) []string {
	groups := GroupByVSwitch(nodes)
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.VSwitch)
	}
	return ids
}
