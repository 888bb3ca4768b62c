package topology

import (
	"cmp"
	"slices"
)

// Classification is the three-way split of an inventory.
// Hubs + PeeredSpokes + NonPeeredSpokes always covers the input exactly.
type Classification struct {
	// Hubs sorted by name. The sort order is load-bearing: it is what makes
	// zone indices deterministic across runs with shuffled input.
	Hubs []*Node

	// PeeredSpokes are non-hub nodes with at least one peering reference,
	// in original input order.
	PeeredSpokes []*Node

	// NonPeeredSpokes have no peering references at all. They never join a
	// zone and render in the overflow grid below the zones.
	NonPeeredSpokes []*Node
}

// Classify splits nodes into hubs and peered/non-peered spokes.
//
// A node is a hub iff its peering count reaches hubThreshold or the
// inventory marked it as an explicit hub. When nothing qualifies and the
// input is non-empty, the first node in input order becomes the sole hub so
// the layout always has an anchor.
func Classify(nodes []*Node, hubThreshold int) Classification {
	var c Classification

	isHub := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		if n.PeeringCount() >= hubThreshold || n.IsExplicitHub {
			isHub[n] = true
			c.Hubs = append(c.Hubs, n)
		}
	}

	if len(c.Hubs) == 0 && len(nodes) > 0 {
		isHub[nodes[0]] = true
		c.Hubs = append(c.Hubs, nodes[0])
	}

	slices.SortStableFunc(c.Hubs, func(a, b *Node) int {
		return cmp.Compare(a.Name, b.Name)
	})

	for _, n := range nodes {
		if isHub[n] {
			continue
		}
		if n.PeeringCount() > 0 {
			c.PeeredSpokes = append(c.PeeredSpokes, n)
		} else {
			c.NonPeeredSpokes = append(c.NonPeeredSpokes, n)
		}
	}

	return c
}
