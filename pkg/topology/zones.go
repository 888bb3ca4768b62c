package topology

// Zone is one hub plus the spokes assigned to it, rendered as a spatial
// cluster. Zones live for a single rendering pass.
type Zone struct {
	Index  int
	Hub    *Node
	Spokes []*Node
}

// AssignZones maps every peered spoke to exactly one hub zone.
//
// Assignment is first-match-wins over the name-sorted hub list: the spoke
// joins the first hub whose resource id appears among its peering
// references. A spoke that peers with no visible hub defaults to zone 0 —
// an intentionally simple policy, not a best-match heuristic. Spokes keep
// their original relative order within a zone.
func AssignZones(hubs, peeredSpokes []*Node) []Zone {
	zones := make([]Zone, len(hubs))
	for i, hub := range hubs {
		zones[i] = Zone{Index: i, Hub: hub}
	}
	if len(zones) == 0 {
		return zones
	}

	for _, spoke := range peeredSpokes {
		i := FirstHubZone(spoke, hubs)
		zones[i].Spokes = append(zones[i].Spokes, spoke)
	}
	return zones
}

// FirstHubZone returns the index of the first hub the spoke peers with, or
// 0 when none match.
func FirstHubZone(spoke *Node, hubs []*Node) int {
	for i, hub := range hubs {
		if spoke.PeersWith(hub.ResourceID) {
			return i
		}
	}
	return 0
}

// ConnectedHubs returns the indices of ALL hubs the spoke peers with, not
// just its assigned zone. The extra indices drive cross-zone edges for
// multi-homed spokes.
func ConnectedHubs(spoke *Node, hubs []*Node) []int {
	var connected []int
	for i, hub := range hubs {
		if spoke.PeersWith(hub.ResourceID) {
			connected = append(connected, i)
		}
	}
	return connected
}
