package topology

import (
	"fmt"
	"math/rand"
	"testing"
)

func vnet(name string, peers ...string) *Node {
	return &Node{
		Name:               name,
		ResourceID:         name + "_id",
		PeeringResourceIDs: peers,
	}
}

func TestClassifyThreshold(t *testing.T) {
	nodes := []*Node{
		vnet("hub1", "a", "b", "c"),
		vnet("spoke1", "hub1_id"),
		vnet("island"),
	}

	c := Classify(nodes, 3)

	if len(c.Hubs) != 1 || c.Hubs[0].Name != "hub1" {
		t.Fatalf("Hubs = %v, want [hub1]", names(c.Hubs))
	}
	if len(c.PeeredSpokes) != 1 || c.PeeredSpokes[0].Name != "spoke1" {
		t.Errorf("PeeredSpokes = %v, want [spoke1]", names(c.PeeredSpokes))
	}
	if len(c.NonPeeredSpokes) != 1 || c.NonPeeredSpokes[0].Name != "island" {
		t.Errorf("NonPeeredSpokes = %v, want [island]", names(c.NonPeeredSpokes))
	}
}

func TestClassifyExplicitHubOverride(t *testing.T) {
	forced := vnet("forced")
	forced.IsExplicitHub = true

	c := Classify([]*Node{vnet("other", "x"), forced}, 3)

	if len(c.Hubs) != 1 || c.Hubs[0] != forced {
		t.Errorf("Hubs = %v, want [forced]", names(c.Hubs))
	}
}

func TestClassifyFallbackFirstNode(t *testing.T) {
	nodes := []*Node{vnet("b", "x"), vnet("a", "y")}

	c := Classify(nodes, 5)

	// No node reaches the threshold: the first node in input order anchors
	// the layout, regardless of name ordering.
	if len(c.Hubs) != 1 || c.Hubs[0].Name != "b" {
		t.Fatalf("Hubs = %v, want [b]", names(c.Hubs))
	}
}

func TestClassifyTotality(t *testing.T) {
	var nodes []*Node
	for i := range 20 {
		n := vnet(fmt.Sprintf("n%02d", i))
		if i%3 == 0 {
			n.PeeringResourceIDs = []string{"p1", "p2", "p3", "p4"}
		} else if i%3 == 1 {
			n.PeeringResourceIDs = []string{"p1"}
		}
		nodes = append(nodes, n)
	}

	c := Classify(nodes, 4)

	total := len(c.Hubs) + len(c.PeeredSpokes) + len(c.NonPeeredSpokes)
	if total != len(nodes) {
		t.Errorf("partition size = %d, want %d", total, len(nodes))
	}
}

func TestClassifyHubOrderDeterministic(t *testing.T) {
	build := func() []*Node {
		return []*Node{
			vnet("hub-c", "1", "2", "3"),
			vnet("hub-a", "1", "2", "3"),
			vnet("hub-b", "1", "2", "3"),
			vnet("spoke", "hub-a_id"),
		}
	}

	want := []string{"hub-a", "hub-b", "hub-c"}
	rng := rand.New(rand.NewSource(7))

	for range 10 {
		nodes := build()
		rng.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })

		c := Classify(nodes, 3)
		got := names(c.Hubs)
		if len(got) != len(want) {
			t.Fatalf("Hubs = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Hubs = %v, want %v (shuffled input must not change order)", got, want)
			}
		}
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
