package layout

import (
	"testing"

	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

func TestElementIDHierarchical(t *testing.T) {
	n := &topology.Node{
		Name:              "hub1",
		SubscriptionName:  "prod",
		ResourceGroupName: "rg-net",
	}

	cases := []struct {
		kind, suffix, want string
	}{
		{ElemGroup, "", "prod.rg-net.hub1"},
		{ElemMain, "", "prod.rg-net.hub1.main"},
		{ElemSubnet, "0", "prod.rg-net.hub1.subnet.0"},
		{ElemIcon, "vpn", "prod.rg-net.hub1.icon.vpn"},
	}
	for _, tc := range cases {
		if got := ElementID(n, tc.kind, tc.suffix); got != tc.want {
			t.Errorf("ElementID(%q, %q) = %q, want %q", tc.kind, tc.suffix, got, tc.want)
		}
	}
}

func TestElementIDSanitizesDots(t *testing.T) {
	n := &topology.Node{
		Name:              "vnet.east",
		SubscriptionName:  "contoso.com",
		ResourceGroupName: "rg.shared",
	}

	if got, want := ElementID(n, ElemMain, ""), "contoso_com.rg_shared.vnet_east.main"; got != want {
		t.Errorf("ElementID = %q, want %q", got, want)
	}
}

func TestElementIDFallback(t *testing.T) {
	n := &topology.Node{Name: "orphan"}

	if got, want := ElementID(n, ElemGroup, ""), "orphan"; got != want {
		t.Errorf("group id = %q, want %q", got, want)
	}
	if got, want := ElementID(n, ElemMain, ""), "orphan_main"; got != want {
		t.Errorf("main id = %q, want %q", got, want)
	}
	if got, want := ElementID(n, ElemIcon, "firewall"), "orphan_icon_firewall"; got != want {
		t.Errorf("icon id = %q, want %q", got, want)
	}
}

func TestElementIDPartialMetadataUsesFallbackEntirely(t *testing.T) {
	// subscription_name present but resourcegroup_name missing: the whole
	// hierarchical scheme is abandoned, never a hybrid.
	n := &topology.Node{Name: "half", SubscriptionName: "prod"}

	if got, want := ElementID(n, ElemMain, ""), "half_main"; got != want {
		t.Errorf("ElementID = %q, want %q", got, want)
	}
}

func TestElementIDDeterministicAndCollisionFree(t *testing.T) {
	a := &topology.Node{Name: "v", SubscriptionName: "s1", ResourceGroupName: "rg"}
	b := &topology.Node{Name: "v", SubscriptionName: "s2", ResourceGroupName: "rg"}

	if ElementID(a, ElemMain, "") != ElementID(a, ElemMain, "") {
		t.Error("same input produced different IDs")
	}
	if ElementID(a, ElemMain, "") == ElementID(b, ElemMain, "") {
		t.Error("distinct (subscription, rg, name) triples collided")
	}
}

func TestBuildIDMapRolesAndExclusion(t *testing.T) {
	hub := &topology.Node{Name: "hub", ResourceID: "hub_id"}
	spoke := &topology.Node{Name: "spoke", ResourceID: "spoke_id"}
	island := &topology.Node{Name: "island", ResourceID: "island_id"}
	bare := &topology.Node{Name: "bare"} // no resource_id: never mapped

	zones := []topology.Zone{{Index: 0, Hub: hub, Spokes: []*topology.Node{spoke, bare}}}
	ids := BuildIDMap(zones, []*topology.Node{island})

	if len(ids) != 3 {
		t.Fatalf("len(ids) = %d, want 3", len(ids))
	}
	if got := ids["hub_id"]; got.Role != RoleHub || got.ElementID != "hub_main" {
		t.Errorf("hub entry = %+v", got)
	}
	if got := ids["spoke_id"]; got.Role != RoleSpoke {
		t.Errorf("spoke role = %v, want RoleSpoke", got.Role)
	}
	if got := ids["island_id"]; got.Role != RoleNonPeered {
		t.Errorf("island role = %v, want RoleNonPeered", got.Role)
	}
}

func TestSplitColumnsLaw(t *testing.T) {
	cases := []struct {
		n, left, right int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{6, 0, 6},
		{7, 4, 3},
		{8, 4, 4},
		{11, 6, 5},
	}
	for _, tc := range cases {
		spokes := make([]*topology.Node, tc.n)
		for i := range spokes {
			spokes[i] = &topology.Node{Name: "s"}
		}
		left, right := splitColumns(spokes)
		if len(left) != tc.left || len(right) != tc.right {
			t.Errorf("splitColumns(n=%d) = %d/%d, want %d/%d",
				tc.n, len(left), len(right), tc.left, tc.right)
		}
	}
}

func TestNodeRoleString(t *testing.T) {
	if RoleHub.String() != "hub" || RoleSpoke.String() != "spoke" || RoleNonPeered.String() != "non_peered" {
		t.Error("role tokens do not match style table keys")
	}
}
