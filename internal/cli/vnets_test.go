package cli

import (
	"testing"

	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

func TestParseVNetSpecs(t *testing.T) {
	specs, err := parseVNetSpecs("Production/rg-net/hub-vnet, sub-id/rg-app/spoke")
	if err != nil {
		t.Fatalf("parseVNetSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0] != (vnetSpec{"Production", "rg-net", "hub-vnet"}) {
		t.Errorf("specs[0] = %+v", specs[0])
	}
	if specs[1] != (vnetSpec{"sub-id", "rg-app", "spoke"}) {
		t.Errorf("specs[1] = %+v", specs[1])
	}
}

func TestParseVNetSpecsInvalid(t *testing.T) {
	for _, input := range []string{"hub-vnet", "sub/rg", "sub//vnet", "a/b/c/d", ""} {
		if _, err := parseVNetSpecs(input); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("parseVNetSpecs(%q) = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestSpecSubscriptionsDeduplicates(t *testing.T) {
	specs := []vnetSpec{
		{"prod", "rg-a", "v1"},
		{"dev", "rg-b", "v2"},
		{"prod", "rg-c", "v3"},
	}
	got := specSubscriptions(specs)
	if len(got) != 2 || got[0] != "prod" || got[1] != "dev" {
		t.Errorf("specSubscriptions = %v, want [prod dev]", got)
	}
}

func filterFixture() *topology.Topology {
	hub := &topology.Node{
		Name:               "hub-vnet",
		ResourceID:         "hub_id",
		SubscriptionName:   "Production",
		ResourceGroupName:  "rg-net",
		PeeringResourceIDs: []string{"spoke1_id", "spoke2_id"},
	}
	spoke1 := &topology.Node{
		Name:               "spoke1",
		ResourceID:         "spoke1_id",
		SubscriptionName:   "Production",
		ResourceGroupName:  "rg-app",
		PeeringResourceIDs: []string{"hub_id"},
	}
	// Half-configured peering: only the hub side declares it.
	spoke2 := &topology.Node{
		Name:              "spoke2",
		ResourceID:        "spoke2_id",
		SubscriptionName:  "Production",
		ResourceGroupName: "rg-app",
	}
	island := &topology.Node{
		Name:              "island",
		ResourceID:        "island_id",
		SubscriptionName:  "Production",
		ResourceGroupName: "rg-sandbox",
	}
	return &topology.Topology{Nodes: []*topology.Node{hub, spoke1, spoke2, island}}
}

func TestFilterToVNetsKeepsPeersBothDirections(t *testing.T) {
	topo := filterFixture()
	out, err := filterToVNets(topo, []vnetSpec{{"Production", "rg-net", "hub-vnet"}})
	if err != nil {
		t.Fatalf("filterToVNets: %v", err)
	}

	names := make([]string, 0, len(out.Nodes))
	for _, n := range out.Nodes {
		names = append(names, n.Name)
	}
	want := []string{"hub-vnet", "spoke1", "spoke2"}
	if len(names) != len(want) {
		t.Fatalf("kept %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("kept[%d] = %s, want %s", i, names[i], name)
		}
	}
}

func TestFilterToVNetsCaseInsensitive(t *testing.T) {
	topo := filterFixture()
	out, err := filterToVNets(topo, []vnetSpec{{"production", "RG-SANDBOX", "Island"}})
	if err != nil {
		t.Fatalf("filterToVNets: %v", err)
	}
	if len(out.Nodes) != 1 || out.Nodes[0].Name != "island" {
		t.Errorf("kept %d nodes, want just island", len(out.Nodes))
	}
}

func TestFilterToVNetsUnknownVNet(t *testing.T) {
	topo := filterFixture()
	_, err := filterToVNets(topo, []vnetSpec{{"Production", "rg-net", "no-such-vnet"}})
	if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
