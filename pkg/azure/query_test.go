package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

const (
	vnetID = "/subscriptions/s1/resourceGroups/rg-net/providers/Microsoft.Network/virtualNetworks/hub1"
	hubID  = "/subscriptions/s1/resourceGroups/rg-wan/providers/Microsoft.Network/virtualHubs/vwan-hub"
)

var testSub = Subscription{ID: "s1", Name: "prod", TenantID: "t1"}

// armServer answers the subset of ARM endpoints the queries hit.
func armServer(t *testing.T) *httptest.Server {
	t.Helper()

	vnets := map[string]any{"value": []any{map[string]any{
		"id":   vnetID,
		"name": "hub1",
		"properties": map[string]any{
			"addressSpace": map[string]any{"addressPrefixes": []string{"10.0.0.0/16"}},
			"subnets": []any{
				map[string]any{"name": "default", "properties": map[string]any{
					"addressPrefix":        "10.0.1.0/24",
					"networkSecurityGroup": map[string]any{"id": "nsg1"},
				}},
				map[string]any{"name": "GatewaySubnet", "properties": map[string]any{
					"addressPrefix": "10.0.0.0/27",
				}},
				map[string]any{"name": "AzureFirewallSubnet", "properties": map[string]any{
					"addressPrefix": "10.0.2.0/26",
					"routeTable":    map[string]any{"id": "rt1"},
				}},
			},
			"virtualNetworkPeerings": []any{
				map[string]any{"name": "to-spoke", "properties": map[string]any{
					"remoteVirtualNetwork": map[string]any{"id": "spoke_id"},
				}},
			},
		},
	}}}

	gateways := map[string]any{"value": []any{map[string]any{
		"properties": map[string]any{
			"gatewayType": "ExpressRoute",
			"ipConfigurations": []any{map[string]any{"properties": map[string]any{
				"subnet": map[string]any{"id": vnetID + "/subnets/GatewaySubnet"},
			}}},
		},
	}}}

	hubs := map[string]any{"value": []any{map[string]any{
		"id":   hubID,
		"name": "vwan-hub",
		"properties": map[string]any{"addressPrefix": "10.100.0.0/23"},
	}}}

	conns := map[string]any{"value": []any{map[string]any{
		"properties": map[string]any{
			"remoteVirtualNetwork": map[string]any{"id": vnetID},
		},
	}}}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/virtualNetworks"):
			json.NewEncoder(w).Encode(vnets)
		case strings.HasSuffix(r.URL.Path, "/virtualNetworkGateways"):
			json.NewEncoder(w).Encode(gateways)
		case strings.HasSuffix(r.URL.Path, "/virtualHubs"):
			json.NewEncoder(w).Encode(hubs)
		case strings.HasSuffix(r.URL.Path, "/hubVirtualNetworkConnections"):
			json.NewEncoder(w).Encode(conns)
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestVirtualNetworksAssemblesNode(t *testing.T) {
	server := armServer(t)
	defer server.Close()

	c := testClient(server.URL)
	nodes, err := c.VirtualNetworks(context.Background(), testSub)
	if err != nil {
		t.Fatalf("VirtualNetworks: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(nodes))
	}

	n := nodes[0]
	if n.Name != "hub1" || n.ResourceID != vnetID {
		t.Errorf("identity = %s / %s", n.Name, n.ResourceID)
	}
	if n.ResourceGroupName != "rg-net" || n.SubscriptionName != "prod" {
		t.Errorf("metadata = %s / %s", n.ResourceGroupName, n.SubscriptionName)
	}
	if n.AddressSpace != "10.0.0.0/16" {
		t.Errorf("address space = %s", n.AddressSpace)
	}
	if len(n.Subnets) != 3 || !n.Subnets[0].HasNSG || !n.Subnets[2].HasUDR {
		t.Errorf("subnets = %+v", n.Subnets)
	}
	if !n.HasFirewall {
		t.Error("AzureFirewallSubnet not detected")
	}
	// The gateway inventory resolves the gateway subnet to ExpressRoute.
	if !n.HasExpressRoute || n.HasVPNGateway {
		t.Errorf("gateway flags = er:%v vpn:%v, want er only", n.HasExpressRoute, n.HasVPNGateway)
	}
	if len(n.PeeringResourceIDs) != 1 || n.PeeringResourceIDs[0] != "spoke_id" {
		t.Errorf("peerings = %v", n.PeeringResourceIDs)
	}
	if !strings.Contains(n.ConsoleURL, "#@t1/resource"+vnetID) {
		t.Errorf("console url = %s", n.ConsoleURL)
	}
}

func TestBuildTopologyMirrorsHubConnections(t *testing.T) {
	server := armServer(t)
	defer server.Close()

	c := testClient(server.URL)
	topo, err := c.BuildTopology(context.Background(), []Subscription{testSub})
	if err != nil {
		t.Fatalf("BuildTopology: %v", err)
	}
	if len(topo.Nodes) != 2 {
		t.Fatalf("nodes = %d, want vnet + virtual hub", len(topo.Nodes))
	}

	hub := topo.NodeByResourceID()[hubID]
	if hub == nil || !hub.IsVirtualHub() {
		t.Fatal("virtual hub missing")
	}
	// The hub declares the connection; the spoke side is mirrored so both
	// directions are visible to classification.
	vnet := topo.NodeByResourceID()[vnetID]
	if !vnet.PeersWith(hubID) {
		t.Error("hub connection not mirrored onto the vnet")
	}
	if !hub.PeersWith(vnetID) {
		t.Error("hub connection missing on the hub")
	}
}

func TestBuildTopologyEmptyIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"value": []any{}})
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.BuildTopology(context.Background(), []Subscription{testSub})
	if !apperrors.HasCode(err, apperrors.ErrCodeEmptyTopology) {
		t.Errorf("err = %v, want EMPTY_TOPOLOGY", err)
	}
}

func TestResourceGroupParsing(t *testing.T) {
	if got := resourceGroupOf(vnetID); got != "rg-net" {
		t.Errorf("resourceGroupOf = %q, want rg-net", got)
	}
	if got := resourceGroupIDOf(vnetID); got != "/subscriptions/s1/resourceGroups/rg-net" {
		t.Errorf("resourceGroupIDOf = %q", got)
	}
	if got := resourceGroupOf("not-an-arm-id"); got != "" {
		t.Errorf("resourceGroupOf(junk) = %q, want empty", got)
	}
}

func TestMirrorHubConnectionsIsIdempotent(t *testing.T) {
	hub := &topology.Node{Name: "h", ResourceID: "h_id", Kind: topology.KindVirtualHub,
		PeeringResourceIDs: []string{"v_id"}}
	vnet := &topology.Node{Name: "v", ResourceID: "v_id",
		PeeringResourceIDs: []string{"h_id"}}
	topo := &topology.Topology{Nodes: []*topology.Node{hub, vnet}}

	mirrorHubConnections(topo)
	if len(vnet.PeeringResourceIDs) != 1 {
		t.Errorf("peerings = %v, existing reference duplicated", vnet.PeeringResourceIDs)
	}
}
