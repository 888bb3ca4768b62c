package azure

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/krhatland/cloudnetdraw-go/pkg/cache"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// Subnet names with reserved roles. Their presence is how gateway and
// firewall deployment is detected without extra API round trips.
const (
	gatewaySubnetName  = "GatewaySubnet"
	firewallSubnetName = "AzureFirewallSubnet"
)

// Subscription is one Azure subscription visible to the credential.
type Subscription struct {
	ID       string `json:"subscriptionId"`
	Name     string `json:"displayName"`
	TenantID string `json:"tenantId"`
}

// Subscriptions lists every subscription the credential can read, sorted
// as returned by ARM. Cached for 24 hours.
func (c *Client) Subscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	err := c.cached(ctx, cache.Key("subscriptions"), cache.TTLSubscriptions, &subs, func() (any, error) {
		items, err := c.list(ctx, c.armURL("/subscriptions?api-version=%s", apiVersionSubscriptions))
		if err != nil {
			return nil, err
		}
		out := make([]Subscription, 0, len(items))
		for _, raw := range items {
			var s Subscription
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "decode subscription")
			}
			out = append(out, s)
		}
		return out, nil
	})
	return subs, err
}

// SubscriptionsByName resolves the given display names. Unknown names are
// an error: a typo should not silently shrink the diagram.
func (c *Client) SubscriptionsByName(ctx context.Context, names []string) ([]Subscription, error) {
	all, err := c.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Subscription, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}

	out := make([]Subscription, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeSubscriptionNotFound, "subscription %q not found", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// ===== ARM response shapes =====

type armVNet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties struct {
		AddressSpace struct {
			AddressPrefixes []string `json:"addressPrefixes"`
		} `json:"addressSpace"`
		Subnets []struct {
			Name       string `json:"name"`
			Properties struct {
				AddressPrefix        string           `json:"addressPrefix"`
				NetworkSecurityGroup *json.RawMessage `json:"networkSecurityGroup"`
				RouteTable           *json.RawMessage `json:"routeTable"`
			} `json:"properties"`
		} `json:"subnets"`
		VirtualNetworkPeerings []struct {
			Name       string `json:"name"`
			Properties struct {
				RemoteVirtualNetwork struct {
					ID string `json:"id"`
				} `json:"remoteVirtualNetwork"`
			} `json:"properties"`
		} `json:"virtualNetworkPeerings"`
	} `json:"properties"`
}

type armVirtualHub struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties struct {
		AddressPrefix string `json:"addressPrefix"`
	} `json:"properties"`
}

type armHubConnection struct {
	Properties struct {
		RemoteVirtualNetwork struct {
			ID string `json:"id"`
		} `json:"remoteVirtualNetwork"`
	} `json:"properties"`
}

type armGateway struct {
	Properties struct {
		GatewayType      string `json:"gatewayType"`
		IPConfigurations []struct {
			Properties struct {
				Subnet struct {
					ID string `json:"id"`
				} `json:"subnet"`
			} `json:"properties"`
		} `json:"ipConfigurations"`
	} `json:"properties"`
}

// ===== Topology assembly =====

// BuildTopology queries every given subscription and assembles the full
// inventory document. Zero networks across all subscriptions is fatal:
// there is nothing to draw.
func (c *Client) BuildTopology(ctx context.Context, subs []Subscription) (*topology.Topology, error) {
	topo := &topology.Topology{}

	for _, sub := range subs {
		nodes, err := c.VirtualNetworks(ctx, sub)
		if err != nil {
			return nil, err
		}
		topo.Nodes = append(topo.Nodes, nodes...)

		hubs, err := c.VirtualHubs(ctx, sub)
		if err != nil {
			return nil, err
		}
		topo.Nodes = append(topo.Nodes, hubs...)

		c.log.Info("queried subscription",
			"subscription", sub.Name, "vnets", len(nodes), "virtual_hubs", len(hubs))
	}

	mirrorHubConnections(topo)

	if err := topology.Validate(topo); err != nil {
		return nil, err
	}
	return topo, nil
}

// VirtualNetworks lists all VNets in a subscription as topology nodes,
// including subnets, peerings, and gateway/firewall feature flags. Cached
// for one hour.
func (c *Client) VirtualNetworks(ctx context.Context, sub Subscription) ([]*topology.Node, error) {
	var nodes []*topology.Node
	err := c.cached(ctx, cache.Key("vnets", sub.ID), cache.TTLNetworks, &nodes, func() (any, error) {
		items, err := c.list(ctx, c.armURL(
			"/subscriptions/%s/providers/Microsoft.Network/virtualNetworks?api-version=%s",
			sub.ID, apiVersionNetwork))
		if err != nil {
			return nil, err
		}

		gateways, err := c.gatewaysBySubnet(ctx, sub)
		if err != nil {
			return nil, err
		}

		out := make([]*topology.Node, 0, len(items))
		for _, raw := range items {
			var v armVNet
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "decode virtual network")
			}
			out = append(out, vnetNode(v, sub, gateways))
		}
		return out, nil
	})
	return nodes, err
}

func vnetNode(v armVNet, sub Subscription, gateways map[string]string) *topology.Node {
	n := &topology.Node{
		Name:              v.Name,
		ResourceID:        v.ID,
		Kind:              topology.KindRegular,
		AddressSpace:      strings.Join(v.Properties.AddressSpace.AddressPrefixes, ", "),
		SubscriptionName:  sub.Name,
		SubscriptionID:    sub.ID,
		TenantID:          sub.TenantID,
		ResourceGroupName: resourceGroupOf(v.ID),
		ResourceGroupID:   resourceGroupIDOf(v.ID),
		ConsoleURL:        consoleURL(sub.TenantID, v.ID),
	}

	for _, s := range v.Properties.Subnets {
		n.Subnets = append(n.Subnets, topology.Subnet{
			Name:    s.Name,
			Address: s.Properties.AddressPrefix,
			HasNSG:  s.Properties.NetworkSecurityGroup != nil,
			HasUDR:  s.Properties.RouteTable != nil,
		})
		subnetID := v.ID + "/subnets/" + s.Name

		switch s.Name {
		case firewallSubnetName:
			n.HasFirewall = true
		case gatewaySubnetName:
			// The gateway subnet hosts VPN or ExpressRoute gateways; which
			// one is resolved from the gateway inventory.
			switch gateways[strings.ToLower(subnetID)] {
			case "ExpressRoute":
				n.HasExpressRoute = true
			case "Vpn":
				n.HasVPNGateway = true
			default:
				// Subnet reserved but no gateway deployed (or the gateway
				// list was unreadable): assume VPN, the common case.
				n.HasVPNGateway = true
			}
		}
	}

	for _, p := range v.Properties.VirtualNetworkPeerings {
		if id := p.Properties.RemoteVirtualNetwork.ID; id != "" {
			n.PeeringResourceIDs = append(n.PeeringResourceIDs, id)
		}
	}
	return n
}

// gatewaysBySubnet maps lower-cased gateway subnet IDs to the gateway type
// (Vpn or ExpressRoute) for one subscription.
func (c *Client) gatewaysBySubnet(ctx context.Context, sub Subscription) (map[string]string, error) {
	items, err := c.list(ctx, c.armURL(
		"/subscriptions/%s/providers/Microsoft.Network/virtualNetworkGateways?api-version=%s",
		sub.ID, apiVersionNetwork))
	if err != nil {
		// Gateway inventory is a refinement, not a requirement: without it
		// the gateway subnet heuristic still applies.
		if apperrors.HasCode(err, apperrors.ErrCodeForbidden) || apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			c.log.Debug("gateway inventory unavailable", "subscription", sub.Name, "err", err)
			return map[string]string{}, nil
		}
		return nil, err
	}

	bySubnet := make(map[string]string)
	for _, raw := range items {
		var g armGateway
		if err := json.Unmarshal(raw, &g); err != nil {
			continue
		}
		for _, ipc := range g.Properties.IPConfigurations {
			if id := ipc.Properties.Subnet.ID; id != "" {
				bySubnet[strings.ToLower(id)] = g.Properties.GatewayType
			}
		}
	}
	return bySubnet, nil
}

// VirtualHubs lists the Virtual WAN hubs in a subscription as virtual_hub
// nodes, with hub connections translated into peering references. Cached
// for one hour.
func (c *Client) VirtualHubs(ctx context.Context, sub Subscription) ([]*topology.Node, error) {
	var nodes []*topology.Node
	err := c.cached(ctx, cache.Key("virtualhubs", sub.ID), cache.TTLNetworks, &nodes, func() (any, error) {
		items, err := c.list(ctx, c.armURL(
			"/subscriptions/%s/providers/Microsoft.Network/virtualHubs?api-version=%s",
			sub.ID, apiVersionNetwork))
		if err != nil {
			return nil, err
		}

		out := make([]*topology.Node, 0, len(items))
		for _, raw := range items {
			var h armVirtualHub
			if err := json.Unmarshal(raw, &h); err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "decode virtual hub")
			}

			n := &topology.Node{
				Name:              h.Name,
				ResourceID:        h.ID,
				Kind:              topology.KindVirtualHub,
				AddressSpace:      h.Properties.AddressPrefix,
				SubscriptionName:  sub.Name,
				SubscriptionID:    sub.ID,
				TenantID:          sub.TenantID,
				ResourceGroupName: resourceGroupOf(h.ID),
				ResourceGroupID:   resourceGroupIDOf(h.ID),
				ConsoleURL:        consoleURL(sub.TenantID, h.ID),
			}

			conns, err := c.list(ctx, c.armURL(
				"%s/hubVirtualNetworkConnections?api-version=%s", h.ID, apiVersionNetwork))
			if err != nil {
				return nil, err
			}
			for _, rawConn := range conns {
				var conn armHubConnection
				if err := json.Unmarshal(rawConn, &conn); err != nil {
					continue
				}
				if id := conn.Properties.RemoteVirtualNetwork.ID; id != "" {
					n.PeeringResourceIDs = append(n.PeeringResourceIDs, id)
				}
			}
			out = append(out, n)
		}
		return out, nil
	})
	return nodes, err
}

// mirrorHubConnections adds the reverse peering reference on spokes that a
// virtual hub connects to. Hub connections are declared only on the hub
// side; mirroring them keeps classification and zone assignment symmetric
// with regular VNet peering.
func mirrorHubConnections(topo *topology.Topology) {
	byID := topo.NodeByResourceID()
	for _, n := range topo.Nodes {
		if !n.IsVirtualHub() {
			continue
		}
		for _, pid := range n.PeeringResourceIDs {
			spoke, ok := byID[pid]
			if !ok || spoke.PeersWith(n.ResourceID) {
				continue
			}
			spoke.PeeringResourceIDs = append(spoke.PeeringResourceIDs, n.ResourceID)
		}
	}
}

// ===== Resource ID helpers =====

// resourceGroupOf extracts the resource group name from an ARM resource ID
// (/subscriptions/{id}/resourceGroups/{name}/...).
func resourceGroupOf(resourceID string) string {
	parts := strings.Split(resourceID, "/")
	for i := 0; i < len(parts)-1; i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}
	return ""
}

func resourceGroupIDOf(resourceID string) string {
	parts := strings.Split(resourceID, "/")
	for i := 0; i < len(parts)-1; i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return strings.Join(parts[:i+2], "/")
		}
	}
	return ""
}

func consoleURL(tenantID, resourceID string) string {
	if tenantID == "" {
		return "https://portal.azure.com/#resource" + resourceID
	}
	return "https://portal.azure.com/#@" + tenantID + "/resource" + resourceID
}
