// Package topology defines the network inventory document: virtual networks
// and Virtual WAN hubs with their subnets, feature flags, peering references,
// and identifier metadata. It also implements hub/spoke classification and
// zone assignment, the first two stages of the rendering pipeline.
package topology

import "slices"

// Kind distinguishes regular VNets from Virtual WAN hubs.
type Kind string

// Node kinds. An empty kind means KindRegular.
const (
	KindRegular    Kind = "regular"
	KindVirtualHub Kind = "virtual_hub"
)

// Subnet is one subnet row inside a VNet.
type Subnet struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	HasNSG  bool   `json:"has_nsg,omitempty"`
	HasUDR  bool   `json:"has_udr,omitempty"`
}

// Node is one virtual network or virtual hub in the inventory.
//
// Name is always present but not guaranteed unique across subscriptions;
// ResourceID establishes uniqueness where it exists. A node without a
// ResourceID still renders but is excluded from edge construction.
type Node struct {
	Name               string   `json:"name"`
	ResourceID         string   `json:"resource_id,omitempty"`
	Kind               Kind     `json:"kind,omitempty"`
	AddressSpace       string   `json:"address_space,omitempty"`
	Subnets            []Subnet `json:"subnets,omitempty"`
	PeeringResourceIDs []string `json:"peering_resource_ids,omitempty"`

	HasExpressRoute bool `json:"has_expressroute,omitempty"`
	HasVPNGateway   bool `json:"has_vpn_gateway,omitempty"`
	HasFirewall     bool `json:"has_firewall,omitempty"`

	// Identifier and hyperlink metadata. All optional; when subscription or
	// resource group names are missing, element IDs fall back to the simple
	// name-based scheme.
	SubscriptionName  string `json:"subscription_name,omitempty"`
	SubscriptionID    string `json:"subscription_id,omitempty"`
	TenantID          string `json:"tenant_id,omitempty"`
	ResourceGroupName string `json:"resourcegroup_name,omitempty"`
	ResourceGroupID   string `json:"resourcegroup_id,omitempty"`
	ConsoleURL        string `json:"console_url,omitempty"`

	// IsExplicitHub forces hub classification regardless of peering count.
	IsExplicitHub bool `json:"is_explicit_hub,omitempty"`
}

// IsVirtualHub reports whether the node is a Virtual WAN hub.
// Virtual hubs never show subnets and use a fixed box height.
func (n *Node) IsVirtualHub() bool {
	return n.Kind == KindVirtualHub
}

// PeeringCount returns the number of declared peering references.
func (n *Node) PeeringCount() int {
	return len(n.PeeringResourceIDs)
}

// PeersWith reports whether the node declares a peering to resourceID.
func (n *Node) PeersWith(resourceID string) bool {
	return resourceID != "" && slices.Contains(n.PeeringResourceIDs, resourceID)
}

// HasHierarchicalMetadata reports whether the node carries enough metadata
// for hierarchical element IDs. Partial metadata does not qualify: the
// fallback scheme is all-or-nothing.
func (n *Node) HasHierarchicalMetadata() bool {
	return n.SubscriptionName != "" && n.ResourceGroupName != ""
}

// Topology is the inventory document handed to the rendering pipeline.
type Topology struct {
	Nodes []*Node `json:"nodes"`
}

// NodeByResourceID builds a resource-id lookup over the nodes that carry
// one. Nodes without a ResourceID are not included.
func (t *Topology) NodeByResourceID() map[string]*Node {
	byID := make(map[string]*Node, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.ResourceID != "" {
			byID[n.ResourceID] = n
		}
	}
	return byID
}
