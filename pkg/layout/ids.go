package layout

import (
	"strings"

	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// ===== Element kinds =====

// Element kinds passed to ElementID. "group" is special: it never takes a
// suffix and the hierarchical form omits the kind entirely.
const (
	ElemGroup  = "group"
	ElemMain   = "main"
	ElemSubnet = "subnet"
	ElemIcon   = "icon"
)

// ===== ID generation =====

// ElementID derives a stable, collision-free diagram-element ID from node
// metadata. Pure: identical inputs always yield identical strings.
//
// With both subscription and resource-group names present the ID is
// hierarchical: "{subscription}.{resourcegroup}.{name}.{kind}[.{suffix}]",
// with literal dots inside each component replaced by underscores so the
// separators stay unambiguous. Group elements get the bare base with no
// kind appended.
//
// When either metadata field is missing the scheme falls back entirely to
// "{name}_{kind}[_{suffix}]" (group again: just the name). Partial metadata
// never produces a hybrid form.
func ElementID(n *topology.Node, kind, suffix string) string {
	if n.HasHierarchicalMetadata() {
		base := sanitize(n.SubscriptionName) + "." + sanitize(n.ResourceGroupName) + "." + sanitize(n.Name)
		if kind == ElemGroup {
			return base
		}
		id := base + "." + kind
		if suffix != "" {
			id += "." + suffix
		}
		return id
	}

	if kind == ElemGroup {
		return n.Name
	}
	id := n.Name + "_" + kind
	if suffix != "" {
		id += "_" + suffix
	}
	return id
}

func sanitize(component string) string {
	return strings.ReplaceAll(component, ".", "_")
}

// ===== Role-tagged ID mapping =====

// NodeRole tags how a node was classified. Edge construction branches on
// the tag directly instead of parsing it back out of ID strings.
type NodeRole int

// Node roles, in classification order.
const (
	RoleHub NodeRole = iota
	RoleSpoke
	RoleNonPeered
)

// String returns the styling token used by the configuration's style
// tables.
func (r NodeRole) String() string {
	switch r {
	case RoleHub:
		return "hub"
	case RoleSpoke:
		return "spoke"
	case RoleNonPeered:
		return "non_peered"
	default:
		return "unknown"
	}
}

// MappedID is one ID-map entry: the main-box element ID plus the node's
// role.
type MappedID struct {
	ElementID string
	Role      NodeRole
}

// IDMap resolves a node's resource_id to its main-box element ID and role.
// Nodes without a resource_id are excluded: they may still render, but they
// cannot participate in edges.
type IDMap map[string]MappedID

// BuildIDMap constructs the per-run ID mapping for all nodes that will be
// placed. The map is rebuilt from scratch on every run.
func BuildIDMap(zones []topology.Zone, nonPeered []*topology.Node) IDMap {
	ids := make(IDMap)
	add := func(n *topology.Node, role NodeRole) {
		if n.ResourceID == "" {
			return
		}
		ids[n.ResourceID] = MappedID{ElementID: ElementID(n, ElemMain, ""), Role: role}
	}

	for _, zone := range zones {
		add(zone.Hub, RoleHub)
		for _, spoke := range zone.Spokes {
			add(spoke, RoleSpoke)
		}
	}
	for _, n := range nonPeered {
		add(n, RoleNonPeered)
	}
	return ids
}
