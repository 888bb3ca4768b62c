// Package layout turns a classified topology into a 2-D diagram tree:
// groups, boxes, icons, and edges with explicit coordinates. The tree is the
// sole contract with the format writers and assumes no particular target
// markup.
//
// # Architecture
//
// The pipeline inside this package runs in a fixed order per zone:
//
//  1. Place the hub
//  2. Place right-column spokes (with their tree edges)
//  3. Place left-column spokes (with their tree edges)
//
// followed by a global non-peered grid phase, the de-duplicated peering
// mesh, and cross-zone edges for multi-homed spokes. Everything is
// single-threaded and rebuilt from scratch per run; there is no shared
// state between runs.
package layout

import "github.com/krhatland/cloudnetdraw-go/pkg/topology"

// Mode selects the render depth.
type Mode string

// Render modes. HLD shows fixed-height VNet boxes; MLD grows each box with
// its subnet rows.
const (
	ModeHLD Mode = "hld"
	ModeMLD Mode = "mld"
)

// Valid reports whether m is a known render mode.
func (m Mode) Valid() bool {
	return m == ModeHLD || m == ModeMLD
}

// Point is a 2-D coordinate, used for edge waypoints.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Group is the container geometry around one node box and its decorator
// icons, so they move as a unit in the editor. Coordinates are absolute.
type Group struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Node carries the source metadata for hyperlink generation.
	Node *topology.Node `json:"-"`
}

// Box is one rectangle: a VNet/hub main box or a subnet row. Coordinates
// are relative to the parent element (group for main boxes, main box for
// subnet rows).
type Box struct {
	ID       string  `json:"id"`
	ParentID string  `json:"parent_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`

	// Role is the styling token: hub, spoke, non_peered, or subnet.
	Role  string `json:"role"`
	Label string `json:"label,omitempty"`

	// Node is nil for subnet rows.
	Node *topology.Node `json:"-"`
}

// Box roles beyond the node roles in NodeRole.
const BoxRoleSubnet = "subnet"

// Icon is one positioned catalogue icon, relative to its parent element.
type Icon struct {
	ID       string  `json:"id"`
	ParentID string  `json:"parent_id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Edge is one connector between two element IDs.
type Edge struct {
	ID       string  `json:"id"`
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Style    string  `json:"style,omitempty"`
	Points   []Point `json:"points,omitempty"`
}

// Diagram is the complete layout tree handed to a format writer.
type Diagram struct {
	Mode   Mode    `json:"mode"`
	Groups []Group `json:"groups"`
	Boxes  []Box   `json:"boxes"`
	Icons  []Icon  `json:"icons"`
	Edges  []Edge  `json:"edges"`
}

// splitColumns applies the dual-column overflow rule: up to six spokes stay
// in a single right-hand column; beyond that the left column takes the
// first ceil(n/2) spokes (the extra one on odd counts) and the right column
// the rest.
func splitColumns(spokes []*topology.Node) (left, right []*topology.Node) {
	if len(spokes) <= 6 {
		return nil, spokes
	}
	half := (len(spokes) + 1) / 2
	return spokes[:half], spokes[half:]
}
