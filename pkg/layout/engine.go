package layout

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// ===== Geometry constants =====

// Fixed geometry not exposed through configuration. The zone base width and
// the column gap come from the canonical canvas proportions; the column
// threshold is the point where a single spoke column becomes unwieldy.
const (
	zoneBaseWidth = 920
	columnGap     = 50
	hldBoxHeight  = 50

	mldRowPadding = 20

	hldNonPeeredGap       = 100
	mldNonPeeredGap       = 60
	hldNonPeeredRowHeight = 70
	mldNonPeeredRowHeight = 120
)

// ===== Engine =====

// Engine computes the full layout tree for one topology document. An Engine
// is cheap and stateless between runs; every Build call starts from
// scratch.
type Engine struct {
	cfg  *config.Config
	mode Mode
	log  *log.Logger
}

// NewEngine returns an engine for the given render mode. A nil logger
// silences diagnostics.
func NewEngine(cfg *config.Config, mode Mode, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{cfg: cfg, mode: mode, log: logger}
}

// Build runs the classify → assign → layout → edges pipeline and returns
// the layout tree. An empty inventory is fatal: no diagram is better than
// an empty one.
func (e *Engine) Build(topo *topology.Topology) (*Diagram, error) {
	if err := topology.Validate(topo); err != nil {
		return nil, err
	}

	class := topology.Classify(topo.Nodes, e.cfg.HubThreshold())
	zones := topology.AssignZones(class.Hubs, class.PeeredSpokes)
	ids := BuildIDMap(zones, class.NonPeeredSpokes)

	e.log.Debug("classified topology",
		"hubs", len(class.Hubs),
		"peered_spokes", len(class.PeeredSpokes),
		"non_peered", len(class.NonPeeredSpokes))

	d := &Diagram{Mode: e.mode}

	zoneBottoms := make([]float64, len(zones))
	for i, zone := range zones {
		zoneBottoms[i] = e.placeZone(d, zone, ids)
	}
	e.placeNonPeered(d, class.NonPeeredSpokes, len(zones), zoneBottoms)

	b := NewEdgeBuilder(e.cfg, ids, e.log)
	d.Edges = append(d.Edges, b.PeeringMesh(topo.Nodes, topo.NodeByResourceID())...)
	d.Edges = append(d.Edges, b.CrossZone(zones, class.Hubs)...)
	return d, nil
}

// zoneWidth is the horizontal footprint of one zone: left column, hub
// column, and right column.
func (e *Engine) zoneWidth() float64 {
	return zoneBaseWidth - e.cfg.Layout.Canvas.Padding + e.cfg.Layout.VNet.Width
}

func (e *Engine) rowPadding() float64 {
	if e.mode == ModeMLD {
		return mldRowPadding
	}
	return e.cfg.Layout.VNet.SpacingY
}

func (e *Engine) groupWidth() float64 {
	if e.mode == ModeMLD {
		return e.cfg.Layout.Hub.Width
	}
	return e.cfg.Layout.VNet.Width
}

// boxHeight follows the fixed/variable rule: HLD boxes are uniform; MLD
// boxes grow with subnet count. Virtual hubs never show subnets, so they
// keep a fixed height in both modes.
func (e *Engine) boxHeight(n *topology.Node) float64 {
	if e.mode == ModeHLD {
		return hldBoxHeight
	}
	if n.IsVirtualHub() {
		return e.cfg.Layout.Hub.Height
	}
	return e.cfg.Layout.Subnet.PaddingY + float64(len(n.Subnets))*e.cfg.Layout.Subnet.SpacingY
}

func (e *Engine) groupHeight(n *topology.Node) float64 {
	return e.boxHeight(n) + e.cfg.Drawio.Group.ExtraHeight
}

// placeZone lays out one hub and its spoke columns and returns the y
// coordinate of the zone's lowest edge. Tree edges to the zone hub are
// emitted inline because they need the spoke coordinates.
func (e *Engine) placeZone(d *Diagram, zone topology.Zone, ids IDMap) float64 {
	padding := e.cfg.Layout.Canvas.Padding
	zoneOffset := float64(zone.Index) * (e.zoneWidth() + e.cfg.Layout.Zone.Spacing)

	baseLeftX := padding + zoneOffset
	baseHubX := padding + e.cfg.Layout.VNet.SpacingX + zoneOffset
	baseRightX := baseHubX + e.cfg.Layout.VNet.Width + columnGap
	hubY := padding

	e.placeNode(d, zone.Hub, RoleHub, baseHubX, hubY)
	bottom := hubY + e.groupHeight(zone.Hub)

	hubID, hubMapped := ids.lookup(zone.Hub)
	hubCenterX := baseHubX + e.groupWidth()/2

	left, right := splitColumns(zone.Spokes)

	placeColumn := func(spokes []*topology.Node, x float64, side string, waypointX float64) {
		y := hubY
		for i, spoke := range spokes {
			e.placeNode(d, spoke, RoleSpoke, x, y)

			if spokeID, ok := ids.lookup(spoke); ok && hubMapped {
				edge := Edge{
					ID:       fmt.Sprintf("edge_%s_%d_%d_%s", side, zone.Index, i, spoke.Name),
					SourceID: hubID,
					TargetID: spokeID,
					Style:    e.cfg.Edges.HubSpoke.Style,
				}
				// Spokes level with the hub connect straight; everything
				// lower routes through a waypoint beside the hub column.
				if y != hubY {
					edge.Points = []Point{{X: waypointX, Y: y + 25}}
				}
				d.Edges = append(d.Edges, edge)
			}

			y += e.groupHeight(spoke) + e.rowPadding()
			if columnBottom := y - e.rowPadding(); columnBottom > bottom {
				bottom = columnBottom
			}
		}
	}

	placeColumn(right, baseRightX, "right", hubCenterX+100)
	placeColumn(left, baseLeftX, "left", hubCenterX-100)

	return bottom
}

// placeNonPeered lays the non-peered nodes out in a wrapping grid below the
// tallest zone. Row advance is a fixed per-mode height.
func (e *Engine) placeNonPeered(d *Diagram, nodes []*topology.Node, zoneCount int, zoneBottoms []float64) {
	if len(nodes) == 0 {
		return
	}

	padding := e.cfg.Layout.Canvas.Padding

	startY := padding
	for _, b := range zoneBottoms {
		if b > startY {
			startY = b
		}
	}
	gap, rowHeight := hldNonPeeredGap, hldNonPeeredRowHeight
	if e.mode == ModeMLD {
		gap, rowHeight = mldNonPeeredGap, mldNonPeeredRowHeight
	}
	startY += float64(gap)

	totalWidth := float64(zoneCount)*e.zoneWidth() + float64(max(0, zoneCount-1))*e.cfg.Layout.Zone.Spacing
	cellWidth := e.cfg.Layout.VNet.Width + columnGap
	perRow := int(math.Floor(totalWidth / cellWidth))
	if perRow < 1 {
		perRow = 1
	}

	for i, n := range nodes {
		col := i % perRow
		row := i / perRow
		x := padding + float64(col)*cellWidth
		y := startY + float64(row*rowHeight)
		e.placeNode(d, n, RoleNonPeered, x, y)
	}
}

// placeNode emits the group, the main box, the icon row, and (in MLD) the
// subnet rows for one node at the given absolute position.
func (e *Engine) placeNode(d *Diagram, n *topology.Node, role NodeRole, x, y float64) {
	width := e.groupWidth()
	boxHeight := e.boxHeight(n)

	groupID := ElementID(n, ElemGroup, "")
	mainID := ElementID(n, ElemMain, "")

	d.Groups = append(d.Groups, Group{
		ID:     groupID,
		X:      x,
		Y:      y,
		Width:  width,
		Height: boxHeight + e.cfg.Drawio.Group.ExtraHeight,
		Node:   n,
	})
	d.Boxes = append(d.Boxes, Box{
		ID:       mainID,
		ParentID: groupID,
		Width:    width,
		Height:   boxHeight,
		Role:     role.String(),
		Label:    nodeLabel(n),
		Node:     n,
	})

	e.placeVNetIcons(d, n, mainID, width)

	if n.IsVirtualHub() {
		hub := e.cfg.Icons["virtual_hub"]
		d.Icons = append(d.Icons, Icon{
			ID:       ElementID(n, ElemIcon, "virtualhub"),
			ParentID: groupID,
			Kind:     "virtual_hub",
			X:        e.cfg.IconPositioning.VirtualHubIcon.OffsetX,
			Y:        boxHeight + e.cfg.IconPositioning.VirtualHubIcon.OffsetY,
			Width:    hub.Width,
			Height:   hub.Height,
		})
	}

	if e.mode == ModeMLD && !n.IsVirtualHub() {
		e.placeSubnets(d, n, mainID)
	}
}

// placeVNetIcons packs the type and feature icons into the top-right corner
// of the main box. The first spec lands rightmost, so priority order here
// is rightmost-to-leftmost.
func (e *Engine) placeVNetIcons(d *Diagram, n *topology.Node, mainID string, boxWidth float64) {
	type feature struct {
		kind, suffix string
		present      bool
	}
	features := []feature{
		{"vnet", "vnet", !n.IsVirtualHub()},
		{"expressroute", "expressroute", n.HasExpressRoute},
		{"firewall", "firewall", n.HasFirewall},
		{"vpn_gateway", "vpn", n.HasVPNGateway},
	}

	var specs []IconSpec
	var suffixes []string
	for _, f := range features {
		if !f.present {
			continue
		}
		cat := e.cfg.Icons[f.kind]
		specs = append(specs, IconSpec{Kind: f.kind, Width: cat.Width, Height: cat.Height})
		suffixes = append(suffixes, f.suffix)
	}

	pos := e.cfg.IconPositioning.VNetIcons
	for i, p := range PackIcons(boxWidth, pos.RightMargin, pos.IconGap, specs) {
		d.Icons = append(d.Icons, Icon{
			ID:       ElementID(n, ElemIcon, suffixes[i]),
			ParentID: mainID,
			Kind:     p.Kind,
			X:        p.X,
			Y:        pos.YOffset,
			Width:    p.Width,
			Height:   p.Height,
		})
	}
}

// placeSubnets emits one row box per subnet plus the subnet-level icon row
// (subnet, route table, NSG) aligned to the row's right edge.
func (e *Engine) placeSubnets(d *Diagram, n *topology.Node, mainID string) {
	sub := e.cfg.Layout.Subnet
	pos := e.cfg.IconPositioning.SubnetIcons

	for i, sn := range n.Subnets {
		rowY := sub.PaddingY + float64(i)*sub.SpacingY
		d.Boxes = append(d.Boxes, Box{
			ID:       ElementID(n, ElemSubnet, strconv.Itoa(i)),
			ParentID: mainID,
			X:        sub.PaddingX,
			Y:        rowY,
			Width:    sub.Width,
			Height:   sub.Height,
			Role:     BoxRoleSubnet,
			Label:    subnetLabel(sn),
		})

		type feature struct {
			kind, suffix string
			present      bool
			y            float64
		}
		features := []feature{
			{"subnet", fmt.Sprintf("subnet_%d", i), true, rowY + pos.SubnetIconYOffset},
			{"route_table", fmt.Sprintf("udr_%d", i), sn.HasUDR, rowY + pos.IconYOffset},
			{"nsg", fmt.Sprintf("nsg_%d", i), sn.HasNSG, rowY + pos.IconYOffset},
		}

		var specs []IconSpec
		var kept []feature
		for _, f := range features {
			if !f.present {
				continue
			}
			cat := e.cfg.Icons[f.kind]
			specs = append(specs, IconSpec{Kind: f.kind, Width: cat.Width, Height: cat.Height})
			kept = append(kept, f)
		}

		rightEdge := sub.PaddingX + sub.Width
		for j, p := range PackIcons(rightEdge, 0, pos.IconGap, specs) {
			d.Icons = append(d.Icons, Icon{
				ID:       ElementID(n, ElemIcon, kept[j].suffix),
				ParentID: mainID,
				Kind:     p.Kind,
				X:        p.X,
				Y:        kept[j].y,
				Width:    p.Width,
				Height:   p.Height,
			})
		}
	}
}

func nodeLabel(n *topology.Node) string {
	if n.AddressSpace == "" {
		return n.Name
	}
	return n.Name + "\n" + n.AddressSpace
}

func subnetLabel(s topology.Subnet) string {
	if s.Address == "" {
		return s.Name
	}
	return s.Name + " " + s.Address
}

// lookup resolves a node's main element ID via its resource id.
func (m IDMap) lookup(n *topology.Node) (string, bool) {
	if n.ResourceID == "" {
		return "", false
	}
	entry, ok := m[n.ResourceID]
	return entry.ElementID, ok
}
