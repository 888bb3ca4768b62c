package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// Synthetic edge ID sequences start in disjoint ranges so the two families
// can never collide with each other or with tree edge IDs.
const (
	peeringSeqStart   = 1000
	crossZoneSeqStart = 3000
)

// EdgeBuilder produces the peering mesh and cross-zone edge families. The
// ID sequences live on the builder, so state never leaks across runs: make
// a fresh builder per diagram.
type EdgeBuilder struct {
	cfg *config.Config
	ids IDMap
	log *log.Logger

	peeringSeq   int
	crossZoneSeq int
}

// NewEdgeBuilder returns a builder with fresh ID sequences. A nil logger
// silences diagnostics.
func NewEdgeBuilder(cfg *config.Config, ids IDMap, logger *log.Logger) *EdgeBuilder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &EdgeBuilder{
		cfg:          cfg,
		ids:          ids,
		log:          logger,
		peeringSeq:   peeringSeqStart,
		crossZoneSeq: crossZoneSeqStart,
	}
}

// PeeringMesh builds one edge per declared peering, de-duplicated on the
// unordered pair of node names. An asymmetric peering (only one side
// declares the other) still yields exactly one edge, found from whichever
// side iterates first; the asymmetry is logged, never an error.
//
// The mesh is built independently of the hub-spoke tree: a hub↔spoke pair
// gets both a tree edge and a mesh edge, which is intentional because the
// two carry different styles. Unresolvable references and self-references
// are dropped silently.
func (b *EdgeBuilder) PeeringMesh(nodes []*topology.Node, byID map[string]*topology.Node) []Edge {
	var edges []Edge
	seen := make(map[string]bool)

	for _, n := range nodes {
		srcID, ok := b.ids.lookup(n)
		if !ok {
			continue
		}
		for _, pid := range n.PeeringResourceIDs {
			if pid == n.ResourceID {
				continue
			}
			target, ok := byID[pid]
			if !ok || target == n {
				continue
			}
			dstID, ok := b.ids.lookup(target)
			if !ok {
				continue
			}

			key := pairKey(n.Name, target.Name)
			if seen[key] {
				continue
			}
			seen[key] = true

			if !target.PeersWith(n.ResourceID) {
				b.log.Debug("asymmetric peering, drawing single edge",
					"source", n.Name, "target", target.Name)
			}

			edges = append(edges, Edge{
				ID:       fmt.Sprintf("peering_edge_%d", b.peeringSeq),
				SourceID: srcID,
				TargetID: dstID,
				Style:    b.cfg.Edges.SpokeSpoke.Style,
			})
			b.peeringSeq++
		}
	}
	return edges
}

// CrossZone builds one extra edge per (spoke, foreign hub) pair for spokes
// that peer with hubs outside their assigned zone. These surface
// multi-homing that the tree structure cannot express.
func (b *EdgeBuilder) CrossZone(zones []topology.Zone, hubs []*topology.Node) []Edge {
	var edges []Edge

	for _, zone := range zones {
		for _, spoke := range zone.Spokes {
			spokeID, ok := b.ids.lookup(spoke)
			if !ok {
				continue
			}
			for _, hubIdx := range topology.ConnectedHubs(spoke, hubs) {
				if hubIdx == zone.Index {
					continue
				}
				hubID, ok := b.ids.lookup(hubs[hubIdx])
				if !ok {
					continue
				}

				b.log.Debug("cross-zone peering",
					"spoke", spoke.Name, "hub", hubs[hubIdx].Name)

				edges = append(edges, Edge{
					ID:       fmt.Sprintf("cross_zone_edge_%d", b.crossZoneSeq),
					SourceID: spokeID,
					TargetID: hubID,
					Style:    b.cfg.Edges.CrossZone.Style,
				})
				b.crossZoneSeq++
			}
		}
	}
	return edges
}

// pairKey returns the order-independent dedup key for two node names.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
