// Package pkg provides the core libraries for CloudNetDraw topology rendering.
//
// # Overview
//
// CloudNetDraw turns Azure network inventory into editable draw.io diagrams
// of the hub-and-spoke peering structure. The pkg directory is organized
// into three main areas:
//
//  1. [azure] - ARM inventory collection (subscriptions, VNets, virtual hubs)
//  2. [topology] + [layout] - Domain logic (classification, zones, placement)
//  3. [render] - Output formats (draw.io XML, Graphviz node-link graphs)
//
// # Architecture
//
// The typical data flow through CloudNetDraw:
//
//	Azure Resource Manager
//	         ↓
//	    [azure] package (query + cache the inventory)
//	         ↓
//	    [topology] package (classify hubs, assign zones)
//	         ↓
//	    [layout] package (place groups, boxes, icons, edges)
//	         ↓
//	    [render/drawio] or [render/nodelink] output
//
// # Quick Start
//
// Render a topology file as a high-level diagram:
//
//	import (
//	    "github.com/krhatland/cloudnetdraw-go/pkg/config"
//	    "github.com/krhatland/cloudnetdraw-go/pkg/layout"
//	    "github.com/krhatland/cloudnetdraw-go/pkg/render/drawio"
//	    "github.com/krhatland/cloudnetdraw-go/pkg/topology"
//	)
//
//	// 1. Load the topology and configuration
//	cfg, _ := config.Load("")
//	topo, _ := topology.ReadFile("network_topology.json")
//
//	// 2. Compute the layout
//	d, _ := layout.NewEngine(cfg, layout.ModeHLD, nil).Build(topo)
//
//	// 3. Write the draw.io document
//	_ = drawio.WriteFile("network_topology_hld.drawio", d, cfg)
//
// # Main Packages
//
// [azure] - ARM REST client with credential resolution (service principal or
// az CLI session), response caching, pagination, and topology assembly.
//
// [topology] - The persisted inventory model: nodes, subnets, peering links,
// hub classification, and zone assignment.
//
// [layout] - Deterministic placement: zones become columns of VNet groups,
// spokes split left/right of their hub, subnet rows and icon strips are
// positioned inside each box, and peering edges are routed between them.
//
// [render/drawio] - Serializes a computed layout into mxGraph XML that
// draw.io opens directly.
//
// [render/nodelink] - Quick Graphviz peering graphs (SVG, PNG, DOT) for when
// the full diagram is more than needed.
//
// # Infrastructure
//
// [cache] - Cache backends for Azure responses: file (CLI), Redis (shared),
// and null (testing / --no-cache).
//
// [config] - Layout dimensions, styles, and the hub classification threshold,
// loaded from YAML or TOML with embedded defaults.
//
// [errors] - Structured errors with machine-readable codes shared by the CLI
// and HTTP surfaces.
//
// [httputil] - Retry with backoff for rate-limited and transient ARM errors.
//
// [buildinfo] - Build-time version information injected via ldflags.
//
// [azure]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/azure
// [topology]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/topology
// [layout]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/layout
// [render]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/render
// [render/drawio]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/render/drawio
// [render/nodelink]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/cache
// [config]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/config
// [errors]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/krhatland/cloudnetdraw-go/pkg/buildinfo
package pkg
