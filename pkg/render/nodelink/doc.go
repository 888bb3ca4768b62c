// Package nodelink renders the peering topology as a traditional node-link
// diagram.
//
// # Overview
//
// This package produces undirected graph visualizations using Graphviz,
// where networks appear as boxes connected by peering lines. It's a quick
// structural view complementing the positioned draw.io output: useful for
// eyeballing hub connectivity without opening an editor.
//
// # Usage
//
// Convert a topology to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(topo, cfg, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the address space and
//     subscription name.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Hubs take their fill color from the configured hub style; non-peered
// networks render with dashed grey outlines. Peering edges are
// de-duplicated, so asymmetric peerings draw a single line.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no external Graphviz installation is required.
package nodelink
