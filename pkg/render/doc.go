// Package render groups the output formats for computed network diagrams.
//
// # Overview
//
// Two renderers consume the layout and topology data:
//
//   - draw.io documents (in [drawio] subpackage): the positioned,
//     editable diagram with icons, styles, and hyperlinks.
//   - Node-link diagrams (in [nodelink] subpackage): a quick Graphviz
//     view of the raw peering structure.
//
// # draw.io Output
//
// The [drawio] subpackage serializes a layout tree into an mxfile
// document. The translation is mechanical: all geometry decisions happen
// in the layout engine, and all styling comes from the configuration.
//
//	d, err := layout.NewEngine(cfg, layout.ModeMLD, logger).Build(topo)
//	err = drawio.WriteFile("network.drawio", d, cfg)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the peering graph with Graphviz,
// bypassing the layout engine entirely.
//
//	dot := nodelink.ToDOT(topo, cfg, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [drawio]: github.com/krhatland/cloudnetdraw-go/pkg/render/drawio
// [nodelink]: github.com/krhatland/cloudnetdraw-go/pkg/render/nodelink
package render
