package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// Options configures peering-graph rendering.
type Options struct {
	// Detailed includes address space and subscription in node labels.
	// When false, only the network name is shown.
	Detailed bool
}

// ToDOT converts a topology to Graphviz DOT format for a quick node-link
// view of the peering relationships. The resulting DOT string can be
// rendered with [RenderSVG] or [RenderPNG].
//
// Hubs are filled with the hub style color; non-peered networks get dashed
// grey outlines. Peering edges are de-duplicated on the unordered name
// pair, so an asymmetric peering still draws a single line.
func ToDOT(topo *topology.Topology, cfg *config.Config, opts Options) string {
	class := topology.Classify(topo.Nodes, cfg.HubThreshold())
	hubs := make(map[string]bool, len(class.Hubs))
	for _, h := range class.Hubs {
		hubs[h.Name] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range topo.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, hubs[n.Name], cfg, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	byID := topo.NodeByResourceID()
	seen := make(map[string]bool)
	for _, n := range topo.Nodes {
		for _, pid := range n.PeeringResourceIDs {
			target, ok := byID[pid]
			if !ok || target == n {
				continue
			}
			a, b := n.Name, target.Name
			if a > b {
				a, b = b, a
			}
			if seen[a+"|"+b] {
				continue
			}
			seen[a+"|"+b] = true
			fmt.Fprintf(&buf, "  %q -- %q;\n", n.Name, target.Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *topology.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}

	parts := []string{n.Name}
	if n.AddressSpace != "" {
		parts = append(parts, n.AddressSpace)
	}
	if n.SubscriptionName != "" {
		parts = append(parts, n.SubscriptionName)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *topology.Node, isHub bool, cfg *config.Config, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case isHub:
		attrs = append(attrs,
			fmt.Sprintf("fillcolor=%q", cfg.Styles.Hub.FillColor),
			fmt.Sprintf("color=%q", cfg.Styles.Hub.BorderColor))
	case n.PeeringCount() == 0:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG, nil)
}

func render(ctx context.Context, dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render graph")
	}
	if post != nil {
		return post(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the image scales to
// its container instead of carrying absolute point sizes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
