// Package outline renders a mind map as a flat 2D tree diagram through
// Graphviz. It is the quick structural view next to the 3D cone scene:
// no camera, no spin, just parent-child edges laid out by dot.
package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/render"
)

// Options configures outline diagram rendering.
type Options struct {
	// Detailed includes subtree size and cone index in node labels.
	// When false, only the node text is shown.
	Detailed bool
	// Horizontal lays the tree out left-to-right instead of top-down,
	// mirroring the horizontal layout axis of the 3D view.
	Horizontal bool
}

// ToDOT converts a mind map to Graphviz DOT format. The resulting DOT
// string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Internal nodes (the ones that own a cone in the 3D view) are filled
// light blue; leaves stay white.
func ToDOT(root *mindmap.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if root != nil {
		ids := nodeIDs(root)
		coneIdx := coneIndexes(root)
		mindmap.Walk(root, func(n *mindmap.Node, _ int) bool {
			label := fmtLabel(n, coneIdx, opts.Detailed)
			attrs := fmtAttrs(n, label)
			fmt.Fprintf(&buf, "  %q [%s];\n", ids[n], strings.Join(attrs, ", "))
			return true
		})

		buf.WriteString("\n")
		mindmap.Walk(root, func(n *mindmap.Node, _ int) bool {
			for _, child := range n.Children {
				fmt.Fprintf(&buf, "  %q -> %q;\n", ids[n], ids[child])
			}
			return true
		})
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeIDs assigns each node a unique DOT identifier. Node text alone
// cannot serve: sibling subtrees may repeat labels.
func nodeIDs(root *mindmap.Node) map[*mindmap.Node]string {
	ids := make(map[*mindmap.Node]string)
	i := 0
	mindmap.Walk(root, func(n *mindmap.Node, _ int) bool {
		ids[n] = fmt.Sprintf("n%d", i)
		i++
		return true
	})
	return ids
}

func coneIndexes(root *mindmap.Node) map[*mindmap.Node]int {
	idx := make(map[*mindmap.Node]int)
	mindmap.WalkCones(root, func(n *mindmap.Node, index int) {
		idx[n] = index
	})
	return idx
}

func fmtLabel(n *mindmap.Node, coneIdx map[*mindmap.Node]int, detailed bool) string {
	if !detailed {
		return n.Text
	}
	parts := []string{fmt.Sprintf("size: %d", n.Size)}
	if i, ok := coneIdx[n]; ok {
		parts = append(parts, fmt.Sprintf("cone: %d", i))
	}
	return n.Text + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *mindmap.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !n.IsLeaf() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
