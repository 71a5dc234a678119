package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/conetree/pkg/fonts"
)

// Style renders individual scene primitives into an SVG body. Sinks call
// the methods in paint order; implementations write complete SVG elements
// and nothing else.
type Style interface {
	// Name identifies the style in CLI flags and cache keys.
	Name() string
	// Background returns the canvas fill color.
	Background() string
	// RenderCone writes one cone (surface and/or line work).
	RenderCone(buf *bytes.Buffer, c Cone2D)
	// RenderNode writes one node marker.
	RenderNode(buf *bytes.Buffer, n Node2D)
	// RenderLabel writes one node label.
	RenderLabel(buf *bytes.Buffer, n Node2D)
}

// Viewer palette. Two color pairs, normal and selected, shared by both
// styles.
const (
	coneFill         = "rgba(38,140,255,0.40)"
	coneFillSelected = "rgba(51,255,89,0.70)"
	coneWire         = "rgba(102,204,255,0.70)"
	coneWireSelected = "rgba(77,255,115,0.95)"
	nodeFill         = "rgb(51,102,255)"
	labelFill        = "rgb(255,255,255)"
	canvasFill       = "rgb(0,0,0)"
)

// SolidStyle draws translucent cone surfaces with a wireframe pass on
// top, matching the interactive viewer.
type SolidStyle struct{}

// Solid is the default style.
var Solid = SolidStyle{}

func (SolidStyle) Name() string       { return "solid" }
func (SolidStyle) Background() string { return canvasFill }

func (SolidStyle) RenderCone(buf *bytes.Buffer, c Cone2D) {
	fill := coneFill
	wire := coneWire
	if c.Selected {
		fill = coneFillSelected
		wire = coneWireSelected
	}
	writeConeSurface(buf, c, fill)
	writeConeWire(buf, c, wire)
}

func (SolidStyle) RenderNode(buf *bytes.Buffer, n Node2D) {
	fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		n.Center.X, n.Center.Y, n.Radius, nodeFill)
}

func (SolidStyle) RenderLabel(buf *bytes.Buffer, n Node2D) {
	writeLabel(buf, n)
}

// WireframeStyle keeps the line work and drops the surfaces.
type WireframeStyle struct{}

// Wireframe renders cones as outlines only.
var Wireframe = WireframeStyle{}

func (WireframeStyle) Name() string       { return "wireframe" }
func (WireframeStyle) Background() string { return canvasFill }

func (WireframeStyle) RenderCone(buf *bytes.Buffer, c Cone2D) {
	wire := coneWire
	if c.Selected {
		wire = coneWireSelected
	}
	writeConeWire(buf, c, wire)
}

func (WireframeStyle) RenderNode(buf *bytes.Buffer, n Node2D) {
	fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		n.Center.X, n.Center.Y, n.Radius, nodeFill)
}

func (WireframeStyle) RenderLabel(buf *bytes.Buffer, n Node2D) {
	writeLabel(buf, n)
}

func writeConeSurface(buf *bytes.Buffer, c Cone2D, fill string) {
	buf.WriteString(`<polygon points="`)
	for i, p := range c.Rim {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(buf, `" fill="%s"/>`+"\n", fill)
}

// writeConeWire draws the rim polyline plus a spoke from every fourth rim
// point to the apex. Fewer spokes than rim points keeps the silhouette
// readable at small sizes.
func writeConeWire(buf *bytes.Buffer, c Cone2D, stroke string) {
	buf.WriteString(`<polyline points="`)
	for i, p := range c.Rim {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", p.X, p.Y)
	}
	if len(c.Rim) > 0 {
		fmt.Fprintf(buf, " %.2f,%.2f", c.Rim[0].X, c.Rim[0].Y)
	}
	fmt.Fprintf(buf, `" fill="none" stroke="%s" stroke-width="1"/>`+"\n", stroke)

	for i := 0; i < len(c.Rim); i += 4 {
		fmt.Fprintf(buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			c.Rim[i].X, c.Rim[i].Y, c.Apex.X, c.Apex.Y, stroke)
	}
}

func writeLabel(buf *bytes.Buffer, n Node2D) {
	if n.Text == "" {
		return
	}
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
		n.Label.X, n.Label.Y, fonts.LabelFontFamily, fonts.LabelFontSize, labelFill, escapeXML(n.Text))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// StyleByName resolves a style flag value. Empty input selects Solid.
func StyleByName(name string) (Style, error) {
	switch name {
	case "", "solid":
		return Solid, nil
	case "wireframe", "wire":
		return Wireframe, nil
	default:
		return nil, fmt.Errorf("unknown style %q (want solid or wireframe)", name)
	}
}
