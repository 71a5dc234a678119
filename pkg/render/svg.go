package render

import (
	"bytes"
	"fmt"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgConfig)

type svgConfig struct {
	style Style
}

// WithStyle selects the drawing style. Defaults to [Solid].
func WithStyle(s Style) SVGOption {
	return func(c *svgConfig) {
		if s != nil {
			c.style = s
		}
	}
}

// RenderSVG writes a projected scene as a standalone SVG document. The
// paint order is background, cones back-to-front, node markers, labels
// last so text is never occluded.
func RenderSVG(s Scene2D, opts ...SVGOption) []byte {
	cfg := svgConfig{style: Solid}
	for _, opt := range opts {
		opt(&cfg)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", cfg.style.Background())

	for _, c := range s.Cones {
		cfg.style.RenderCone(&buf, c)
	}
	for _, n := range s.Nodes {
		cfg.style.RenderNode(&buf, n)
	}
	for _, n := range s.Nodes {
		cfg.style.RenderLabel(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderPNG renders the scene to SVG and rasterizes it at the given
// scale. Requires rsvg-convert on PATH.
func RenderPNG(s Scene2D, scale float64, opts ...SVGOption) ([]byte, error) {
	return ToPNG(RenderSVG(s, opts...), scale)
}

// RenderPDF renders the scene to SVG and converts it to PDF. Requires
// rsvg-convert on PATH.
func RenderPDF(s Scene2D, opts ...SVGOption) ([]byte, error) {
	return ToPDF(RenderSVG(s, opts...))
}
