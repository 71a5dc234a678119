// Package term draws projected scenes onto a terminal cell grid for the
// interactive viewer. It is the character-cell counterpart of the SVG
// sink: same back-to-front paint order, same palette mapped onto ANSI
// colors, labels drawn last.
package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/conetree/pkg/fonts"
	"github.com/matzehuels/conetree/pkg/render"
)

// Color identifies one entry of the canvas palette.
type Color uint8

const (
	ColorNone     Color = iota
	ColorWire           // unselected cone line work
	ColorSelected       // selected cone line work
	ColorNode           // node markers
	ColorLabel          // label text
)

// styles maps the palette onto ANSI colors standing in for the SVG
// palette.
var styles = map[Color]lipgloss.Style{
	ColorNone:     lipgloss.NewStyle(),
	ColorWire:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // light blue
	ColorSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("48")),  // green
	ColorNode:     lipgloss.NewStyle().Foreground(lipgloss.Color("27")),  // blue
	ColorLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")), // white
}

type cell struct {
	r     rune
	color Color
}

// Canvas is a cell grid. Cells painted later overwrite earlier ones, so
// drawing back-to-front gives correct occlusion.
type Canvas struct {
	w, h  int
	cells []cell
}

// NewCanvas returns a blank canvas of the given size in cells.
func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Canvas{w: w, h: h, cells: make([]cell, w*h)}
}

// Set paints one cell. Out-of-bounds coordinates are ignored.
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, color: color}
}

// Line draws a Bresenham segment between two cells.
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune, color Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0, r, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Text writes a string left-to-right starting at (x, y).
func (c *Canvas) Text(x, y int, s string, color Color) {
	for i, r := range s {
		c.Set(x+i, y, r, color)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// String flattens the canvas into newline-joined styled rows. Runs of
// cells sharing a color are rendered together to keep escape sequences
// down.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := range c.h {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		runColor := ColorNone
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(styles[runColor].Render(run.String()))
				run.Reset()
			}
		}
		for x := range c.w {
			cl := c.cells[y*c.w+x]
			if cl.r == 0 {
				cl.r = ' '
			}
			if run.Len() > 0 && cl.color != runColor {
				flush()
			}
			runColor = cl.color
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// Draw paints a projected scene onto a fresh canvas and returns the
// styled text. The scene should have been projected with a viewport of
// width cols and height rows*2: terminal cells are roughly twice as tall
// as wide, so halving y restores the aspect ratio.
func Draw(s render.Scene2D, cols, rows int) string {
	c := NewCanvas(cols, rows)

	for _, cone := range s.Cones {
		color := ColorWire
		if cone.Selected {
			color = ColorSelected
		}
		drawCone(c, cone, color)
	}
	for _, n := range s.Nodes {
		c.Set(cellX(n.Center.X), cellY(n.Center.Y), '●', ColorNode)
	}
	for _, n := range s.Nodes {
		if n.Text == "" {
			continue
		}
		label := fonts.Truncate(n.Text, 1, float64(cols)/8)
		c.Text(cellX(n.Center.X)+2, cellY(n.Center.Y), label, ColorLabel)
	}
	return c.String()
}

func drawCone(c *Canvas, cone render.Cone2D, color Color) {
	rim := cone.Rim
	for i := range rim {
		p, q := rim[i], rim[(i+1)%len(rim)]
		c.Line(cellX(p.X), cellY(p.Y), cellX(q.X), cellY(q.Y), '·', color)
	}
	// Spokes every eighth rim point keep the cone readable at cell
	// resolution.
	for i := 0; i < len(rim); i += 8 {
		c.Line(cellX(rim[i].X), cellY(rim[i].Y), cellX(cone.Apex.X), cellY(cone.Apex.Y), '·', color)
	}
	c.Set(cellX(cone.Apex.X), cellY(cone.Apex.Y), '▲', color)
}

func cellX(x float64) int { return int(x + 0.5) }

// cellY halves the projected y to compensate for cell aspect.
func cellY(y float64) int { return int(y/2 + 0.5) }
