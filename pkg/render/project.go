package render

import (
	"math"
	"slices"

	"github.com/matzehuels/conetree/pkg/fonts"
	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/scene"
)

// RimSegments is the number of points on a projected cone base circle.
const RimSegments = 32

// NodeRadius is the world-space radius of the sphere drawn at every node.
const NodeRadius = 0.2

// labelOffset is the world-space distance from a node center to its label
// anchor, along the camera-space x axis so labels always sit to the right
// of their node on screen.
const labelOffset = 0.35

// Point2 is a viewport coordinate in output units.
type Point2 struct {
	X, Y float64
}

// Cone2D is one cone flattened into the viewport: the projected apex plus
// the projected base rim. Rim points start at the cone's current spin
// angle, so a spinning cone's wireframe visibly turns between frames.
type Cone2D struct {
	Index    int      // pre-order cone index
	Apex     Point2   // projected apex
	Rim      []Point2 // projected base circle, RimSegments points
	Depth    float64  // eye distance of the cone's midpoint
	Selected bool
	SpinDeg  float64
}

// Node2D is one node flattened into the viewport: a marker circle plus a
// label anchor.
type Node2D struct {
	Center Point2
	Radius float64 // projected marker radius
	Label  Point2  // label anchor, right of the marker
	Text   string
	Depth  float64
}

// Scene2D is one frame flattened into viewport coordinates. Cones and
// Nodes are sorted far-to-near, so a sink that draws them in slice order
// paints back-to-front.
type Scene2D struct {
	Width, Height float64
	Cones         []Cone2D
	Nodes         []Node2D
}

// Project flattens a computed frame as seen by cam. The scene orbit angle
// is added to the camera before projecting: yaw for vertical layouts,
// pitch for horizontal ones, matching the interactive viewer's orbit.
// Cones or nodes entirely behind the near plane are dropped.
func Project(f scene.Frame, axis layout.Axis, cam geometry.Camera, vp geometry.Projection) Scene2D {
	if axis == layout.Vertical {
		cam.YawDeg += f.SceneSpinDeg
	} else {
		cam.PitchDeg += f.SceneSpinDeg
	}

	s := Scene2D{Width: vp.Width, Height: vp.Height}

	for _, cp := range f.Cones {
		c2, ok := projectCone(cp, axis, cam, vp)
		if ok {
			s.Cones = append(s.Cones, c2)
		}
	}
	for _, np := range f.Nodes {
		x, y, depth, ok := cam.Project(np.World, vp)
		if !ok {
			continue
		}
		lx, ly, _, ok := cam.Project(np.World.Add(labelWorldOffset(cam)), vp)
		if !ok {
			lx, ly = x, y
		}
		s.Nodes = append(s.Nodes, Node2D{
			Center: Point2{x, y},
			Radius: cam.ProjectRadius(NodeRadius, depth, vp),
			Label:  Point2{lx, ly},
			Text:   np.Node.Text,
			Depth:  depth,
		})
	}

	slices.SortFunc(s.Cones, func(a, b Cone2D) int { return cmpDepth(a.Depth, b.Depth) })
	slices.SortFunc(s.Nodes, func(a, b Node2D) int { return cmpDepth(a.Depth, b.Depth) })
	return s
}

func cmpDepth(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// labelWorldOffset undoes the camera rotation so the offset ends up along
// the screen's x axis, billboard style.
func labelWorldOffset(cam geometry.Camera) geometry.Vec3 {
	v := geometry.RotateX(geometry.Vec3{X: labelOffset}, -cam.PitchDeg)
	return geometry.RotateY(v, cam.YawDeg)
}

func projectCone(cp scene.ConePlacement, axis layout.Axis, cam geometry.Camera, vp geometry.Projection) (Cone2D, bool) {
	ax, ay, apexDepth, ok := cam.Project(cp.Apex, vp)
	if !ok {
		return Cone2D{}, false
	}

	c2 := Cone2D{
		Index:    cp.Index,
		Apex:     Point2{ax, ay},
		Rim:      make([]Point2, 0, RimSegments),
		Selected: cp.Selected,
		SpinDeg:  cp.SpinDeg,
	}

	depthSum := apexDepth
	for k := range RimSegments {
		angle := geometry.Radians(cp.SpinDeg) + 2*math.Pi*float64(k)/RimSegments
		p := rimPoint(cp, axis, angle)
		x, y, depth, ok := cam.Project(p, vp)
		if !ok {
			return Cone2D{}, false
		}
		c2.Rim = append(c2.Rim, Point2{x, y})
		depthSum += depth
	}
	c2.Depth = depthSum / (RimSegments + 1)
	return c2, true
}

// rimPoint returns a world-space point on the cone's base circle. The two
// off-axis coordinates follow the same sin/cos convention as the layout
// engine, so rim point 0 lines up with a child placed at angle 0.
func rimPoint(cp scene.ConePlacement, axis layout.Axis, angle float64) geometry.Vec3 {
	p := cp.BaseCenter
	if axis == layout.Vertical {
		p.X += cp.Radius * math.Sin(angle)
		p.Z += cp.Radius * math.Cos(angle)
	} else {
		p.Y += cp.Radius * math.Sin(angle)
		p.Z += cp.Radius * math.Cos(angle)
	}
	return p
}

// LabelFontSize returns the on-screen label size for a scene. Labels are
// billboarded at a fixed size, like the viewer's bitmap font.
func LabelFontSize() float64 { return fonts.LabelFontSize }
