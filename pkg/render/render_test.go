package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/conetree/pkg/geometry"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/scene"
)

func buildSample() *mindmap.Node {
	root := &mindmap.Node{Text: "root"}
	a := root.AddChild("a")
	a.AddChild("a1")
	a.AddChild("a2")
	root.AddChild("b")
	mindmap.ComputeSize(root)
	return root
}

func sampleScene(t *testing.T) (Scene2D, scene.Frame, *scene.ViewerState) {
	t.Helper()
	v, err := scene.NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	f := scene.ComputeFrame(v)
	vp := geometry.Projection{Width: 800, Height: 600}
	return Project(f, v.Params.Axis, v.Camera, vp), f, v
}

func coneByIndex(t *testing.T, s Scene2D, index int) Cone2D {
	t.Helper()
	for _, c := range s.Cones {
		if c.Index == index {
			return c
		}
	}
	t.Fatalf("cone %d not in scene", index)
	return Cone2D{}
}

func TestProjectCounts(t *testing.T) {
	s, f, _ := sampleScene(t)
	if len(s.Nodes) != len(f.Nodes) {
		t.Fatalf("got %d projected nodes, want %d", len(s.Nodes), len(f.Nodes))
	}
	if len(s.Cones) != len(f.Cones) {
		t.Fatalf("got %d projected cones, want %d", len(s.Cones), len(f.Cones))
	}
	for _, c := range s.Cones {
		if len(c.Rim) != RimSegments {
			t.Fatalf("cone %d has %d rim points, want %d", c.Index, len(c.Rim), RimSegments)
		}
	}
}

func TestProjectDepthOrder(t *testing.T) {
	s, _, _ := sampleScene(t)
	for i := 1; i < len(s.Cones); i++ {
		if s.Cones[i].Depth > s.Cones[i-1].Depth {
			t.Fatalf("cones not sorted far-to-near at %d: %f then %f",
				i, s.Cones[i-1].Depth, s.Cones[i].Depth)
		}
	}
	for i := 1; i < len(s.Nodes); i++ {
		if s.Nodes[i].Depth > s.Nodes[i-1].Depth {
			t.Fatalf("nodes not sorted far-to-near at %d", i)
		}
	}
}

func TestProjectInsideViewport(t *testing.T) {
	s, _, _ := sampleScene(t)
	for _, n := range s.Nodes {
		if n.Center.X < 0 || n.Center.X > s.Width || n.Center.Y < 0 || n.Center.Y > s.Height {
			t.Fatalf("node %q projected outside viewport: %+v", n.Text, n.Center)
		}
	}
}

func TestProjectLabelRightOfNode(t *testing.T) {
	s, _, _ := sampleScene(t)
	for _, n := range s.Nodes {
		if n.Label.X <= n.Center.X {
			t.Fatalf("label for %q not right of marker: label x %f, center x %f",
				n.Text, n.Label.X, n.Center.X)
		}
	}
}

func TestProjectSelectionCarriesThrough(t *testing.T) {
	v, err := scene.NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	v.Selection = scene.SelectCone(1)
	f := scene.ComputeFrame(v)
	s := Project(f, v.Params.Axis, v.Camera, geometry.Projection{Width: 800, Height: 600})

	selected := 0
	for _, c := range s.Cones {
		if c.Selected {
			selected++
			if c.Index != 1 {
				t.Fatalf("cone %d selected, want only cone 1", c.Index)
			}
		}
	}
	if selected != 1 {
		t.Fatalf("got %d selected cones, want 1", selected)
	}
}

func TestProjectSpinRotatesRim(t *testing.T) {
	v, err := scene.NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	vp := geometry.Projection{Width: 800, Height: 600}

	rest := Project(scene.ComputeFrame(v), v.Params.Axis, v.Camera, vp)

	v.Anim.Enabled = true
	v.Anim.AllConesSpinDeg = 90
	spun := Project(scene.ComputeFrame(v), v.Params.Axis, v.Camera, vp)

	// A quarter turn moves rim point 0 to where point RimSegments/4 was.
	r0, s0 := coneByIndex(t, rest, 0), coneByIndex(t, spun, 0)
	want := r0.Rim[RimSegments/4]
	if math.Abs(s0.Rim[0].X-want.X) > 1e-6 || math.Abs(s0.Rim[0].Y-want.Y) > 1e-6 {
		t.Fatalf("rim point 0 after 90 deg spin at %+v, want %+v", s0.Rim[0], want)
	}
}

func TestProjectSceneSpinOrbitsCamera(t *testing.T) {
	v, err := scene.NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	vp := geometry.Projection{Width: 800, Height: 600}

	f := scene.ComputeFrame(v)
	f.SceneSpinDeg = 30
	orbited := Project(f, v.Params.Axis, v.Camera, vp)

	cam := v.Camera
	cam.YawDeg += 30
	f.SceneSpinDeg = 0
	direct := Project(f, v.Params.Axis, cam, vp)

	if math.Abs(orbited.Nodes[0].Center.X-direct.Nodes[0].Center.X) > 1e-6 {
		t.Fatalf("scene spin and explicit yaw disagree: %f vs %f",
			orbited.Nodes[0].Center.X, direct.Nodes[0].Center.X)
	}
}

func TestRenderSVG(t *testing.T) {
	s, _, _ := sampleScene(t)
	svg := string(RenderSVG(s))

	// Default viewer state selects all cones, so the highlight palette
	// is used throughout.
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"`,
		`fill="rgb(0,0,0)"`,
		coneFillSelected,
		`>root</text>`,
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Fatalf("SVG missing %q:\n%s", want, svg)
		}
	}
}

func TestRenderSVGWireframe(t *testing.T) {
	s, _, _ := sampleScene(t)
	svg := string(RenderSVG(s, WithStyle(Wireframe)))
	if strings.Contains(svg, "<polygon") {
		t.Fatal("wireframe output contains filled polygons")
	}
	if !strings.Contains(svg, coneWireSelected) {
		t.Fatal("wireframe output missing wire stroke color")
	}
}

func TestRenderSVGSelectedPalette(t *testing.T) {
	v, err := scene.NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	v.Selection = scene.SelectCone(0)
	f := scene.ComputeFrame(v)
	s := Project(f, v.Params.Axis, v.Camera, geometry.Projection{Width: 800, Height: 600})

	svg := string(RenderSVG(s))
	if !strings.Contains(svg, coneFillSelected) {
		t.Fatal("selected cone not drawn with highlight fill")
	}
	if !strings.Contains(svg, coneFill) {
		t.Fatal("unselected cones lost their normal fill")
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	root := &mindmap.Node{Text: "a < b & c"}
	root.AddChild("leaf")
	mindmap.ComputeSize(root)
	v, err := scene.NewViewerState(root, layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	s := Project(scene.ComputeFrame(v), v.Params.Axis, v.Camera, geometry.Projection{Width: 800, Height: 600})
	svg := string(RenderSVG(s))
	if !strings.Contains(svg, "a &lt; b &amp; c") {
		t.Fatalf("label not escaped:\n%s", svg)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	v, err := scene.NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState: %v", err)
	}
	f := scene.ComputeFrame(v)

	data, err := RenderJSON(f, v.Params.Axis, v.Params)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	l, err := treeio.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(l.Nodes) != len(f.Nodes) || len(l.Cones) != len(f.Cones) {
		t.Fatalf("round trip lost placements: %d/%d nodes, %d/%d cones",
			len(l.Nodes), len(f.Nodes), len(l.Cones), len(f.Cones))
	}
}

func TestStyleByName(t *testing.T) {
	for name, want := range map[string]string{
		"":          "solid",
		"solid":     "solid",
		"wireframe": "wireframe",
		"wire":      "wireframe",
	} {
		s, err := StyleByName(name)
		if err != nil {
			t.Fatalf("StyleByName(%q): %v", name, err)
		}
		if s.Name() != want {
			t.Fatalf("StyleByName(%q) = %s, want %s", name, s.Name(), want)
		}
	}
	if _, err := StyleByName("neon"); err == nil {
		t.Fatal("expected error for unknown style")
	}
}

func TestWriteConeWireClosesRim(t *testing.T) {
	var buf bytes.Buffer
	c := Cone2D{
		Apex: Point2{50, 0},
		Rim:  []Point2{{0, 10}, {10, 10}, {10, 20}, {0, 20}},
	}
	writeConeWire(&buf, c, coneWire)
	out := buf.String()
	if !strings.Contains(out, "0.00,10.00 10.00,10.00 10.00,20.00 0.00,20.00 0.00,10.00") {
		t.Fatalf("rim polyline not closed:\n%s", out)
	}
}
