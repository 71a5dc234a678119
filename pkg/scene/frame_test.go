package scene

import (
	"testing"

	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

func vecNear(a, b geometry.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func framePositions(f Frame) map[*mindmap.Node]geometry.Vec3 {
	m := make(map[*mindmap.Node]geometry.Vec3, len(f.Nodes))
	for _, np := range f.Nodes {
		m[np.Node] = np.World
	}
	return m
}

func TestComputeFrameRestPose(t *testing.T) {
	v := newSampleViewer(t)
	f := ComputeFrame(v)

	if len(f.Nodes) != 5 {
		t.Fatalf("placed %d nodes, want 5", len(f.Nodes))
	}
	if len(f.Cones) != 2 {
		t.Fatalf("placed %d cones, want 2", len(f.Cones))
	}

	// Without animation every world position equals the rest position.
	for _, np := range f.Nodes {
		if !vecNear(np.World, np.Node.Pos) {
			t.Errorf("%s world = %v, want rest %v", np.Node.Text, np.World, np.Node.Pos)
		}
	}
	for _, cp := range f.Cones {
		if cp.SpinDeg != 0 {
			t.Errorf("cone %d spin = %v, want 0", cp.Index, cp.SpinDeg)
		}
	}
}

func TestComputeFrameRestPoseWithStaleAngles(t *testing.T) {
	v := newSampleViewer(t)

	// Angles persist from an earlier animation run, but the clock is
	// stopped: the frame still shows the rest pose.
	v.Anim.AllConesSpinDeg = 123
	v.Anim.SingleConeSpinDeg = 45
	f := ComputeFrame(v)

	for _, np := range f.Nodes {
		if !vecNear(np.World, np.Node.Pos) {
			t.Errorf("%s world = %v, want rest %v", np.Node.Text, np.World, np.Node.Pos)
		}
	}
}

func TestComputeFrameConeGeometry(t *testing.T) {
	v := newSampleViewer(t)
	f := ComputeFrame(v)

	root := f.Cones[0]
	if root.Index != 0 || root.Node.Text != "R" {
		t.Fatalf("first cone = %d/%s, want 0/R", root.Index, root.Node.Text)
	}
	if !vecNear(root.Apex, geometry.Vec3{Y: 14}) {
		t.Errorf("root apex = %v, want {0 14 0}", root.Apex)
	}
	if !vecNear(root.BaseCenter, geometry.Vec3{Y: 9}) {
		t.Errorf("root base = %v, want {0 9 0}", root.BaseCenter)
	}
	if !near(root.Radius, 2) {
		t.Errorf("root radius = %v, want 2", root.Radius)
	}
	if !near(root.Height, layout.DefaultLevelHeight) {
		t.Errorf("root height = %v, want %v", root.Height, layout.DefaultLevelHeight)
	}

	a := f.Cones[1]
	if a.Index != 1 || a.Node.Text != "A" {
		t.Fatalf("second cone = %d/%s, want 1/A", a.Index, a.Node.Text)
	}
}

func TestComputeFrameConeIndexOrder(t *testing.T) {
	// Deeper tree: R(A(B(C, c2), b2), D(d2)). Internal nodes in
	// pre-order: R=0, A=1, B=2, D=3.
	root := &mindmap.Node{Text: "R"}
	a := root.AddChild("A")
	b := a.AddChild("B")
	b.AddChild("C")
	b.AddChild("c2")
	a.AddChild("b2")
	d := root.AddChild("D")
	d.AddChild("d2")

	v, err := NewViewerState(root, layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState error: %v", err)
	}
	f := ComputeFrame(v)

	want := []string{"R", "A", "B", "D"}
	if len(f.Cones) != len(want) {
		t.Fatalf("cone count = %d, want %d", len(f.Cones), len(want))
	}
	for i, cp := range f.Cones {
		if cp.Index != i {
			t.Errorf("cone %d has index %d", i, cp.Index)
		}
		if cp.Node.Text != want[i] {
			t.Errorf("cone %d = %s, want %s", i, cp.Node.Text, want[i])
		}
	}
}

func TestComputeFrameSelectionFlags(t *testing.T) {
	v := newSampleViewer(t)

	// All selected: every cone flagged.
	f := ComputeFrame(v)
	for _, cp := range f.Cones {
		if !cp.Selected {
			t.Errorf("cone %d not selected under all-cones selection", cp.Index)
		}
	}

	// Single selection: only that cone flagged.
	v.Selection = SelectCone(1)
	f = ComputeFrame(v)
	for _, cp := range f.Cones {
		if want := cp.Index == 1; cp.Selected != want {
			t.Errorf("cone %d selected = %v, want %v", cp.Index, cp.Selected, want)
		}
	}
}

func TestComputeFrameSingleConeSpinsRigidly(t *testing.T) {
	v := newSampleViewer(t)
	v.Selection = SelectCone(1) // cone under A
	v.Anim.Enabled = true
	v.Anim.SingleConeSpinDeg = 90

	rest := framePositions(ComputeFrame(&ViewerState{
		Tree: v.Tree, Params: v.Params, Anim: NewAnimation(),
	}))
	f := ComputeFrame(v)
	got := framePositions(f)

	a := v.Tree.Children[0]
	a1, a2 := a.Children[0], a.Children[1]
	b := v.Tree.Children[1]

	// Nodes outside A's subtree stay at rest.
	for _, n := range []*mindmap.Node{v.Tree, a, b} {
		if !vecNear(got[n], rest[n]) {
			t.Errorf("%s moved: %v vs rest %v", n.Text, got[n], rest[n])
		}
	}

	// A's children turn a quarter around A's vertical axis. A1 rests at
	// offset (0,-5,-2) from A; after 90 degrees that offset becomes
	// (2,-5,0), placing A1 at (4,4,0).
	if !vecNear(got[a1], geometry.Vec3{X: 4, Y: 4, Z: 0}) {
		t.Errorf("A1 = %v, want {4 4 0}", got[a1])
	}
	if !vecNear(got[a2], geometry.Vec3{X: 0, Y: 4, Z: 0}) {
		t.Errorf("A2 = %v, want {0 4 0}", got[a2])
	}

	// Rigid rotation preserves distances to the spinning apex.
	for _, n := range []*mindmap.Node{a1, a2} {
		if !near(got[n].Dist(got[a]), rest[n].Dist(rest[a])) {
			t.Errorf("%s changed distance to A", n.Text)
		}
	}

	// Only A's cone reports spin.
	for _, cp := range f.Cones {
		wantSpin := 0.0
		if cp.Index == 1 {
			wantSpin = 90
		}
		if !near(cp.SpinDeg, wantSpin) {
			t.Errorf("cone %d spin = %v, want %v", cp.Index, cp.SpinDeg, wantSpin)
		}
	}
}

func TestComputeFrameAllConesShareSpin(t *testing.T) {
	v := newSampleViewer(t)
	v.Anim.Enabled = true
	v.Anim.AllConesSpinDeg = 180

	f := ComputeFrame(v)
	got := framePositions(f)

	// Every cone reports the shared angle.
	for _, cp := range f.Cones {
		if !near(cp.SpinDeg, 180) {
			t.Errorf("cone %d spin = %v, want 180", cp.Index, cp.SpinDeg)
		}
	}

	// A half turn under the root mirrors its children across the axis:
	// A rests at (2,9,0) and lands at (-2,9,0), swapping with B's rest.
	a, b := v.Tree.Children[0], v.Tree.Children[1]
	if !vecNear(got[a], geometry.Vec3{X: -2, Y: 9}) {
		t.Errorf("A = %v, want {-2 9 0}", got[a])
	}
	if !vecNear(got[b], geometry.Vec3{X: 2, Y: 9}) {
		t.Errorf("B = %v, want {2 9 0}", got[b])
	}

	// A's own cone also turned: its children rotate around A's new
	// position by the same shared angle, compounding with the root's.
	a1 := a.Children[0]
	if !vecNear(got[a1], geometry.Vec3{X: -2, Y: 4, Z: 2}) {
		t.Errorf("A1 = %v, want {-2 4 2}", got[a1])
	}
}

func TestComputeFrameHorizontalSpinAxis(t *testing.T) {
	v := newSampleViewer(t)
	v.SetAxis(layout.Horizontal)
	v.Selection = SelectCone(0)
	v.Anim.Enabled = true
	v.Anim.SingleConeSpinDeg = 90

	got := framePositions(ComputeFrame(v))

	// Horizontal cones spin around x: A rests at (5,2,0) relative to the
	// root at the origin; a quarter turn moves its offset (5,2,0) to
	// (5,0,2).
	a := v.Tree.Children[0]
	if !vecNear(got[a], geometry.Vec3{X: 5, Y: 0, Z: 2}) {
		t.Errorf("A = %v, want {5 0 2}", got[a])
	}
}

func TestComputeFrameSceneSpinReported(t *testing.T) {
	v := newSampleViewer(t)
	v.Anim.SceneSpinDeg = 42
	f := ComputeFrame(v)
	if !near(f.SceneSpinDeg, 42) {
		t.Errorf("SceneSpinDeg = %v, want 42", f.SceneSpinDeg)
	}
}

func TestComputeFrameNilTree(t *testing.T) {
	f := ComputeFrame(&ViewerState{Anim: NewAnimation()})
	if len(f.Nodes) != 0 || len(f.Cones) != 0 {
		t.Errorf("nil tree produced %d nodes and %d cones", len(f.Nodes), len(f.Cones))
	}
}
