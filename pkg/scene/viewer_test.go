package scene

import (
	"testing"

	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

// buildSample returns R(A(A1, A2), B) with A stored before B.
func buildSample() *mindmap.Node {
	root := &mindmap.Node{Text: "R"}
	a := root.AddChild("A")
	a.AddChild("A1")
	a.AddChild("A2")
	root.AddChild("B")
	return root
}

func newSampleViewer(t *testing.T) *ViewerState {
	t.Helper()
	v, err := NewViewerState(buildSample(), layout.DefaultParams())
	if err != nil {
		t.Fatalf("NewViewerState error: %v", err)
	}
	return v
}

func TestNewViewerState(t *testing.T) {
	v := newSampleViewer(t)

	if v.TotalCones != 2 {
		t.Errorf("TotalCones = %d, want 2", v.TotalCones)
	}
	if !v.Selection.All() {
		t.Errorf("initial selection = %v, want all", v.Selection)
	}
	if v.Anim.Enabled {
		t.Error("animation should start stopped")
	}
	if v.Tree.Size != 5 {
		t.Errorf("tree size = %d, want 5", v.Tree.Size)
	}

	// Layout ran: the root is lifted above the bottom margin.
	if v.Tree.Pos.Y != 14 {
		t.Errorf("root y = %v, want 14", v.Tree.Pos.Y)
	}
}

func TestNewViewerStateInvalidParams(t *testing.T) {
	_, err := NewViewerState(buildSample(), layout.Params{LevelHeight: -1})
	if err == nil {
		t.Fatal("expected an error for negative dimensions")
	}
}

func TestViewerSetAxisRelayouts(t *testing.T) {
	v := newSampleViewer(t)
	v.SetAxis(layout.Horizontal)

	if v.Params.Axis != layout.Horizontal {
		t.Errorf("Axis = %v, want horizontal", v.Params.Axis)
	}
	// Horizontal layouts keep the root at the origin.
	if v.Tree.Pos.Y != 0 {
		t.Errorf("root y = %v, want 0 after horizontal layout", v.Tree.Pos.Y)
	}
}

func TestViewerToggleSpacing(t *testing.T) {
	v := newSampleViewer(t)

	v.ToggleSpacing()
	if !v.Params.Proportional {
		t.Error("first toggle should enable proportional spacing")
	}
	v.ToggleSpacing()
	if v.Params.Proportional {
		t.Error("second toggle should restore uniform spacing")
	}
}

func TestViewerSelectionClampedOnRelayout(t *testing.T) {
	v := newSampleViewer(t)
	v.Selection = SelectCone(1)

	// Shrink the tree to a single cone and re-lay out: index 1 is gone.
	v.Tree = &mindmap.Node{Text: "R"}
	v.Tree.AddChild("leaf")
	v.Relayout()

	if v.TotalCones != 1 {
		t.Fatalf("TotalCones = %d, want 1", v.TotalCones)
	}
	if !v.Selection.All() {
		t.Errorf("selection = %v, want all after clamp", v.Selection)
	}
}

func TestViewerCycleSelection(t *testing.T) {
	v := newSampleViewer(t)

	v.CycleSelection()
	if got, ok := v.Selection.Cone(); !ok || got != 0 {
		t.Errorf("selection after one cycle = %v, want cone 0", v.Selection)
	}
	v.CycleSelection()
	v.CycleSelection()
	if !v.Selection.All() {
		t.Errorf("selection after three cycles = %v, want all", v.Selection)
	}
}

func TestViewerTickFoldsOrbitIntoCamera(t *testing.T) {
	v := newSampleViewer(t)
	v.ToggleAnimation()

	v.Tick()
	if v.Camera.YawDeg != SceneSpinRate {
		t.Errorf("YawDeg = %v, want %v", v.Camera.YawDeg, SceneSpinRate)
	}
	if v.Camera.PitchDeg != 0 {
		t.Errorf("PitchDeg = %v, want 0", v.Camera.PitchDeg)
	}

	// Horizontal mode orbits around the x axis instead.
	v.SetAxis(layout.Horizontal)
	v.Tick()
	if v.Camera.PitchDeg != SceneSpinRate {
		t.Errorf("PitchDeg = %v, want %v", v.Camera.PitchDeg, SceneSpinRate)
	}
	if v.Camera.YawDeg != SceneSpinRate {
		t.Errorf("YawDeg = %v, want unchanged %v", v.Camera.YawDeg, SceneSpinRate)
	}
}

func TestViewerTickSingleSelectionDoesNotOrbit(t *testing.T) {
	v := newSampleViewer(t)
	v.ToggleAnimation()
	v.Selection = SelectCone(0)

	v.Tick()
	if v.Camera.YawDeg != 0 || v.Camera.PitchDeg != 0 {
		t.Errorf("camera moved for single selection: yaw=%v pitch=%v", v.Camera.YawDeg, v.Camera.PitchDeg)
	}
	if v.Anim.SingleConeSpinDeg != SingleConeSpinRate {
		t.Errorf("SingleConeSpinDeg = %v, want %v", v.Anim.SingleConeSpinDeg, SingleConeSpinRate)
	}
}
