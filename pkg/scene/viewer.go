package scene

import (
	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

// ViewerState bundles everything an interactive viewer mutates: the tree,
// the layout parameters, the camera, the selection, and the animation
// clock. All mutation goes through its methods from a single frame loop;
// ViewerState is not safe for concurrent use.
type ViewerState struct {
	Tree      *mindmap.Node
	Params    layout.Params
	Camera    geometry.Camera
	Selection Selection
	Anim      Animation

	// TotalCones is the number of selectable cones, refreshed by
	// Relayout on every tree or parameter change.
	TotalCones int
}

// NewViewerState validates the parameters, lays out the tree, and
// returns a ready viewer state with the default camera and a stopped
// animation clock.
func NewViewerState(tree *mindmap.Node, params layout.Params) (*ViewerState, error) {
	if err := params.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	v := &ViewerState{
		Tree:   tree,
		Params: params,
		Camera: geometry.NewCamera(),
		Anim:   NewAnimation(),
	}
	v.Relayout()
	return v, nil
}

// Relayout recomputes subtree sizes, rest positions, and the cone count
// for the current parameters, then clamps the selection so it never
// names a cone that no longer exists.
func (v *ViewerState) Relayout() {
	mindmap.ComputeSize(v.Tree)
	layout.Compute(v.Tree, v.Params)
	v.TotalCones = mindmap.CountCones(v.Tree)
	v.Selection = v.Selection.Clamp(v.TotalCones)
}

// SetAxis switches the long axis and re-runs layout.
func (v *ViewerState) SetAxis(a layout.Axis) {
	v.Params.Axis = a
	v.Relayout()
}

// ToggleSpacing flips between uniform and proportional angular slices
// and re-runs layout.
func (v *ViewerState) ToggleSpacing() {
	v.Params.Proportional = !v.Params.Proportional
	v.Relayout()
}

// CycleSelection advances the selection ring by one step.
func (v *ViewerState) CycleSelection() {
	v.Selection = v.Selection.Cycle(v.TotalCones)
}

// ToggleAnimation starts or stops the spin clock. Angles keep their
// values while stopped, and a stopped clock renders the rest pose.
func (v *ViewerState) ToggleAnimation() {
	v.Anim.Enabled = !v.Anim.Enabled
}

// Tick advances the animation one frame and folds the scene orbit into
// the camera: yaw for vertical layouts, pitch for horizontal ones. The
// orbit survives later mode switches because it accumulates in the
// camera rather than being reapplied per frame.
func (v *ViewerState) Tick() {
	delta := v.Anim.Tick(v.Selection)
	if delta == 0 {
		return
	}
	if v.Params.Axis == layout.Vertical {
		v.Camera.YawDeg += delta
	} else {
		v.Camera.PitchDeg += delta
	}
}
