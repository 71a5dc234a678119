package scene

import (
	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

// NodePlacement is one node's world position for one frame.
type NodePlacement struct {
	Node  *mindmap.Node
	World geometry.Vec3
}

// ConePlacement is one cone's world geometry for one frame. The apex is
// the internal node's own position; the base center sits one level
// further along the long axis.
type ConePlacement struct {
	Index      int // pre-order index among internal nodes
	Node       *mindmap.Node
	Apex       geometry.Vec3
	BaseCenter geometry.Vec3
	Radius     float64
	Height     float64
	SpinDeg    float64 // current rotation about the cone's long axis
	Selected   bool
}

// Frame is one rendered instant of the scene: every node's world
// position and every cone's geometry, both in pre-order draw order, plus
// the cumulative scene orbit angle for renderers that apply it.
type Frame struct {
	Nodes        []NodePlacement
	Cones        []ConePlacement
	SceneSpinDeg float64
}

// ComputeFrame derives the world-space scene for the viewer's current
// state. It is a pure reader: positions come from the cached rest layout,
// and each child offset is rotated about its parent cone's axis by that
// cone's current spin. Because every frame starts from the rest layout,
// repeated frames accumulate no floating point drift, and a frame at
// spin 0 reproduces the rest positions exactly.
//
// Descendants of a spinning cone inherit its rotation rigidly: the whole
// subtree turns as one piece around the parent's axis.
func ComputeFrame(v *ViewerState) Frame {
	frame := Frame{SceneSpinDeg: v.Anim.SceneSpinDeg}
	if v.Tree == nil {
		return frame
	}
	coneIndex := 0

	var walk func(n *mindmap.Node, world geometry.Vec3)
	walk = func(n *mindmap.Node, world geometry.Vec3) {
		frame.Nodes = append(frame.Nodes, NodePlacement{Node: n, World: world})
		if n.IsLeaf() {
			return
		}

		selected := v.Selection.Matches(coneIndex)
		spin := 0.0
		if v.Anim.Enabled {
			switch {
			case v.Selection.All():
				spin = v.Anim.AllConesSpinDeg
			case selected:
				spin = v.Anim.SingleConeSpinDeg
			}
		}

		base := world
		if v.Params.Axis == layout.Vertical {
			base.Y -= v.Params.LevelHeight
		} else {
			base.X += v.Params.LevelHeight
		}

		frame.Cones = append(frame.Cones, ConePlacement{
			Index:      coneIndex,
			Node:       n,
			Apex:       world,
			BaseCenter: base,
			Radius:     v.Params.Radius(n),
			Height:     v.Params.LevelHeight,
			SpinDeg:    spin,
			Selected:   selected,
		})
		coneIndex++

		for _, child := range n.Children {
			rel := child.Pos.Sub(n.Pos)
			if spin != 0 {
				if v.Params.Axis == layout.Vertical {
					rel = geometry.RotateY(rel, spin)
				} else {
					rel = geometry.RotateX(rel, spin)
				}
			}
			walk(child, world.Add(rel))
		}
	}

	walk(v.Tree, v.Tree.Pos)
	return frame
}
