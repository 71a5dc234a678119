package io

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/scene"
)

// =============================================================================
// Layout - Positioned Snapshot Format
// =============================================================================

// Layout is the canonical serialization format for computed cone-tree
// layouts. Used for API responses, storage, caching, and external tools.
//
// The format is a flat snapshot of one frame: every node with its world
// position, and every cone with the geometry a renderer needs. Nodes appear
// in draw order, so a node's parent always has a smaller ID.
type Layout struct {
	// Axis is the layout direction, "vertical" or "horizontal".
	Axis string `json:"axis" bson:"axis"`

	// Layout parameters the snapshot was computed with.
	LevelHeight  float64 `json:"level_height" bson:"level_height"`
	RadiusFactor float64 `json:"radius_factor" bson:"radius_factor"`
	BottomMargin float64 `json:"bottom_margin" bson:"bottom_margin"`
	Proportional bool    `json:"proportional,omitempty" bson:"proportional,omitempty"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Cones []Cone `json:"cones,omitempty" bson:"cones,omitempty"`

	// SceneSpinDeg is the accumulated whole-scene orbit angle, applied by
	// the camera rather than baked into node positions.
	SceneSpinDeg float64 `json:"scene_spin_deg,omitempty" bson:"scene_spin_deg,omitempty"`
}

// Node is a positioned mind-map node in a layout snapshot.
type Node struct {
	ID     int     `json:"id" bson:"id"`
	Parent int     `json:"parent" bson:"parent"` // ID of the parent node, -1 for the root
	Text   string  `json:"text,omitempty" bson:"text,omitempty"`
	Size   int     `json:"size,omitempty" bson:"size,omitempty"` // subtree size including the node itself
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Z      float64 `json:"z" bson:"z"`
}

// Cone is the drawable cone under one internal node.
type Cone struct {
	Index      int     `json:"index" bson:"index"` // pre-order index among internal nodes
	Node       int     `json:"node" bson:"node"`   // ID of the apex node
	Apex       Vec     `json:"apex" bson:"apex"`
	BaseCenter Vec     `json:"base_center" bson:"base_center"`
	Radius     float64 `json:"radius" bson:"radius"`
	Height     float64 `json:"height" bson:"height"`
	SpinDeg    float64 `json:"spin_deg,omitempty" bson:"spin_deg,omitempty"`
	Selected   bool    `json:"selected,omitempty" bson:"selected,omitempty"`
}

// Vec is a 3D position in world space.
type Vec struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

func toVec(v geometry.Vec3) Vec {
	return Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// =============================================================================
// Frame ↔ Layout Conversion
// =============================================================================

// FromFrame converts a computed frame to its serialization format.
// Node IDs follow the frame's draw order, so parents precede children.
func FromFrame(f scene.Frame, axis layout.Axis, p layout.Params) Layout {
	out := Layout{
		Axis:         axis.String(),
		LevelHeight:  p.LevelHeight,
		RadiusFactor: p.BaseRadiusFactor,
		BottomMargin: p.BottomMargin,
		Proportional: p.Proportional,
		SceneSpinDeg: f.SceneSpinDeg,
		Nodes:        make([]Node, len(f.Nodes)),
		Cones:        make([]Cone, len(f.Cones)),
	}

	ids := make(map[*mindmap.Node]int, len(f.Nodes))
	for i, np := range f.Nodes {
		ids[np.Node] = i
		out.Nodes[i] = Node{
			ID:     i,
			Parent: -1,
			Text:   np.Node.Text,
			Size:   np.Node.Size,
			X:      np.World.X,
			Y:      np.World.Y,
			Z:      np.World.Z,
		}
	}
	for i, np := range f.Nodes {
		for _, c := range np.Node.Children {
			if j, ok := ids[c]; ok {
				out.Nodes[j].Parent = i
			}
		}
	}

	for i, cp := range f.Cones {
		out.Cones[i] = Cone{
			Index:      cp.Index,
			Node:       ids[cp.Node],
			Apex:       toVec(cp.Apex),
			BaseCenter: toVec(cp.BaseCenter),
			Radius:     cp.Radius,
			Height:     cp.Height,
			SpinDeg:    cp.SpinDeg,
			Selected:   cp.Selected,
		}
	}

	return out
}

// ToTree rebuilds a mind-map tree from a layout snapshot. Node positions
// and sizes are restored from the snapshot; child order follows node ID
// order, which matches the draw order the snapshot was taken in.
//
// Returns an error if the snapshot is empty, has a parent reference that
// does not precede the node, or has more than one root.
func ToTree(l Layout) (*mindmap.Node, error) {
	if len(l.Nodes) == 0 {
		return nil, fmt.Errorf("layout: %w", mindmap.ErrEmptyTree)
	}

	nodes := make([]*mindmap.Node, len(l.Nodes))
	for i, nj := range l.Nodes {
		nodes[i] = &mindmap.Node{
			Text: nj.Text,
			Size: nj.Size,
			Pos:  geometry.Vec3{X: nj.X, Y: nj.Y, Z: nj.Z},
		}
	}

	var root *mindmap.Node
	for i, nj := range l.Nodes {
		if nj.Parent < 0 {
			if root != nil {
				return nil, fmt.Errorf("node %d: multiple roots", i)
			}
			root = nodes[i]
			continue
		}
		if nj.Parent >= i {
			return nil, fmt.Errorf("node %d: parent %d must precede the node", i, nj.Parent)
		}
		nodes[nj.Parent].Children = append(nodes[nj.Parent].Children, nodes[i])
	}
	if root == nil {
		return nil, fmt.Errorf("layout has no root node")
	}

	return root, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// An absent axis defaults to vertical; an unknown axis is an error.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.Axis == "" {
		l.Axis = layout.Vertical.String()
	}
	if _, err := layout.ParseAxis(l.Axis); err != nil {
		return Layout{}, err
	}
	if len(l.Nodes) == 0 {
		return Layout{}, fmt.Errorf("layout must contain nodes")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
