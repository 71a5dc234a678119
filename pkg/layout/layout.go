package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/conetree/pkg/geometry"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

var (
	// ErrUnknownAxis is returned by [ParseAxis] for axis names other than
	// vertical and horizontal.
	ErrUnknownAxis = errors.New("unknown axis")

	// ErrInvalidParams is returned by [Params.ValidateAndSetDefaults] when
	// a dimension is negative.
	ErrInvalidParams = errors.New("invalid layout parameters")
)

// Axis selects the long axis of the tree.
type Axis int

const (
	// Vertical grows the tree downward: the root sits on top and every
	// level descends along -y. Cone spin turns the x/z plane.
	Vertical Axis = iota
	// Horizontal grows the tree rightward along +x, with cone spin
	// turning the y/z plane.
	Horizontal
)

// String returns the axis name as accepted by [ParseAxis].
func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseAxis converts an axis name to an Axis. Matching is
// case-insensitive and accepts the single-letter forms v and h.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("%w: %q (valid: vertical, horizontal)", ErrUnknownAxis, s)
	}
}

// Default layout dimensions, in world units.
const (
	// DefaultLevelHeight is the distance from a cone's apex to its base.
	DefaultLevelHeight = 5.0
	// DefaultBaseRadiusFactor scales base radius with cone weight.
	DefaultBaseRadiusFactor = 0.5
	// DefaultBottomMargin is the clearance under vertical trees.
	DefaultBottomMargin = 4.0
)

// Params configures one layout pass. A Params value is immutable during
// the pass; changing any field requires re-running [Compute].
type Params struct {
	Axis         Axis // long axis of the tree
	Proportional bool // angular slices scale with subtree size

	LevelHeight      float64 // apex-to-base distance per level
	BaseRadiusFactor float64 // base radius per unit of cone weight
	BottomMargin     float64 // minimum y of vertical layouts
}

// DefaultParams returns a vertical, uniformly spaced parameter set with
// the default dimensions.
func DefaultParams() Params {
	return Params{
		LevelHeight:      DefaultLevelHeight,
		BaseRadiusFactor: DefaultBaseRadiusFactor,
		BottomMargin:     DefaultBottomMargin,
	}
}

// ValidateAndSetDefaults replaces zero dimensions with the defaults and
// rejects negative ones.
func (p *Params) ValidateAndSetDefaults() error {
	if p.LevelHeight < 0 || p.BaseRadiusFactor < 0 || p.BottomMargin < 0 {
		return fmt.Errorf("%w: dimensions must not be negative", ErrInvalidParams)
	}
	if p.LevelHeight == 0 {
		p.LevelHeight = DefaultLevelHeight
	}
	if p.BaseRadiusFactor == 0 {
		p.BaseRadiusFactor = DefaultBaseRadiusFactor
	}
	if p.BottomMargin == 0 {
		p.BottomMargin = DefaultBottomMargin
	}
	return nil
}

// Weight returns the angular weight of the cone under n: the child count
// for uniform spacing, the descendant count for proportional spacing.
// Requires sizes computed by [mindmap.ComputeSize] in proportional mode.
func (p Params) Weight(n *mindmap.Node) float64 {
	if p.Proportional {
		return float64(n.Size - 1)
	}
	return float64(len(n.Children))
}

// Radius returns the base radius of the cone under n. The radius grows
// linearly with the cone's weight from a minimum of 1, so heavy cones
// widen instead of crowding their children together.
func (p Params) Radius(n *mindmap.Node) float64 {
	return p.Weight(n)*p.BaseRadiusFactor + 1
}

// Compute assigns a rest position to every node in the tree. The root is
// placed at the origin and each child ring one LevelHeight further along
// the long axis; vertical trees are then lifted so their lowest node sits
// at BottomMargin. Proportional spacing requires sizes computed by
// [mindmap.ComputeSize].
//
// Positions are rewritten wholesale; nothing else on the nodes changes.
// Compute on a nil root is a no-op.
func Compute(root *mindmap.Node, p Params) {
	if root == nil {
		return
	}
	root.Pos = geometry.Vec3{}
	place(root, p, geometry.Vec3{}, 0)

	if p.Axis == Vertical {
		shift := -minY(root) + p.BottomMargin
		translate(root, geometry.Vec3{Y: shift})
	}
}

// place positions n at pos and lays out its children around the cone
// base. inboundAngle is the angle n itself was placed at on its parent's
// rim; the first child slice starts there.
func place(n *mindmap.Node, p Params, pos geometry.Vec3, inboundAngle float64) {
	n.Pos = pos
	if n.IsLeaf() {
		return
	}

	total := p.Weight(n)
	radius := p.Radius(n)

	base := pos
	if p.Axis == Vertical {
		base.Y -= p.LevelHeight
	} else {
		base.X += p.LevelHeight
	}

	cum := inboundAngle
	for _, child := range n.Children {
		weight := 1.0
		if p.Proportional {
			weight = float64(child.Size)
		}
		span := 2 * math.Pi * weight / total
		angle := cum + span/2

		childPos := base
		if p.Axis == Vertical {
			childPos.X += radius * math.Sin(angle)
			childPos.Z += radius * math.Cos(angle)
		} else {
			childPos.Y += radius * math.Sin(angle)
			childPos.Z += radius * math.Cos(angle)
		}

		place(child, p, childPos, angle)
		cum += span
	}
}

func minY(n *mindmap.Node) float64 {
	lowest := n.Pos.Y
	for _, child := range n.Children {
		if y := minY(child); y < lowest {
			lowest = y
		}
	}
	return lowest
}

func translate(n *mindmap.Node, d geometry.Vec3) {
	n.Pos = n.Pos.Add(d)
	for _, child := range n.Children {
		translate(child, d)
	}
}
