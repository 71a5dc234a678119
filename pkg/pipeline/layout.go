package pipeline

import (
	"fmt"

	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/scene"
)

// GenerateLayout computes rest positions for the tree and returns the
// positioned layout document: node coordinates plus one cone placement
// per internal node, all at spin zero. View overrides (selection, spin,
// camera) are applied at render time, not here, so the same layout is
// reused across views.
func GenerateLayout(tree *mindmap.Node, opts Options) (treeio.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return treeio.Layout{}, err
	}
	if tree == nil {
		return treeio.Layout{}, fmt.Errorf("layout: %w", mindmap.ErrEmptyTree)
	}

	v, err := scene.NewViewerState(tree, opts.LayoutParams())
	if err != nil {
		return treeio.Layout{}, fmt.Errorf("layout: %w", err)
	}

	frame := scene.ComputeFrame(v)
	return treeio.FromFrame(frame, v.Params.Axis, v.Params), nil
}
