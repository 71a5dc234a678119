package render

import (
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/scene"
)

// RenderJSON serializes a computed frame as a positioned-layout document:
// layout parameters, node positions, and per-cone placement including the
// current spin angles. The output round-trips through
// [treeio.UnmarshalLayout].
func RenderJSON(f scene.Frame, axis layout.Axis, p layout.Params) ([]byte, error) {
	return treeio.MarshalLayout(treeio.FromFrame(f, axis, p))
}
