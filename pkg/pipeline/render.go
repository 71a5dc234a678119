package pipeline

import (
	"fmt"

	"github.com/matzehuels/conetree/pkg/geometry"
	treeio "github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/layout"
	"github.com/matzehuels/conetree/pkg/mindmap"
	"github.com/matzehuels/conetree/pkg/render"
	"github.com/matzehuels/conetree/pkg/render/outline"
	"github.com/matzehuels/conetree/pkg/scene"
)

// pngScale is the rasterization factor for PNG output. 2x keeps text
// crisp on high-DPI displays.
const pngScale = 2.0

// Render generates output artifacts in the requested formats from a
// positioned layout. View overrides in opts (selected cone, spin angle,
// camera) are applied on top of the layout's rest positions.
func Render(l treeio.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsOutline() {
		return renderOutline(l, opts)
	}
	return renderCone(l, opts)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := treeio.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return Render(l, opts)
}

// renderCone projects the 3D scene through the camera and hands it to
// the requested sinks.
func renderCone(l treeio.Layout, opts Options) (map[string][]byte, error) {
	frame, params, err := rebuildFrame(l, opts)
	if err != nil {
		return nil, err
	}

	style, err := render.StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}

	cam := geometry.NewCamera()
	cam.YawDeg = opts.YawDeg
	cam.PitchDeg = opts.PitchDeg
	if opts.Zoom > 0 {
		cam.Zoom = opts.Zoom
	}
	vp := geometry.Projection{Width: float64(opts.Width), Height: float64(opts.Height)}
	s2d := render.Project(frame, params.Axis, cam, vp)

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(s2d, render.WithStyle(style))
		case FormatPNG:
			data, err = render.RenderPNG(s2d, pngScale, render.WithStyle(style))
		case FormatPDF:
			data, err = render.RenderPDF(s2d, render.WithStyle(style))
		case FormatJSON:
			data, err = render.RenderJSON(frame, params.Axis, params)
		default:
			return nil, fmt.Errorf("unsupported cone format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// rebuildFrame reconstructs the scene from a layout snapshot and applies
// the view overrides from opts: selection, spin, and the stored scene
// orbit angle.
func rebuildFrame(l treeio.Layout, opts Options) (scene.Frame, layout.Params, error) {
	tree, err := treeio.ToTree(l)
	if err != nil {
		return scene.Frame{}, layout.Params{}, err
	}

	axis, err := layout.ParseAxis(l.Axis)
	if err != nil {
		return scene.Frame{}, layout.Params{}, err
	}
	params := layout.Params{
		Axis:             axis,
		Proportional:     l.Proportional,
		LevelHeight:      l.LevelHeight,
		BaseRadiusFactor: l.RadiusFactor,
		BottomMargin:     l.BottomMargin,
	}

	v, err := scene.NewViewerState(tree, params)
	if err != nil {
		return scene.Frame{}, layout.Params{}, err
	}

	if opts.SelectedCone != nil {
		v.Selection = scene.SelectCone(*opts.SelectedCone).Clamp(v.TotalCones)
	}
	if opts.SpinDeg != 0 {
		v.Anim.Enabled = true
		spin := geometry.WrapDeg(opts.SpinDeg)
		if v.Selection.All() {
			v.Anim.AllConesSpinDeg = spin
		} else {
			v.Anim.SingleConeSpinDeg = spin
		}
	}

	frame := scene.ComputeFrame(v)
	frame.SceneSpinDeg = l.SceneSpinDeg
	return frame, params, nil
}

// renderOutline draws the flat 2D tree diagram through Graphviz.
func renderOutline(l treeio.Layout, opts Options) (map[string][]byte, error) {
	tree, err := treeio.ToTree(l)
	if err != nil {
		return nil, err
	}
	mindmap.ComputeSize(tree)

	dot := outline.ToDOT(tree, outline.Options{
		Detailed:   opts.Detailed,
		Horizontal: l.Axis == layout.Horizontal.String(),
	})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = outline.RenderSVG(dot)
		case FormatPNG:
			data, err = outline.RenderPNG(dot, pngScale)
		case FormatPDF:
			data, err = outline.RenderPDF(dot)
		case FormatJSON:
			data, err = treeio.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported outline format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
