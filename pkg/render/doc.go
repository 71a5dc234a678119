// Package render turns computed scene frames into visual outputs.
//
// # Overview
//
// This package contains the rendering half of the pipeline: a frame from
// [scene.ComputeFrame] is projected through a camera into depth-sorted 2D
// primitives, then written by a sink. It provides:
//
//   - [Project]: perspective projection into a [Scene2D]
//   - [RenderSVG]: vector output with the viewer's cone shading
//   - [RenderJSON]: positioned-frame export for external tools
//   - [RenderPDF], [RenderPNG]: conversion via rsvg-convert
//   - Generic format conversion ([ToPDF], [ToPNG])
//
// # Projection
//
// [Project] flattens one frame as seen by a [geometry.Camera]: each cone
// becomes an apex plus a 32-point base rim, each node a marker with a
// screen-space label anchor. Primitives are sorted back to front so sinks
// can paint in slice order.
//
//	frame := scene.ComputeFrame(v)
//	s2d := render.Project(frame, v.Params.Axis, v.Camera, geometry.Projection{Width: 800, Height: 600})
//	svg := render.RenderSVG(s2d)
//
// # Styles
//
// Sinks draw through a [Style]. [Solid] reproduces the viewer's look:
// translucent cone fill with a wireframe pass on top, blue node markers,
// white labels. [Wireframe] drops the fill and keeps the line work.
// Selected cones use the highlight palette in either style.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats
// using the external rsvg-convert tool (from librsvg). These are shared
// with the [outline] diagram renderer.
//
//	svg := render.RenderSVG(s2d)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Subpackages
//
//   - [outline]: 2D tree diagrams through Graphviz (dot, dot-svg)
//   - [term]: cell canvas rendering for the interactive terminal viewer
//
// [scene.ComputeFrame]: github.com/matzehuels/conetree/pkg/scene.ComputeFrame
// [geometry.Camera]: github.com/matzehuels/conetree/pkg/geometry.Camera
// [outline]: github.com/matzehuels/conetree/pkg/render/outline
// [term]: github.com/matzehuels/conetree/pkg/render/term
package render
