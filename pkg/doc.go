// Package pkg provides the core libraries for conetree mind map visualization.
//
// # Overview
//
// Conetree renders hierarchical mind maps as 3D cone trees: each parent
// sits at the apex of a cone and its children are spread around the
// cone's base circle. The pkg directory is organized into four main
// areas:
//
//  1. Domain logic (parsing, layout, geometry, rendering)
//  2. Infrastructure (caching, sessions, remote fetch)
//  3. Interactive state (scene, animation, selection)
//  4. Orchestration (parse → layout → render)
//
// # Architecture
//
// The typical data flow through conetree:
//
//	FreeMind/TOML/JSON document
//	         ↓
//	    [mindmap] package (parse into a tree)
//	         ↓
//	    [layout] package (radial cone positions)
//	         ↓
//	    [scene] + [geometry] packages (camera, spin, selection)
//	         ↓
//	    [render] package (projection + output)
//	         ↓
//	    SVG/PNG/PDF/JSON output, terminal canvas
//
// # Quick Start
//
// Parse a document and render an SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/conetree/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Document: "map.mm",
//	    Formats:  []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// [mindmap] - Tree model and parsers for FreeMind XML, TOML outlines,
// and the native JSON format, plus subtree size and cone counting.
//
// [layout] - The radial cone layout: children on base circles, angular
// slices uniform or proportional to subtree weight, vertical or
// horizontal axis.
//
// [geometry] - Vectors, axis rotation, the orbital camera, and the
// perspective projection.
//
// [scene] - Interactive viewer state: selection cycling, the animation
// clock with per-cone spin, and drift-free parameter changes.
//
// [render] - Projection to 2D and output sinks: SVG, PNG, PDF, the
// frame JSON dump, the graphviz outline diagram, and the terminal
// canvas used by the interactive viewer.
//
// [pipeline] - Complete visualization pipeline (parse → layout →
// render) used by the CLI and the HTTP API. Ensures consistent
// behavior across all entry points.
//
// [cache] - Staged result caching with file, Redis, and null backends.
// Documents, layouts, and rendered artifacts are cached under keys
// derived from their inputs.
//
// [session] - Saved viewer sessions with file and MongoDB backends,
// matched to documents by content hash.
//
// [httputil] - Shared HTTP client used to fetch remote documents.
//
// [errors] - Coded errors with user-facing messages and HTTP status
// mapping.
//
// [observability] - Pluggable hooks for pipeline, cache, HTTP, and
// viewer events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/mindmap
// [layout]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/layout
// [geometry]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/geometry
// [scene]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/session
// [httputil]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/conetree/pkg/observability
package pkg
