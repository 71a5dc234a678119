// Package io provides JSON import and export for mind-map trees and
// computed cone-tree layouts.
//
// # Overview
//
// This package defines two serialization formats:
//
//   - Tree documents: the logical mind map (text and hierarchy only),
//     an alternative authoring format alongside FreeMind XML and TOML
//     outlines.
//   - Layouts: a positioned snapshot of the tree (world coordinates,
//     cone geometry, spin state), produced by the layout pipeline and
//     consumed by render sinks and external tools.
//
// # Tree Document Format
//
// A tree document is a nested JSON object:
//
//	{
//	  "root": {
//	    "text": "Project",
//	    "children": [
//	      {"text": "Design", "children": [{"text": "Layout"}]},
//	      {"text": "Docs"}
//	    ]
//	  }
//	}
//
// Children keep their document order. Use [ImportTree] to read a file or
// [ReadTree] to read from any io.Reader; [ExportTree] and [WriteTree] are
// the matching writers. A document whose root is missing or null fails
// with [mindmap.ErrEmptyTree].
//
// # Layout Format
//
// A layout is a flat snapshot with parent references:
//
//	{
//	  "axis": "vertical",
//	  "level_height": 5,
//	  "radius_factor": 0.5,
//	  "bottom_margin": 4,
//	  "nodes": [
//	    {"id": 0, "parent": -1, "text": "Project", "x": 0, "y": 14, "z": 0},
//	    {"id": 1, "parent": 0, "text": "Design", "x": 2, "y": 9, "z": 0}
//	  ],
//	  "cones": [
//	    {"index": 0, "node": 0, "apex": {...}, "base_center": {...}, "radius": 2, "height": 5}
//	  ]
//	}
//
// Nodes appear in draw order (parents before children), so a node's parent
// always has a smaller ID. Cones carry the per-frame state a renderer
// needs: apex and base-center world positions, radius, height, spin angle,
// and the selected flag.
//
// Use [FromFrame] to snapshot a computed frame, [ToTree] to rebuild a tree
// from an imported layout, and [MarshalLayout] / [UnmarshalLayout] (or the
// file wrappers [WriteLayoutFile] / [ReadLayoutFile]) for the bytes.
//
// # Concurrency
//
// All functions are safe to call concurrently with other readers of the
// same tree, but not with concurrent modifications. Imported trees are
// independent instances and can be modified freely.
//
// [mindmap.ErrEmptyTree]: github.com/matzehuels/conetree/pkg/mindmap.ErrEmptyTree
package io
