// Package scene turns a laid-out mind map tree into per-frame world
// geometry for rendering.
//
// # Overview
//
// The layout engine assigns every node a rest position once; this package
// derives what the scene looks like at a given instant. [ViewerState]
// bundles all mutable viewer state: layout parameters, the camera, the
// cone [Selection], and the [Animation] clock. [ComputeFrame] reads that
// state and produces a [Frame]: world positions for every node plus the
// geometry, spin angle, and selection flag for every cone.
//
// # Selection
//
// Cones are numbered by pre-order visitation of internal nodes. A
// Selection names either every cone or a single one; cycling walks the
// ring all → 0 → 1 → … → last → all. Selections that stop naming a real
// cone after a re-layout fall back to all.
//
// # Spinning
//
// When animation runs, the selected cones spin about their long axis.
// Each frame rotates child offsets taken from the cached rest layout, so
// world positions are recomputed from scratch and never drift, no matter
// how long the animation runs. With everything selected the whole scene
// additionally orbits, at the scene spin rate, folded into the camera.
//
// # Concurrency
//
// One frame loop owns a ViewerState: tick, input handling, and
// ComputeFrame run interleaved on a single goroutine, never concurrently.
package scene
