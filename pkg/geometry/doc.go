// Package geometry provides the 3D math for cone tree scenes: float64
// vectors, the axis rotations used to spin cones, angle helpers, and a
// perspective camera that maps world positions onto a viewport.
//
// # Coordinate System
//
// Space is right-handed with x growing right, y growing up, and z growing
// toward the viewer. Vertical tree layouts descend along -y, horizontal
// layouts advance along +x, and spinning a cone rotates positions around
// the matching axis with [RotateY] or [RotateX].
//
// # Camera
//
// [Camera] orbits the scene origin with yaw and pitch angles, pans in view
// space, and zooms along the view direction. [Camera.Project] performs the
// whole world-to-viewport transform: orbit rotations, pan and distance
// translation, then a perspective divide with a 45 degree vertical field
// of view. Depth values returned by Project order primitives back-to-front
// for painter's-algorithm renderers.
//
// All types are plain values and safe to copy; none of the operations
// allocate.
package geometry
