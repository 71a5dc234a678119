// Package layout computes rest positions for mind map trees as cone trees.
//
// # Overview
//
// Every internal node becomes the apex of a cone: the node sits at the tip
// and its children spread around the rim of the base, one level further
// along the long axis. [Compute] walks the tree once and assigns a world
// position to every node; the result is the rest pose that per-frame spin
// transforms start from.
//
// # Geometry
//
// The long axis is chosen by [Axis]: Vertical trees grow downward along -y
// with the root on top, Horizontal trees grow rightward along +x. Children
// divide the full circle of their parent's base into contiguous angular
// slices and sit at the centers of their slices. With uniform spacing every
// sibling gets an equal slice; with proportional spacing slices scale with
// subtree size, giving bushy branches more room. The base radius also grows
// with the parent's weight, so crowded cones widen instead of overlapping.
//
// Each child's slice starts where the previous sibling's ended, and the
// first slice starts at the angle the parent itself was placed at, which
// spreads grandchildren away from the grandparent's center.
//
// Vertical layouts are lifted after placement so the lowest node sits at
// the bottom margin, keeping the whole tree above y = 0 for viewing.
package layout
