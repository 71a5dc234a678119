// Package mindmap provides the tree model for mind map documents and the
// parsers that load them.
//
// # Overview
//
// A mind map is a strict hierarchy: one root, every other node with exactly
// one parent, no cycles. [Node] carries the display text, the child list in
// draw order, the cached subtree size, and the rest position assigned by the
// layout engine. Parents own their children; releasing the root releases the
// whole tree.
//
// # Documents
//
// Two document formats are supported:
//
//   - FreeMind XML (.mm, .xml): the classic <map><node TEXT="…"> format,
//     parsed by [ParseFreeMind]. Each child is inserted ahead of its
//     previously parsed siblings, so stored sibling order is the reverse
//     of document order.
//   - TOML outlines (.toml): nested text/children tables parsed by
//     [ParseOutline]. Sibling order follows the document.
//
// [Load] picks the parser from the file extension. Documents that cannot
// be read or parsed fail with a wrapped [ErrDocumentLoad]; documents that
// parse but contain no root node fail with [ErrEmptyTree]. Both are fatal
// for callers that need a tree to work on.
//
// # Derived Data
//
// [ComputeSize] fills the Size field bottom-up (a node counts itself plus
// all descendants). [CountCones] counts internal nodes; each internal node
// projects one cone to its children, and cones are numbered by pre-order
// visitation via [WalkCones]. Both must be refreshed after any structural
// change.
//
// Trees are not safe for concurrent mutation. The interactive viewer
// mutates them from a single event loop only.
package mindmap
