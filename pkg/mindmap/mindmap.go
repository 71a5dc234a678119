package mindmap

import (
	"errors"

	"github.com/matzehuels/conetree/pkg/geometry"
)

var (
	// ErrEmptyTree is returned by the document parsers when the document
	// is well formed but contains no root node. A viewer cannot start
	// without a tree, so callers treat this as fatal.
	ErrEmptyTree = errors.New("mind map has no root node")

	// ErrDocumentLoad wraps failures to read or parse a document at all:
	// unreadable files and malformed content. Fatal like ErrEmptyTree,
	// but distinguishes a broken document from a merely empty one.
	ErrDocumentLoad = errors.New("cannot load mind map document")

	// ErrUnsupportedFormat is returned by [Load] when the file extension
	// does not match any known document format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Node is one entry in a mind map tree. Children are stored in draw order,
// which also determines cone numbering and angular placement. Size and Pos
// are derived data owned by [ComputeSize] and the layout engine; both are
// overwritten wholesale on recompute and never partially updated.
//
// The zero value is a valid empty leaf.
type Node struct {
	Text     string        // display label, may be empty
	Children []*Node       // subtrees in draw order
	Size     int           // 1 + total descendant count, set by ComputeSize
	Pos      geometry.Vec3 // rest position, set by the layout engine
}

// IsLeaf reports whether the node has no children. Leaves project no cone.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// AddChild appends a child in draw order and returns it, for building
// trees in code and tests.
func (n *Node) AddChild(text string) *Node {
	child := &Node{Text: text}
	n.Children = append(n.Children, child)
	return child
}

// ComputeSize recomputes the Size field for every node in the subtree:
// a node's size is 1 plus the sizes of all its children, so leaves have
// size 1. Returns the root's size. Safe to call repeatedly; sizes are
// rewritten from scratch on every call.
func ComputeSize(n *Node) int {
	if n == nil {
		return 0
	}
	n.Size = 1
	for _, child := range n.Children {
		n.Size += ComputeSize(child)
	}
	return n.Size
}

// CountCones returns the number of internal nodes in the subtree. Every
// internal node projects exactly one cone, so this is the number of
// selectable cones. Returns 0 for nil or a single leaf.
func CountCones(n *Node) int {
	if n == nil {
		return 0
	}
	count := 0
	if !n.IsLeaf() {
		count = 1
	}
	for _, child := range n.Children {
		count += CountCones(child)
	}
	return count
}

// NodeCount returns the total number of nodes in the subtree.
// Unlike Size it does not depend on ComputeSize having run.
func NodeCount(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += NodeCount(child)
	}
	return count
}

// MaxDepth returns the number of levels in the subtree: 1 for a single
// node, 0 for nil.
func MaxDepth(n *Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, child := range n.Children {
		if d := MaxDepth(child); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

// Walk visits every node in pre-order, children in stored order, calling
// fn with the node and its depth (root depth 0). Returning false from fn
// stops the walk.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(n *Node, depth int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	for _, child := range n.Children {
		if !walk(child, depth+1, fn) {
			return false
		}
	}
	return true
}

// WalkCones visits every internal node in pre-order, calling fn with the
// node and its cone index. Indices count internal nodes in visitation
// order starting at 0, matching the numbering used by selection cycling.
func WalkCones(n *Node, fn func(n *Node, index int)) {
	index := 0
	Walk(n, func(node *Node, _ int) bool {
		if !node.IsLeaf() {
			fn(node, index)
			index++
		}
		return true
	})
}
