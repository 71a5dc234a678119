package mindmap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

// FreeMind document structure: a <map> element wrapping one root <node>,
// with nested <node> children. Only the TEXT attribute is read; edges,
// icons and formatting tags are ignored.
type freemindMap struct {
	XMLName xml.Name      `xml:"map"`
	Root    *freemindNode `xml:"node"`
}

type freemindNode struct {
	Text     string         `xml:"TEXT,attr"`
	Children []freemindNode `xml:"node"`
}

// ParseFreeMind reads a FreeMind XML document and builds its tree.
// Nodes without a TEXT attribute get an empty label. Each child is
// inserted ahead of its previously parsed siblings, so stored sibling
// order is the reverse of document order.
//
// Returns ErrEmptyTree when the document is valid XML but has no <map>
// or no root <node>; any other failure wraps ErrDocumentLoad.
func ParseFreeMind(r io.Reader) (*Node, error) {
	var doc freemindMap
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		var mismatch xml.UnmarshalError
		if errors.As(err, &mismatch) {
			// Well-formed XML whose top element is not <map>.
			return nil, ErrEmptyTree
		}
		return nil, fmt.Errorf("%w: parse freemind document: %w", ErrDocumentLoad, err)
	}
	if doc.Root == nil {
		return nil, ErrEmptyTree
	}
	return fromFreemind(doc.Root), nil
}

func fromFreemind(x *freemindNode) *Node {
	n := &Node{Text: x.Text}
	for i := range x.Children {
		n.Children = append(n.Children, fromFreemind(&x.Children[i]))
	}
	slices.Reverse(n.Children)
	return n
}

// LoadFreeMind reads and parses a FreeMind document from disk.
func LoadFreeMind(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open document: %w", ErrDocumentLoad, err)
	}
	defer f.Close()

	root, err := ParseFreeMind(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return root, nil
}
