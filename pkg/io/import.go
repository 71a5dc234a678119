package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/conetree/pkg/mindmap"
)

// ReadTree decodes a JSON tree document from r into a mind-map tree.
//
// The input must be a JSON object with a "root" node:
//
//	{
//	  "root": {
//	    "text": "Project",
//	    "children": [{"text": "Design"}, {"text": "Docs"}]
//	  }
//	}
//
// Each node has an optional "text" string and an optional "children" array.
// Sibling order in the document is preserved.
//
// ReadTree returns a wrapped [mindmap.ErrDocumentLoad] if the JSON is
// malformed, and [mindmap.ErrEmptyTree] if the root node is missing or
// null. Sizes are not part of the document; call [mindmap.ComputeSize] on
// the result before laying it out.
//
// The returned tree is independent of r and can be modified safely after
// ReadTree returns. ReadTree does not close r.
func ReadTree(r io.Reader) (*mindmap.Node, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", mindmap.ErrDocumentLoad, err)
	}
	if data.Root == nil {
		return nil, fmt.Errorf("tree document: %w", mindmap.ErrEmptyTree)
	}
	return fromDocNode(data.Root), nil
}

// ImportTree reads a JSON tree document at path and returns the decoded tree.
//
// ImportTree opens the file, decodes it using [ReadTree], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportTree(path string) (*mindmap.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", mindmap.ErrDocumentLoad, path, err)
	}
	defer f.Close()

	root, err := ReadTree(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return root, nil
}

func fromDocNode(dn *docNode) *mindmap.Node {
	n := &mindmap.Node{Text: dn.Text}
	for _, c := range dn.Children {
		n.Children = append(n.Children, fromDocNode(c))
	}
	return n
}
