package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/conetree/pkg/mindmap"
)

type document struct {
	Root *docNode `json:"root"`
}

type docNode struct {
	Text     string     `json:"text,omitempty"`
	Children []*docNode `json:"children,omitempty"`
}

// WriteTree encodes a mind-map tree as a JSON document and writes it to w.
// The output contains the logical structure only (text and hierarchy), not
// positions or sizes. It can be re-imported with [ReadTree] for round-trip
// processing.
func WriteTree(root *mindmap.Node, w io.Writer) error {
	out := document{Root: toDocNode(root)}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTree writes a mind-map tree to a JSON file at path.
// This is a convenience wrapper around [WriteTree] for file-based output.
func ExportTree(root *mindmap.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(root, f)
}

func toDocNode(n *mindmap.Node) *docNode {
	if n == nil {
		return nil
	}
	out := &docNode{Text: n.Text}
	for _, c := range n.Children {
		out.Children = append(out.Children, toDocNode(c))
	}
	return out
}
