package mindmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOML outline structure: a text label plus nested [[children]] tables.
//
//	text = "Project"
//
//	[[children]]
//	text = "Design"
//
//	[[children.children]]
//	text = "Layout engine"
type outlineNode struct {
	Text     string        `toml:"text"`
	Children []outlineNode `toml:"children"`
}

// ParseOutline builds a tree from a TOML outline document. Sibling order
// follows the document. Returns ErrEmptyTree for a document with neither
// a root label nor children; malformed TOML wraps ErrDocumentLoad.
func ParseOutline(data []byte) (*Node, error) {
	var doc outlineNode
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse outline document: %w", ErrDocumentLoad, err)
	}
	if doc.Text == "" && len(doc.Children) == 0 {
		return nil, ErrEmptyTree
	}
	return fromOutline(&doc), nil
}

func fromOutline(o *outlineNode) *Node {
	n := &Node{Text: o.Text}
	for i := range o.Children {
		n.Children = append(n.Children, fromOutline(&o.Children[i]))
	}
	return n
}

// LoadOutline reads and parses a TOML outline document from disk.
func LoadOutline(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open document: %w", ErrDocumentLoad, err)
	}
	root, err := ParseOutline(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return root, nil
}

// Load reads a mind map document, picking the parser from the file
// extension: .mm and .xml use the FreeMind parser, .toml the outline
// parser. Returns ErrUnsupportedFormat for anything else.
func Load(path string) (*Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mm", ".xml":
		return LoadFreeMind(path)
	case ".toml":
		return LoadOutline(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
