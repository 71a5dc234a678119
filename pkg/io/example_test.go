package io_test

import (
	"fmt"
	"log"
	"os"

	"github.com/matzehuels/conetree/pkg/io"
	"github.com/matzehuels/conetree/pkg/mindmap"
)

func ExampleWriteTree() {
	root := &mindmap.Node{Text: "Trip", Children: []*mindmap.Node{
		{Text: "Flights"},
		{Text: "Hotels"},
	}}

	if err := io.WriteTree(root, os.Stdout); err != nil {
		log.Fatal(err)
	}
	// Output:
	// {
	//   "root": {
	//     "text": "Trip",
	//     "children": [
	//       {
	//         "text": "Flights"
	//       },
	//       {
	//         "text": "Hotels"
	//       }
	//     ]
	//   }
	// }
}

func ExampleToTree() {
	l := io.Layout{Nodes: []io.Node{
		{ID: 0, Parent: -1, Text: "Trip"},
		{ID: 1, Parent: 0, Text: "Flights"},
		{ID: 2, Parent: 0, Text: "Hotels"},
	}}

	root, err := io.ToTree(l)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("root:", root.Text)
	fmt.Println("children:", len(root.Children))
	// Output:
	// root: Trip
	// children: 2
}
