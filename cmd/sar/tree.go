package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/meigma/shoko"
)

// treeNode is one path element of the rendered archive tree.
type treeNode struct {
	label    string
	file     bool
	children map[string]*treeNode
}

// buildTree groups entries by path element. A file label carries the
// stored size of its blob.
func buildTree(entries []shoko.Entry) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}
	for _, e := range entries {
		parts := strings.Split(e.Path, "/")
		node := root
		for i, part := range parts {
			last := i == len(parts)-1
			key := part
			if last {
				key = "\x00" + part // keep a file distinct from a same-named directory
			}
			child, ok := node.children[key]
			if !ok {
				child = &treeNode{label: part, children: make(map[string]*treeNode)}
				if last {
					child.label = fmt.Sprintf("%s (%d bytes)", part, e.Size)
					child.file = true
				}
				node.children[key] = child
			}
			node = child
		}
	}
	return root
}

// renderTree writes the tree below root using box-drawing connectors.
func renderTree(w io.Writer, root *treeNode) {
	renderBranch(w, root, "")
}

func renderBranch(w io.Writer, node *treeNode, prefix string) {
	children := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		children = append(children, c)
	}
	slices.SortFunc(children, func(a, b *treeNode) int {
		return strings.Compare(a.label, b.label)
	})

	for i, child := range children {
		last := i == len(children)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, child.label)
		renderBranch(w, child, prefix+indent)
	}
}
