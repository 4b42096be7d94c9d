// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package treeprinter renders hierarchical data as an indented tree:
//
//	root
//	 ├── child1
//	 │    └── grandchild
//	 └── child2
package treeprinter

import (
	"fmt"
	"strings"
)

const (
	edgeMid  = " ├── "
	edgeLast = " └── "
	contMid  = " │   "
	contLast = "     "
)

type node struct {
	text     string
	children []*node
}

// Node is a handle used to add children to a tree.
type Node struct {
	n *node
}

// New creates a tree with an empty root. The first call to Child on the
// returned Node sets the root text.
func New() Node {
	return Node{n: &node{}}
}

// Child adds a node as a child of the given node.
func (n Node) Child(text string) Node {
	c := &node{text: text}
	n.n.children = append(n.n.children, c)
	return Node{n: c}
}

// Childf adds a node as a child of the given node, formatting its text.
func (n Node) Childf(format string, args ...interface{}) Node {
	return n.Child(fmt.Sprintf(format, args...))
}

// String returns the tree as a string. It must be called on the handle
// returned by New.
func (n Node) String() string {
	var buf strings.Builder
	for _, root := range n.n.children {
		buf.WriteString(root.text)
		buf.WriteByte('\n')
		format(&buf, root, "")
	}
	return buf.String()
}

func format(buf *strings.Builder, n *node, prefix string) {
	for i, c := range n.children {
		edge, cont := edgeMid, contMid
		if i == len(n.children)-1 {
			edge, cont = edgeLast, contLast
		}
		buf.WriteString(prefix)
		buf.WriteString(edge)
		buf.WriteString(c.text)
		buf.WriteByte('\n')
		format(buf, c, prefix+cont)
	}
}
