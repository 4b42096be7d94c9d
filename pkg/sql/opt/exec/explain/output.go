// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package explain

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/util/treeprinter"
)

// OutputBuilder accumulates the tree of an EXPLAIN output. Nodes are entered
// and left in depth-first order; the fields of a node must be added before
// its children are entered.
type OutputBuilder struct {
	tp    treeprinter.Node
	stack []treeprinter.Node
}

// NewOutputBuilder creates a new, empty OutputBuilder.
func NewOutputBuilder() *OutputBuilder {
	return &OutputBuilder{tp: treeprinter.New()}
}

// EnterNode creates a new node as a child of the current node, and makes it
// the current node.
func (ob *OutputBuilder) EnterNode(name string) {
	parent := ob.tp
	if len(ob.stack) > 0 {
		parent = ob.stack[len(ob.stack)-1]
	}
	ob.stack = append(ob.stack, parent.Child(name))
}

// LeaveNode moves back to the parent of the current node.
func (ob *OutputBuilder) LeaveNode() {
	if len(ob.stack) == 0 {
		panic(errors.AssertionFailedf("LeaveNode without EnterNode"))
	}
	ob.stack = ob.stack[:len(ob.stack)-1]
}

// AddField adds a "key: value" line under the current node.
func (ob *OutputBuilder) AddField(key, value string) {
	ob.current().Childf("%s: %s", key, value)
}

// AddLine adds a free-form line under the current node.
func (ob *OutputBuilder) AddLine(text string) {
	ob.current().Child(text)
}

// String returns the accumulated tree. All nodes must have been left.
func (ob *OutputBuilder) String() string {
	if len(ob.stack) != 0 {
		panic(errors.AssertionFailedf("%d node(s) were not left", len(ob.stack)))
	}
	return ob.tp.String()
}

func (ob *OutputBuilder) current() treeprinter.Node {
	if len(ob.stack) == 0 {
		panic(errors.AssertionFailedf("field added outside of a node"))
	}
	return ob.stack[len(ob.stack)-1]
}
