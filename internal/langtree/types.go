// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package langtree

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// SourceID identifies a logical source unit (a file, an included fragment)
// independently of where its bytes physically live.
type SourceID string

// NodeID references an Element inside a Tree.
type NodeID int

// NoNode marks an absent optional reference, such as a missing receiver.
const NoNode NodeID = -1

// Kind discriminates Element variants.
type Kind int

const (
	KindBlock Kind = iota
	KindPropertyAccess
	KindAssignment
	KindFunctionCall
	KindLiteral
	KindConfiguringBlock
	KindArgument
	KindError
)

var kindNames = [...]string{
	KindBlock:            "block",
	KindPropertyAccess:   "property access",
	KindAssignment:       "assignment",
	KindFunctionCall:     "function call",
	KindLiteral:          "literal",
	KindConfiguringBlock: "configuring block",
	KindArgument:         "argument",
	KindError:            "invalid construct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Element is a single AST node. Which fields are meaningful depends on Kind:
//
//   - KindBlock: Statements.
//   - KindPropertyAccess: Receiver (optional), Name.
//   - KindAssignment: Target (an access expression), Value.
//   - KindFunctionCall: Receiver (optional), Name, Arguments (KindArgument nodes).
//   - KindLiteral: Literal.
//   - KindConfiguringBlock: Receiver, Body (a KindBlock).
//   - KindArgument: Name (empty for positional arguments), Value.
//   - KindError: Statements holds the pieces recovered from the damaged span.
type Element struct {
	Kind   Kind
	Range  hcl.Range
	Source SourceID

	Name       string
	Receiver   NodeID
	Target     NodeID
	Value      NodeID
	Body       NodeID
	Statements []NodeID
	Arguments  []NodeID
	Literal    cty.Value
}

// Tree is an immutable arena of Elements.
type Tree struct {
	elements []Element
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.elements)
}

// Get returns the element with the given ID. It panics on an ID that does not
// belong to the tree, which is a programming error.
func (t *Tree) Get(id NodeID) *Element {
	return &t.elements[id]
}

// Valid reports whether id references a node of the tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.elements)
}

// Children returns the direct children of a node in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	e := t.Get(id)
	var out []NodeID
	add := func(c NodeID) {
		if c != NoNode {
			out = append(out, c)
		}
	}
	switch e.Kind {
	case KindBlock, KindError:
		out = append(out, e.Statements...)
	case KindPropertyAccess:
		add(e.Receiver)
	case KindAssignment:
		add(e.Target)
		add(e.Value)
	case KindFunctionCall:
		add(e.Receiver)
		out = append(out, e.Arguments...)
	case KindConfiguringBlock:
		add(e.Receiver)
		add(e.Body)
	case KindArgument:
		add(e.Value)
	}
	return out
}

// Walk visits id and its descendants depth-first. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID, *Element) bool) {
	if !t.Valid(id) {
		return
	}
	if !fn(id, t.Get(id)) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// Result is the output of the builder: the tree, its root block and the
// parse-level failures collected while building it.
type Result struct {
	Tree     *Tree
	Root     NodeID
	Failures hcl.Diagnostics
}
