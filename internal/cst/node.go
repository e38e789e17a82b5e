// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cst

import "github.com/hashicorp/hcl/v2"

// Kind identifies the grammar production a Node was built from.
type Kind string

const (
	KindFile      Kind = "file"      // children: statements
	KindAssign    Kind = "assign"    // children: target, value
	KindConfigure Kind = "configure" // children: receiver, body
	KindBody      Kind = "body"      // children: statements
	KindIdent     Kind = "ident"     // leaf
	KindMember    Kind = "member"    // children: receiver, ident
	KindCall      Kind = "call"      // children: callee, args
	KindArgs      Kind = "args"      // children: arguments
	KindNamedArg  Kind = "named_arg" // children: ident, value
	KindString    Kind = "string"    // leaf, span covers the quotes
	KindNumber    Kind = "number"    // leaf, span may include a leading '-'
	KindParen     Kind = "paren"     // children: expr
	KindError     Kind = "error"     // damaged region, children: whatever was recovered
)

// Node is a single concrete syntax tree node.
type Node struct {
	Kind     Kind
	Range    hcl.Range
	Children []*Node
}

// Child returns the i-th child or nil when it does not exist.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
