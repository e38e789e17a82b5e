// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package accesschain flattens nested property accesses such as a.b.c into
// an ordered list of names.
package accesschain

import (
	"strings"

	"github.com/specialistvlad/dclfront/internal/langtree"
)

// Chain is a flat property path. Names and Nodes run from the chain root to
// the accessed property, so Nodes[len(Nodes)-1] is the expression itself.
type Chain struct {
	Names []string
	Nodes []langtree.NodeID
}

// Len returns the number of segments.
func (c *Chain) Len() int {
	return len(c.Names)
}

func (c *Chain) String() string {
	return strings.Join(c.Names, ".")
}

// Resolve walks the receivers of expr. It returns false as soon as any link
// is not a property access, for example when a receiver is a call or a
// literal. That is a signal to fall back to general expression resolution,
// not an error.
func Resolve(tree *langtree.Tree, expr langtree.NodeID) (*Chain, bool) {
	var (
		names []string
		nodes []langtree.NodeID
	)
	for cur := expr; cur != langtree.NoNode; {
		if !tree.Valid(cur) {
			return nil, false
		}
		e := tree.Get(cur)
		if e.Kind != langtree.KindPropertyAccess {
			return nil, false
		}
		names = append(names, e.Name)
		nodes = append(nodes, cur)
		cur = e.Receiver
	}
	if len(names) == 0 {
		return nil, false
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return &Chain{Names: names, Nodes: nodes}, true
}
