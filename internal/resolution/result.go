// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolution

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/schema"
)

// Assignment is a successfully resolved write of a value to a property. It
// is a candidate for the assignment trace.
type Assignment struct {
	// Node is the assignment node, or the argument node for an implicit
	// assignment made by a configuring function call.
	Node      langtree.NodeID
	Range     hcl.Range
	Owner     objpath.Path
	OwnerType *schema.Type
	Property  *schema.Property
	Value     Value
	ValueNode langtree.NodeID
	Implicit  bool
}

// Addition records a new element appended to a container property by an
// add-and-configure call.
type Addition struct {
	Node      langtree.NodeID
	Container objpath.Path // owner of the container property
	Property  string
	Index     int
	Path      objpath.Path // path of the new element
	TypeRef   schema.TypeRef
	Object    *schema.Type
}

// Configured records an object opened by a configuring block.
type Configured struct {
	Node    langtree.NodeID
	Path    objpath.Path
	TypeRef schema.TypeRef
	Object  *schema.Type
}

// Result holds one Outcome per node of the tree plus the effects the
// document describes, each in source order.
type Result struct {
	Tree     *langtree.Tree
	Root     langtree.NodeID
	TopLevel *schema.Type
	// Refs is the type reference context the document was resolved with.
	// Later stages instantiate generic types through it.
	Refs *schema.RefContext

	Assignments []Assignment
	Additions   []Addition
	Configured  []Configured

	// Partial is set when resolution was cancelled before every statement
	// was visited. Skipped nodes carry FailureCancelled.
	Partial bool

	outcomes []Outcome
}

// Outcome returns the outcome of a node.
func (r *Result) Outcome(id langtree.NodeID) Outcome {
	if id < 0 || int(id) >= len(r.outcomes) {
		return nil
	}
	return r.outcomes[id]
}

// Outcomes returns every outcome, indexed by node ID.
func (r *Result) Outcomes() []Outcome {
	return append([]Outcome(nil), r.outcomes...)
}

// Len returns the number of outcomes, which equals the number of nodes.
func (r *Result) Len() int {
	return len(r.outcomes)
}

// Value returns the resolved value of a node, or nil if it failed.
func (r *Result) Value(id langtree.NodeID) Value {
	if res, ok := r.Outcome(id).(*Resolved); ok {
		return res.Value
	}
	return nil
}

// Failures returns every failed outcome in node order, including
// non-reportable ones.
func (r *Result) Failures() []*Failed {
	var out []*Failed
	for _, o := range r.outcomes {
		if f, ok := o.(*Failed); ok {
			out = append(out, f)
		}
	}
	return out
}

// HasFailures reports whether any node failed for a reportable reason.
func (r *Result) HasFailures() bool {
	for _, f := range r.Failures() {
		if f.Kind.Reportable() {
			return true
		}
	}
	return false
}
