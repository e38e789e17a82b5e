// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package reflection

import (
	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/zclconf/go-cty/cty"
)

// ValueKind discriminates what a reflected property holds.
type ValueKind int

const (
	// ValueScalar is a literal value.
	ValueScalar ValueKind = iota
	// ValueObject is a nested object.
	ValueObject
	// ValueSequence is an ordered list of objects added to a container.
	ValueSequence
	// ValueInvocation is the unevaluated result of a pure function call.
	ValueInvocation
	// ValueReference points at another part of the graph that has no
	// concrete value of its own.
	ValueReference
)

var valueKindNames = [...]string{
	ValueScalar:     "scalar",
	ValueObject:     "object",
	ValueSequence:   "sequence",
	ValueInvocation: "invocation",
	ValueReference:  "reference",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}

// Object is a read-only materialization of one object of the model.
type Object struct {
	Type       string
	Path       objpath.Path
	Properties []*Property
}

// Property is a reflected property. Which of the value fields is set
// depends on Kind.
type Property struct {
	Name string
	Kind ValueKind

	Scalar     cty.Value
	Object     *Object
	Elements   []*Object
	Invocation *Invocation
	Reference  string

	// Origin is the node of the effective assignment, or NoNode for
	// properties that exist only because nested objects were configured.
	Origin langtree.NodeID
}

// Invocation is a pure function call kept in symbolic form.
type Invocation struct {
	Function string
	Args     []*Property // Name holds the parameter name
}

// Property returns the reflected property with the given name.
func (o *Object) Property(name string) (*Property, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Select walks from o along path and returns the object found there.
func (o *Object) Select(path objpath.Path) (*Object, bool) {
	cur := o
	for _, seg := range path.Segments() {
		p, ok := cur.Property(seg.Name)
		if !ok {
			return nil, false
		}
		switch {
		case seg.HasIndex() && p.Kind == ValueSequence:
			if seg.Index < 0 || seg.Index >= len(p.Elements) {
				return nil, false
			}
			cur = p.Elements[seg.Index]
		case !seg.HasIndex() && p.Kind == ValueObject:
			cur = p.Object
		default:
			return nil, false
		}
	}
	return cur, true
}
