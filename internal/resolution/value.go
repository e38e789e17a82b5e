// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolution

import (
	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Value is what a resolved node denotes.
type Value interface {
	// Type is the static type of the value.
	Type() schema.TypeRef
	isValue()
}

// ObjectValue is an object of the model graph, addressed by its path from
// the top-level receiver.
type ObjectValue struct {
	Path    objpath.Path
	TypeRef schema.TypeRef
	Object  *schema.Type
}

// LiteralValue is a constant written in the document.
type LiteralValue struct {
	Value cty.Value
}

// PropertyValue refers to a non-object property of an object. It is the
// value of the target of an assignment, or of a read such as `a = b`.
type PropertyValue struct {
	Owner     objpath.Path
	OwnerType *schema.Type
	Property  *schema.Property
}

// Argument is a call argument bound to a parameter.
type Argument struct {
	Node  langtree.NodeID
	Name  string // set for named arguments
	Param schema.Param
	Value Value
}

// InvocationValue is the result of calling a function. For configuring
// functions Path and Object identify the object that was added or accessed.
type InvocationValue struct {
	Function *schema.Function
	Args     []Argument
	Result   schema.TypeRef
	Path     objpath.Path
	Object   *schema.Type
}

// ArgumentValue is the value of an argument node.
type ArgumentValue struct {
	Name  string
	Value Value
}

// AssignmentValue is the value of a successful assignment node.
type AssignmentValue struct {
	Owner    objpath.Path
	Property *schema.Property
	Value    Value
}

// BlockValue is the value of a block or configuring block: the receiver its
// statements were resolved against.
type BlockValue struct {
	Path    objpath.Path
	TypeRef schema.TypeRef
	Object  *schema.Type
}

func (v *ObjectValue) Type() schema.TypeRef     { return v.TypeRef }
func (v *LiteralValue) Type() schema.TypeRef    { return schema.Primitive(v.Value.Type()) }
func (v *PropertyValue) Type() schema.TypeRef   { return v.Property.Type }
func (v *InvocationValue) Type() schema.TypeRef { return v.Result }
func (v *ArgumentValue) Type() schema.TypeRef   { return v.Value.Type() }
func (v *AssignmentValue) Type() schema.TypeRef { return v.Property.Type }
func (v *BlockValue) Type() schema.TypeRef      { return v.TypeRef }

func (*ObjectValue) isValue()     {}
func (*LiteralValue) isValue()    {}
func (*PropertyValue) isValue()   {}
func (*InvocationValue) isValue() {}
func (*ArgumentValue) isValue()   {}
func (*AssignmentValue) isValue() {}
func (*BlockValue) isValue()      {}

// Configures reports whether the invocation opened an object that a
// configuring block can be applied to.
func (v *InvocationValue) Configures() bool {
	return v.Function.Semantics != schema.SemanticsPure && v.Object != nil
}
