// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// RefKind discriminates TypeRef variants.
type RefKind int

const (
	// RefPrimitive is string, number, bool or any.
	RefPrimitive RefKind = iota
	// RefNamed references a declared object type, optionally with type arguments.
	RefNamed
	// RefList is list(T).
	RefList
	// RefParam is a type parameter of the enclosing type or function.
	RefParam
)

// TypeRef is a symbolic reference to a type as it appears in the schema.
type TypeRef struct {
	Kind      RefKind
	Primitive cty.Type  // RefPrimitive only
	Name      string    // RefNamed and RefParam
	Args      []TypeRef // type arguments for RefNamed, the element for RefList
}

// Primitive returns a reference to a primitive type. cty.DynamicPseudoType
// stands for any.
func Primitive(t cty.Type) TypeRef {
	return TypeRef{Kind: RefPrimitive, Primitive: t}
}

// Named returns a reference to a declared object type.
func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: RefNamed, Name: name, Args: args}
}

// ListOf returns list(elem).
func ListOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefList, Args: []TypeRef{elem}}
}

// TypeParam returns a reference to a type parameter.
func TypeParam(name string) TypeRef {
	return TypeRef{Kind: RefParam, Name: name}
}

var (
	String = Primitive(cty.String)
	Number = Primitive(cty.Number)
	Bool   = Primitive(cty.Bool)
	Any    = Primitive(cty.DynamicPseudoType)
)

// IsObject reports whether the reference names an object type.
func (r TypeRef) IsObject() bool {
	return r.Kind == RefNamed
}

// IsAny reports whether the reference is the any primitive.
func (r TypeRef) IsAny() bool {
	return r.Kind == RefPrimitive && (r.Primitive == cty.DynamicPseudoType || r.Primitive == cty.NilType)
}

// Elem returns the element of a list reference.
func (r TypeRef) Elem() (TypeRef, bool) {
	if r.Kind != RefList || len(r.Args) != 1 {
		return TypeRef{}, false
	}
	return r.Args[0], true
}

// String renders the reference in the same syntax ParseTypeString accepts.
func (r TypeRef) String() string {
	var b strings.Builder
	r.write(&b, false)
	return b.String()
}

// key is like String but distinguishes type parameters from named types.
func (r TypeRef) key() string {
	var b strings.Builder
	r.write(&b, true)
	return b.String()
}

func (r TypeRef) write(b *strings.Builder, marked bool) {
	switch r.Kind {
	case RefPrimitive:
		if r.IsAny() {
			b.WriteString("any")
		} else {
			b.WriteString(r.Primitive.FriendlyName())
		}
	case RefParam:
		if marked {
			b.WriteByte('\'')
		}
		b.WriteString(r.Name)
	case RefList, RefNamed:
		if r.Kind == RefList {
			b.WriteString("list")
		} else {
			b.WriteString(r.Name)
			if len(r.Args) == 0 {
				return
			}
		}
		b.WriteByte('(')
		for i, a := range r.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b, marked)
		}
		b.WriteByte(')')
	}
}

// Equal reports structural equality.
func (r TypeRef) Equal(other TypeRef) bool {
	return r.key() == other.key()
}

// Substitute replaces type parameters found in bindings.
func (r TypeRef) Substitute(bindings map[string]TypeRef) TypeRef {
	if len(bindings) == 0 {
		return r
	}
	switch r.Kind {
	case RefParam:
		if b, ok := bindings[r.Name]; ok {
			return b
		}
		return r
	case RefNamed, RefList:
		if len(r.Args) == 0 {
			return r
		}
		args := make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			args[i] = a.Substitute(bindings)
		}
		return TypeRef{Kind: r.Kind, Name: r.Name, Args: args}
	}
	return r
}

// HasParams reports whether any type parameter occurs in the reference.
func (r TypeRef) HasParams() bool {
	if r.Kind == RefParam {
		return true
	}
	for _, a := range r.Args {
		if a.HasParams() {
			return true
		}
	}
	return false
}

// walkNamed calls fn for every named reference inside r, r included.
func (r TypeRef) walkNamed(fn func(TypeRef)) {
	if r.Kind == RefNamed {
		fn(r)
	}
	for _, a := range r.Args {
		a.walkNamed(fn)
	}
}

// walkParams calls fn for every type parameter inside r.
func (r TypeRef) walkParams(fn func(string)) {
	if r.Kind == RefParam {
		fn(r.Name)
	}
	for _, a := range r.Args {
		a.walkParams(fn)
	}
}

// Assignable reports whether a value of type source may be stored where
// target is expected. Primitives must match exactly; any accepts everything,
// and a source of type any (the type of null) is accepted everywhere.
func Assignable(target, source TypeRef) bool {
	if target.IsAny() || source.IsAny() {
		return true
	}
	if target.Kind != source.Kind {
		return false
	}
	switch target.Kind {
	case RefPrimitive:
		return target.Primitive.Equals(source.Primitive)
	case RefList:
		te, _ := target.Elem()
		se, _ := source.Elem()
		return Assignable(te, se)
	default:
		return target.Equal(source)
	}
}
