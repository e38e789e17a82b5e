// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package reflection materializes a resolved document as a read-only tree
// of objects without constructing or mutating anything in the host model.
package reflection

import (
	"sort"

	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/resolution"
	"github.com/specialistvlad/dclfront/internal/schema"
	"github.com/specialistvlad/dclfront/internal/trace"
)

type reflector struct {
	refs      *schema.RefContext
	tr        *trace.Trace
	touched   map[string]bool
	additions map[trace.Key][]resolution.Addition
}

// Reflect builds the object tree rooted at the top-level receiver.
// Properties appear in schema declaration order. A property is present only
// if it has an effective assignment or holds objects the document configured;
// nothing is defaulted. Generic types are instantiated through the context
// res was resolved with, so its cache is shared with resolution.
func Reflect(res *resolution.Result, tr *trace.Trace) *Object {
	r := &reflector{
		refs:      res.Refs,
		tr:        tr,
		touched:   make(map[string]bool),
		additions: make(map[trace.Key][]resolution.Addition),
	}

	for _, c := range res.Configured {
		r.touch(c.Path)
	}
	for _, e := range tr.Entries() {
		r.touch(e.Owner)
	}
	for _, a := range res.Additions {
		r.touch(a.Path)
		k := trace.Key{Owner: a.Container.String(), Property: a.Property}
		r.additions[k] = append(r.additions[k], a)
	}
	for _, list := range r.additions {
		sort.Slice(list, func(i, j int) bool { return list[i].Index < list[j].Index })
	}

	top := res.TopLevel
	if top == nil {
		top = res.Refs.Schema().TopLevel()
	}
	return r.object(objpath.Root(), top)
}

// touch marks p and all its ancestors as holding configuration.
func (r *reflector) touch(p objpath.Path) {
	for {
		r.touched[p.String()] = true
		if p.IsRoot() {
			return
		}
		p = p.Parent()
	}
}

func (r *reflector) object(path objpath.Path, typ *schema.Type) *Object {
	obj := &Object{Type: typ.Name, Path: path}
	for _, prop := range typ.Properties {
		if p := r.property(path, prop); p != nil {
			obj.Properties = append(obj.Properties, p)
		}
	}
	return obj
}

func (r *reflector) property(owner objpath.Path, prop *schema.Property) *Property {
	if e, ok := r.tr.Lookup(owner, prop.Name); ok {
		p := r.value(e.Effective.Value, map[trace.Key]bool{e.Key(): true})
		p.Name = prop.Name
		p.Origin = e.Effective.Node
		return p
	}

	if added := r.additions[trace.Key{Owner: owner.String(), Property: prop.Name}]; len(added) > 0 {
		p := &Property{Name: prop.Name, Kind: ValueSequence, Origin: langtree.NoNode}
		for _, a := range added {
			p.Elements = append(p.Elements, r.object(a.Path, a.Object))
		}
		return p
	}

	if !prop.Type.IsObject() {
		return nil
	}
	child := owner.Child(prop.Name)
	if !r.touched[child.String()] {
		return nil
	}
	typ, err := r.refs.Resolve(prop.Type)
	if err != nil {
		return nil
	}
	return &Property{Name: prop.Name, Kind: ValueObject, Object: r.object(child, typ), Origin: langtree.NoNode}
}

// value reflects an assigned value. Reads of other properties follow the
// trace to the value they hold; seen guards against a = b, b = a cycles.
func (r *reflector) value(v resolution.Value, seen map[trace.Key]bool) *Property {
	switch v := v.(type) {
	case *resolution.LiteralValue:
		return &Property{Kind: ValueScalar, Scalar: v.Value}

	case *resolution.PropertyValue:
		ref := referenceTo(v.Owner.Child(v.Property.Name))
		e, ok := r.tr.Lookup(v.Owner, v.Property.Name)
		if !ok || seen[e.Key()] {
			return ref
		}
		seen[e.Key()] = true
		return r.value(e.Effective.Value, seen)

	case *resolution.ObjectValue:
		return referenceTo(v.Path)

	case *resolution.InvocationValue:
		if v.Function.Semantics != schema.SemanticsPure {
			return referenceTo(v.Path)
		}
		inv := &Invocation{Function: v.Function.Name}
		for _, a := range v.Args {
			arg := r.value(a.Value, seen)
			arg.Name = a.Param.Name
			inv.Args = append(inv.Args, arg)
		}
		return &Property{Kind: ValueInvocation, Invocation: inv}
	}
	return &Property{Kind: ValueReference, Reference: "?"}
}

func referenceTo(p objpath.Path) *Property {
	return &Property{Kind: ValueReference, Reference: p.String(), Origin: langtree.NoNode}
}
