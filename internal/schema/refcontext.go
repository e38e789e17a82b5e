// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"
	"sync"
)

// RefContext resolves type references against one schema. Results are
// memoized per reference, so repeated lookups of the same generic
// instantiation return the same *Type.
type RefContext struct {
	schema *Schema
	cache  sync.Map // canonical key -> refEntry
}

type refEntry struct {
	t   *Type
	err error
}

// NewRefContext returns a context bound to s.
func NewRefContext(s *Schema) *RefContext {
	return &RefContext{schema: s}
}

// Schema returns the schema the context resolves against.
func (c *RefContext) Schema() *Schema {
	return c.schema
}

// Resolve returns the concrete object type a reference denotes. Generic
// references come back with their type arguments substituted into every
// property and function.
func (c *RefContext) Resolve(ref TypeRef) (*Type, error) {
	switch ref.Kind {
	case RefParam:
		return nil, fmt.Errorf("%w: %s", ErrUnboundParam, ref.Name)
	case RefPrimitive, RefList:
		return nil, fmt.Errorf("%w: %s", ErrNotObjectType, ref)
	}

	key := ref.key()
	if cached, ok := c.cache.Load(key); ok {
		e := cached.(refEntry)
		return e.t, e.err
	}

	t, err := c.instantiate(ref)
	// Concurrent misses compute the same value; keep whichever landed first.
	actual, _ := c.cache.LoadOrStore(key, refEntry{t: t, err: err})
	e := actual.(refEntry)
	return e.t, e.err
}

func (c *RefContext) instantiate(ref TypeRef) (*Type, error) {
	decl, ok := c.schema.types[ref.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutsideSchema, ref.Name)
	}
	if len(decl.TypeParams) != len(ref.Args) {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrArityMismatch, ref.Name, len(decl.TypeParams), len(ref.Args))
	}
	if len(decl.TypeParams) == 0 {
		return decl, nil
	}

	bindings := make(map[string]TypeRef, len(decl.TypeParams))
	for i, p := range decl.TypeParams {
		bindings[p] = ref.Args[i]
	}

	inst := &Type{
		Name:        ref.String(),
		Description: decl.Description,
		Properties:  make([]*Property, len(decl.Properties)),
		Functions:   make([]*Function, len(decl.Functions)),
	}
	for i, p := range decl.Properties {
		cp := *p
		cp.Type = p.Type.Substitute(bindings)
		inst.Properties[i] = &cp
	}
	for i, f := range decl.Functions {
		inst.Functions[i] = substituteFunction(f, bindings)
	}
	return inst, nil
}

// substituteFunction applies type bindings to a function, leaving the
// function's own type parameters alone when they shadow the owner's.
func substituteFunction(f *Function, bindings map[string]TypeRef) *Function {
	local := bindings
	if len(f.TypeParams) > 0 {
		local = make(map[string]TypeRef, len(bindings))
		for k, v := range bindings {
			local[k] = v
		}
		for _, p := range f.TypeParams {
			delete(local, p)
		}
	}

	cp := *f
	cp.Params = make([]Param, len(f.Params))
	for i, p := range f.Params {
		cp.Params[i] = Param{Name: p.Name, Type: p.Type.Substitute(local)}
	}
	cp.Returns = f.Returns.Substitute(local)
	return &cp
}
