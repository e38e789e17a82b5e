// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"errors"
	"fmt"
)

var reservedNames = map[string]bool{
	"string": true,
	"number": true,
	"bool":   true,
	"any":    true,
	"list":   true,
}

// Schema is the validated, immutable description of a host model.
type Schema struct {
	topLevel string
	types    map[string]*Type
	order    []*Type
}

// New validates the given types and returns a Schema rooted at topLevel. All
// problems found are reported together; any of them makes the schema unusable.
func New(topLevel string, types ...*Type) (*Schema, error) {
	s := &Schema{
		topLevel: topLevel,
		types:    make(map[string]*Type, len(types)),
		order:    make([]*Type, 0, len(types)),
	}

	var errs []error
	for _, t := range types {
		if t == nil {
			continue
		}
		if t.Name == "" {
			errs = append(errs, errors.New("type with empty name"))
			continue
		}
		if reservedNames[t.Name] {
			errs = append(errs, fmt.Errorf("type %q: name is reserved for a built-in type", t.Name))
			continue
		}
		if _, exists := s.types[t.Name]; exists {
			errs = append(errs, fmt.Errorf("type %q: %w", t.Name, ErrDuplicate))
			continue
		}
		s.types[t.Name] = t
		s.order = append(s.order, t)
	}

	root, ok := s.types[topLevel]
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf("top-level type %q: %w", topLevel, ErrOutsideSchema))
	case len(root.TypeParams) > 0:
		errs = append(errs, fmt.Errorf("top-level type %q must not be generic", topLevel))
	}

	for _, t := range s.order {
		errs = append(errs, s.validateType(t)...)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return s, nil
}

// TopLevel returns the implicit receiver of a document.
func (s *Schema) TopLevel() *Type {
	return s.types[s.topLevel]
}

// Type returns the declared type with the given name.
func (s *Schema) Type(name string) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Types returns all types in declaration order.
func (s *Schema) Types() []*Type {
	return append([]*Type(nil), s.order...)
}

// TypeNames returns all type names in declaration order.
func (s *Schema) TypeNames() []string {
	names := make([]string, len(s.order))
	for i, t := range s.order {
		names[i] = t.Name
	}
	return names
}

func (s *Schema) validateType(t *Type) []error {
	var errs []error
	wrap := func(err error) error {
		return fmt.Errorf("type %q: %w", t.Name, err)
	}

	typeScope, dupErrs := scopeOf(t.TypeParams)
	for _, err := range dupErrs {
		errs = append(errs, wrap(err))
	}

	seenProps := make(map[string]bool, len(t.Properties))
	for _, p := range t.Properties {
		if seenProps[p.Name] {
			errs = append(errs, wrap(fmt.Errorf("property %q: %w", p.Name, ErrDuplicate)))
			continue
		}
		seenProps[p.Name] = true
		for _, err := range s.checkRef(p.Type, typeScope) {
			errs = append(errs, wrap(fmt.Errorf("property %q: %w", p.Name, err)))
		}
	}

	for _, f := range t.Functions {
		for _, err := range s.validateFunction(t, f, typeScope) {
			errs = append(errs, wrap(fmt.Errorf("function %q: %w", f.Name, err)))
		}
	}
	return errs
}

func (s *Schema) validateFunction(owner *Type, f *Function, typeScope map[string]bool) []error {
	fnScope, errs := scopeOf(f.TypeParams)
	for name := range typeScope {
		fnScope[name] = true
	}

	seen := make(map[string]bool, len(f.Params))
	for _, p := range f.Params {
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("parameter %q: %w", p.Name, ErrDuplicate))
			continue
		}
		seen[p.Name] = true
		for _, err := range s.checkRef(p.Type, fnScope) {
			errs = append(errs, fmt.Errorf("parameter %q: %w", p.Name, err))
		}
	}
	for _, err := range s.checkRef(f.Returns, fnScope) {
		errs = append(errs, fmt.Errorf("return type: %w", err))
	}
	if f.Variadic && len(f.Params) == 0 {
		errs = append(errs, fmt.Errorf("%w: variadic function without parameters", ErrInvalidFunction))
	}

	switch f.Semantics {
	case SemanticsPure:
		if f.Target != "" {
			errs = append(errs, fmt.Errorf("%w: pure function must not declare a target property", ErrInvalidFunction))
		}
	case SemanticsAddAndConfigure, SemanticsAccessAndConfigure:
		errs = append(errs, checkTarget(owner, f)...)
	default:
		errs = append(errs, fmt.Errorf("%w: unknown semantics %d", ErrInvalidFunction, f.Semantics))
	}
	return errs
}

// checkTarget verifies that a configuring function points at a property of
// its owner that can hold the returned object.
func checkTarget(owner *Type, f *Function) []error {
	if !f.Returns.IsObject() {
		return []error{fmt.Errorf("%w: %s function must return an object type, got %s", ErrInvalidFunction, f.Semantics, f.Returns)}
	}
	prop, ok := owner.Property(f.Target)
	if !ok {
		return []error{fmt.Errorf("%w: target property %q does not exist", ErrInvalidFunction, f.Target)}
	}

	want := f.Returns
	if f.Semantics == SemanticsAddAndConfigure {
		want = ListOf(f.Returns)
	}
	if !prop.Type.Equal(want) {
		return []error{fmt.Errorf("%w: target property %q has type %s, expected %s", ErrInvalidFunction, f.Target, prop.Type, want)}
	}
	return nil
}

func (s *Schema) checkRef(ref TypeRef, scope map[string]bool) []error {
	var errs []error
	if ref.Kind == RefList && len(ref.Args) != 1 {
		errs = append(errs, fmt.Errorf("list type needs exactly one element type: %w", ErrArityMismatch))
	}
	ref.walkNamed(func(named TypeRef) {
		decl, ok := s.types[named.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOutsideSchema, named.Name))
			return
		}
		if len(decl.TypeParams) != len(named.Args) {
			errs = append(errs, fmt.Errorf("%w: %s expects %d, got %d", ErrArityMismatch, named.Name, len(decl.TypeParams), len(named.Args)))
		}
	})
	ref.walkParams(func(name string) {
		if !scope[name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnboundParam, name))
		}
	})
	return errs
}

func scopeOf(params []string) (map[string]bool, []error) {
	scope := make(map[string]bool, len(params))
	var errs []error
	for _, p := range params {
		if scope[p] {
			errs = append(errs, fmt.Errorf("type parameter %q: %w", p, ErrDuplicate))
		}
		scope[p] = true
	}
	return scope, errs
}
