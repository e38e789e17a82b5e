// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolution

import (
	"strings"

	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/schema"
)

// match is one overload that accepts the call's arguments.
type match struct {
	fn     *schema.Function
	args   []Argument
	result schema.TypeRef
}

func (r *resolver) resolveCall(id langtree.NodeID, sc scope) Value {
	e := r.tree.Get(id)
	owner, ownerOK, reason := r.receiverScope(e.Receiver, sc)
	args, argsOK := r.resolveArguments(e, sc)

	switch {
	case !ownerOK && reason != "":
		r.fail(id, FailureTypeMismatch, "cannot call %s(): %s", e.Name, reason)
		return nil
	case !ownerOK || !argsOK:
		r.fail(id, FailurePropagated, "")
		return nil
	}

	if dup := duplicateNamed(args); dup != "" {
		f := r.fail(id, FailureDuplicateKey, "argument %q is passed more than once to %s()", dup, e.Name)
		f.Name = dup
		return nil
	}

	overloads := owner.typ.FunctionsNamed(e.Name)
	if len(overloads) == 0 {
		f := r.fail(id, FailureUnresolvedReference, "%s has no function %q", owner.describe(), e.Name)
		f.Name = e.Name
		f.Candidates = owner.typ.FunctionNames()
		return nil
	}

	var matches []match
	for _, fn := range overloads {
		if m, ok := bindCall(fn, args); ok {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		r.fail(id, FailureUnresolvedReference, "no overload of %s() accepts (%s); available: %s", e.Name, describeArgs(args), signatures(overloads))
		return nil
	case 1:
	default:
		fns := make([]*schema.Function, len(matches))
		for i, m := range matches {
			fns[i] = m.fn
		}
		r.fail(id, FailureAmbiguousOverload, "call to %s(%s) matches %d overloads: %s", e.Name, describeArgs(args), len(matches), signatures(fns))
		return nil
	}

	m := matches[0]
	inv := &InvocationValue{Function: m.fn, Args: m.args, Result: m.result}
	if m.fn.Semantics == schema.SemanticsPure {
		return r.resolve(id, inv)
	}

	obj, err := r.refs.Resolve(m.result)
	if err != nil {
		r.fail(id, FailureOutsideSchema, "%s() returns %s: %s", e.Name, m.result, err)
		return nil
	}
	inv.Object = obj

	switch m.fn.Semantics {
	case schema.SemanticsAddAndConfigure:
		container := owner.path.Child(m.fn.Target).String()
		index := r.counters[container]
		r.counters[container]++
		inv.Path = owner.path.Element(m.fn.Target, index)
		r.res.Additions = append(r.res.Additions, Addition{
			Node:      id,
			Container: owner.path,
			Property:  m.fn.Target,
			Index:     index,
			Path:      inv.Path,
			TypeRef:   m.result,
			Object:    obj,
		})
	case schema.SemanticsAccessAndConfigure:
		inv.Path = owner.path.Child(m.fn.Target)
	}
	r.bindArgumentsToProperties(inv)
	return r.resolve(id, inv)
}

func (r *resolver) resolveArguments(call *langtree.Element, sc scope) ([]Argument, bool) {
	args := make([]Argument, 0, len(call.Arguments))
	ok := true
	for _, argID := range call.Arguments {
		arg := r.tree.Get(argID)
		if arg.Kind != langtree.KindArgument {
			r.fail(argID, FailureUnsupportedConstruct, "malformed argument")
			r.mark(argID, FailurePropagated, "")
			ok = false
			continue
		}
		v := r.resolveExpr(arg.Value, sc)
		if v == nil {
			r.fail(argID, FailurePropagated, "")
			ok = false
			continue
		}
		r.resolve(argID, &ArgumentValue{Name: arg.Name, Value: v})
		args = append(args, Argument{Node: argID, Name: arg.Name, Value: v})
	}
	return args, ok
}

// bindArgumentsToProperties records arguments of a configuring call as
// implicit assignments to same-named properties of the configured object,
// the way dependency("lib") sets the new dependency's coordinates.
func (r *resolver) bindArgumentsToProperties(inv *InvocationValue) {
	fn := inv.Function
	for _, a := range inv.Args {
		if fn.Variadic && len(fn.Params) > 0 && a.Param.Name == fn.Params[len(fn.Params)-1].Name {
			continue
		}
		prop, ok := inv.Object.Property(a.Param.Name)
		if !ok || prop.ReadOnly || !schema.Assignable(prop.Type, a.Value.Type()) {
			continue
		}
		arg := r.tree.Get(a.Node)
		r.res.Assignments = append(r.res.Assignments, Assignment{
			Node:      a.Node,
			Range:     arg.Range,
			Owner:     inv.Path,
			OwnerType: inv.Object,
			Property:  prop,
			Value:     a.Value,
			ValueNode: arg.Value,
			Implicit:  true,
		})
	}
}

// bindCall checks whether fn accepts args. Positional arguments come first
// and fill parameters in order; named arguments fill the remaining ones.
func bindCall(fn *schema.Function, args []Argument) (match, bool) {
	typeParams := make(map[string]bool, len(fn.TypeParams))
	for _, p := range fn.TypeParams {
		typeParams[p] = true
	}
	bindings := make(map[string]schema.TypeRef)
	filled := make([]bool, len(fn.Params))
	bound := make([]Argument, 0, len(args))

	positional, sawNamed := 0, false
	for _, a := range args {
		var idx int
		if a.Name == "" {
			if sawNamed {
				return match{}, false
			}
			if _, ok := fn.ParamAt(positional); !ok {
				return match{}, false
			}
			idx = min(positional, len(fn.Params)-1)
			positional++
		} else {
			sawNamed = true
			idx = paramIndex(fn, a.Name)
			if idx < 0 || filled[idx] {
				return match{}, false
			}
		}

		p := fn.Params[idx]
		filled[idx] = true
		if !unify(p.Type, a.Value.Type(), typeParams, bindings) {
			return match{}, false
		}
		a.Param = p
		bound = append(bound, a)
	}

	for i := range fn.Params {
		if !filled[i] && !(fn.Variadic && i == len(fn.Params)-1) {
			return match{}, false
		}
	}

	for p := range typeParams {
		if _, ok := bindings[p]; !ok {
			bindings[p] = schema.Any
		}
	}
	return match{fn: fn, args: bound, result: fn.Returns.Substitute(bindings)}, true
}

func paramIndex(fn *schema.Function, name string) int {
	for i, p := range fn.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// unify checks arg against param, inferring the function's type parameters
// along the way.
func unify(param, arg schema.TypeRef, typeParams map[string]bool, bindings map[string]schema.TypeRef) bool {
	switch {
	case param.Kind == schema.RefParam && typeParams[param.Name]:
		bound, ok := bindings[param.Name]
		if !ok || (bound.IsAny() && !arg.IsAny()) {
			bindings[param.Name] = arg
			return true
		}
		return schema.Assignable(bound, arg)

	case param.Kind == schema.RefList:
		if arg.IsAny() {
			return true
		}
		pe, _ := param.Elem()
		ae, ok := arg.Elem()
		return ok && unify(pe, ae, typeParams, bindings)

	case param.Kind == schema.RefNamed && param.HasParams():
		if arg.IsAny() {
			return true
		}
		if arg.Kind != schema.RefNamed || arg.Name != param.Name || len(arg.Args) != len(param.Args) {
			return false
		}
		for i := range param.Args {
			if !unify(param.Args[i], arg.Args[i], typeParams, bindings) {
				return false
			}
		}
		return true

	default:
		return schema.Assignable(param, arg)
	}
}

func duplicateNamed(args []Argument) string {
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		if a.Name == "" {
			continue
		}
		if seen[a.Name] {
			return a.Name
		}
		seen[a.Name] = true
	}
	return ""
}

func describeArgs(args []Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Name != "" {
			parts[i] = a.Name + " = " + a.Value.Type().String()
		} else {
			parts[i] = a.Value.Type().String()
		}
	}
	return strings.Join(parts, ", ")
}

func signatures(fns []*schema.Function) string {
	parts := make([]string, len(fns))
	for i, f := range fns {
		parts[i] = f.Signature()
	}
	return strings.Join(parts, "; ")
}
