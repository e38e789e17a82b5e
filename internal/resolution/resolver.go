// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolution

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dclfront/internal/accesschain"
	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/schema"
)

// scope is the receiver that unqualified names are looked up in.
type scope struct {
	path objpath.Path
	ref  schema.TypeRef
	typ  *schema.Type
}

func (s scope) describe() string {
	if s.path.IsRoot() {
		return fmt.Sprintf("the top-level %s", s.typ.Name)
	}
	return fmt.Sprintf("%s (%s)", s.path, s.typ.Name)
}

type resolver struct {
	ctx      context.Context
	tree     *langtree.Tree
	refs     *schema.RefContext
	res      *Result
	counters map[string]int
}

// Resolve binds every node of tree to s. refs may be nil, in which case a
// fresh context is created; pass a shared one to reuse its cache across
// analyses. Cancelling ctx stops resolution between top-level statements and
// yields a partial result.
func Resolve(ctx context.Context, tree *langtree.Result, s *schema.Schema, refs *schema.RefContext) *Result {
	logger := ctxlog.FromContext(ctx)
	if refs == nil {
		refs = schema.NewRefContext(s)
	}

	top := s.TopLevel()
	r := &resolver{
		ctx:  ctx,
		tree: tree.Tree,
		refs: refs,
		res: &Result{
			Tree:     tree.Tree,
			Root:     tree.Root,
			TopLevel: top,
			Refs:     refs,
			outcomes: make([]Outcome, tree.Tree.Len()),
		},
		counters: make(map[string]int),
	}

	logger.Debug("Resolution started.", "nodes", tree.Tree.Len(), "top_level", top.Name)
	root := scope{path: objpath.Root(), ref: schema.Named(top.Name), typ: top}
	r.resolveBlock(tree.Root, root, true)
	r.fillMissing()

	logger.Debug("Resolution finished.",
		"assignments", len(r.res.Assignments),
		"additions", len(r.res.Additions),
		"failures", len(r.res.Failures()),
		"partial", r.res.Partial,
	)
	return r.res
}

func (r *resolver) resolve(id langtree.NodeID, v Value) Value {
	r.res.outcomes[id] = &Resolved{Node: id, Value: v}
	return v
}

func (r *resolver) fail(id langtree.NodeID, kind FailureKind, format string, args ...any) *Failed {
	f := &Failed{Node: id, Kind: kind}
	if format != "" {
		f.Message = fmt.Sprintf(format, args...)
	}
	r.res.outcomes[id] = f
	return f
}

// mark gives every node of the subtree that has no outcome yet a failure of
// the given kind. Only the subtree root carries the message.
func (r *resolver) mark(id langtree.NodeID, kind FailureKind, format string, args ...any) {
	if !r.tree.Valid(id) {
		return
	}
	r.tree.Walk(id, func(n langtree.NodeID, _ *langtree.Element) bool {
		if r.res.outcomes[n] != nil {
			return true
		}
		if n == id {
			r.fail(n, kind, format, args...)
		} else {
			r.fail(n, kind, "")
		}
		return true
	})
}

// fillMissing keeps the result total even for nodes not reachable from the
// root. Trees from Build and Compose never have any.
func (r *resolver) fillMissing() {
	for i, o := range r.res.outcomes {
		if o == nil {
			r.fail(langtree.NodeID(i), FailurePropagated, "node is not reachable from the document root")
		}
	}
}

func (r *resolver) resolveBlock(id langtree.NodeID, sc scope, topLevel bool) {
	if !r.tree.Valid(id) {
		return
	}
	e := r.tree.Get(id)
	if e.Kind != langtree.KindBlock {
		r.resolveStatement(id, sc)
		return
	}

	for i, stmt := range e.Statements {
		if topLevel {
			if err := r.ctx.Err(); err != nil {
				for _, rest := range e.Statements[i:] {
					r.mark(rest, FailureCancelled, "analysis cancelled: %s", err)
				}
				r.res.Partial = true
				ctxlog.FromContext(r.ctx).Debug("Resolution cancelled.", "remaining_statements", len(e.Statements)-i)
				break
			}
		}
		r.resolveStatement(stmt, sc)
	}
	r.resolve(id, &BlockValue{Path: sc.path, TypeRef: sc.ref, Object: sc.typ})
}

func (r *resolver) resolveStatement(id langtree.NodeID, sc scope) {
	e := r.tree.Get(id)
	switch e.Kind {
	case langtree.KindAssignment:
		r.resolveAssignment(id, sc)
	case langtree.KindConfiguringBlock:
		r.resolveConfiguring(id, sc)
	case langtree.KindFunctionCall, langtree.KindPropertyAccess:
		r.resolveExpr(id, sc)
	case langtree.KindBlock:
		r.resolveBlock(id, sc, false)
	case langtree.KindError:
		r.resolveRecovered(id, sc)
	case langtree.KindLiteral:
		r.fail(id, FailureUnsupportedConstruct, "a literal on its own has no effect")
	default:
		r.fail(id, FailureUnsupportedConstruct, "%s is not allowed as a statement", e.Kind)
		r.mark(id, FailurePropagated, "")
	}
}

// resolveRecovered fails a damaged statement as a syntax error but still
// resolves the complete statements the parser recovered from it. Partial
// expressions stay marked as syntax damage so they produce no diagnostics.
func (r *resolver) resolveRecovered(id langtree.NodeID, sc scope) {
	r.fail(id, FailureSyntax, "")
	for _, c := range r.tree.Get(id).Statements {
		switch r.tree.Get(c).Kind {
		case langtree.KindAssignment, langtree.KindConfiguringBlock, langtree.KindError:
			r.resolveStatement(c, sc)
		default:
			r.mark(c, FailureSyntax, "")
		}
	}
}

// resolveExpr resolves an expression and returns its value, or nil when the
// expression failed.
func (r *resolver) resolveExpr(id langtree.NodeID, sc scope) Value {
	if !r.tree.Valid(id) {
		return nil
	}
	e := r.tree.Get(id)
	switch e.Kind {
	case langtree.KindLiteral:
		return r.resolve(id, &LiteralValue{Value: e.Literal})
	case langtree.KindPropertyAccess:
		return r.resolveAccess(id, sc)
	case langtree.KindFunctionCall:
		return r.resolveCall(id, sc)
	case langtree.KindError:
		r.mark(id, FailureSyntax, "")
		return nil
	default:
		r.fail(id, FailureUnsupportedConstruct, "%s cannot be used as a value", e.Kind)
		r.mark(id, FailurePropagated, "")
		return nil
	}
}

// receiverScope resolves an optional receiver expression. When the receiver
// resolved but is not an object, reason explains why.
func (r *resolver) receiverScope(id langtree.NodeID, sc scope) (next scope, ok bool, reason string) {
	if id == langtree.NoNode {
		return sc, true, ""
	}
	switch v := r.resolveExpr(id, sc).(type) {
	case nil:
		return scope{}, false, ""
	case *ObjectValue:
		return scope{path: v.Path, ref: v.TypeRef, typ: v.Object}, true, ""
	case *InvocationValue:
		if v.Configures() {
			return scope{path: v.Path, ref: v.Result, typ: v.Object}, true, ""
		}
		return scope{}, false, fmt.Sprintf("the result of %s() is a computed %s, not an object of the model", v.Function.Name, v.Result)
	default:
		return scope{}, false, fmt.Sprintf("receiver of type %s is not an object", v.Type())
	}
}

func (r *resolver) resolveAccess(id langtree.NodeID, sc scope) Value {
	e := r.tree.Get(id)
	owner, ok, reason := r.receiverScope(e.Receiver, sc)
	if !ok {
		if reason != "" {
			r.fail(id, FailureTypeMismatch, "cannot access %q: %s", e.Name, reason)
		} else {
			r.fail(id, FailurePropagated, "")
		}
		return nil
	}
	return r.accessProperty(id, e.Name, owner)
}

func (r *resolver) accessProperty(id langtree.NodeID, name string, owner scope) Value {
	prop, ok := owner.typ.Property(name)
	if !ok {
		f := r.fail(id, FailureUnresolvedReference, "%s has no property %q", owner.describe(), name)
		f.Name = name
		f.Candidates = owner.typ.PropertyNames()
		return nil
	}
	if !prop.Type.IsObject() {
		return r.resolve(id, &PropertyValue{Owner: owner.path, OwnerType: owner.typ, Property: prop})
	}

	obj, err := r.refs.Resolve(prop.Type)
	if err != nil {
		r.fail(id, FailureOutsideSchema, "property %q: %s", name, err)
		return nil
	}
	return r.resolve(id, &ObjectValue{Path: owner.path.Child(name), TypeRef: prop.Type, Object: obj})
}

// target is the property an assignment writes to.
type target struct {
	owner scope
	prop  *schema.Property
}

func (r *resolver) resolveAssignment(id langtree.NodeID, sc scope) {
	e := r.tree.Get(id)

	var tgt *target
	if chain, ok := accesschain.Resolve(r.tree, e.Target); ok {
		tgt = r.resolveTargetChain(chain, sc)
	} else if r.tree.Valid(e.Target) {
		targetElem := r.tree.Get(e.Target)
		if targetElem.Kind == langtree.KindError {
			r.mark(e.Target, FailureSyntax, "")
		} else {
			r.fail(e.Target, FailureNotAccessChain, "the target of an assignment must be a property path such as a.b.c, not a %s", targetElem.Kind)
			r.mark(e.Target, FailurePropagated, "")
		}
	}

	// The value is resolved even when the target failed so its own
	// problems are reported in the same pass.
	value := r.resolveExpr(e.Value, sc)
	if tgt == nil || value == nil {
		r.fail(id, FailurePropagated, "")
		return
	}

	if tgt.prop.ReadOnly {
		r.fail(id, FailureReadOnly, "property %q of %s is read-only", tgt.prop.Name, tgt.owner.describe())
		return
	}
	if !schema.Assignable(tgt.prop.Type, value.Type()) {
		r.fail(id, FailureTypeMismatch, "cannot assign a value of type %s to property %q of type %s", value.Type(), tgt.prop.Name, tgt.prop.Type)
		return
	}

	r.resolve(id, &AssignmentValue{Owner: tgt.owner.path, Property: tgt.prop, Value: value})
	r.res.Assignments = append(r.res.Assignments, Assignment{
		Node:      id,
		Range:     e.Range,
		Owner:     tgt.owner.path,
		OwnerType: tgt.owner.typ,
		Property:  tgt.prop,
		Value:     value,
		ValueNode: e.Value,
	})
}

// resolveTargetChain resolves the segments of an assignment target in order.
// Every segment but the last must be an object property.
func (r *resolver) resolveTargetChain(chain *accesschain.Chain, sc scope) *target {
	owner := sc
	last := chain.Len() - 1
	propagate := func(rest []langtree.NodeID) {
		for _, n := range rest {
			r.mark(n, FailurePropagated, "")
		}
	}

	for i, node := range chain.Nodes {
		name := chain.Names[i]
		prop, ok := owner.typ.Property(name)
		if !ok {
			f := r.fail(node, FailureUnresolvedReference, "%s has no property %q", owner.describe(), name)
			f.Name = name
			f.Candidates = owner.typ.PropertyNames()
			propagate(chain.Nodes[i+1:])
			return nil
		}

		if i == last {
			r.resolve(node, &PropertyValue{Owner: owner.path, OwnerType: owner.typ, Property: prop})
			return &target{owner: owner, prop: prop}
		}

		if !prop.Type.IsObject() {
			r.resolve(node, &PropertyValue{Owner: owner.path, OwnerType: owner.typ, Property: prop})
			r.fail(chain.Nodes[i+1], FailureTypeMismatch, "%q has type %s and no properties; cannot access %q", name, prop.Type, chain.Names[i+1])
			propagate(chain.Nodes[i+2:])
			return nil
		}

		obj, err := r.refs.Resolve(prop.Type)
		if err != nil {
			r.fail(node, FailureOutsideSchema, "property %q: %s", name, err)
			propagate(chain.Nodes[i+1:])
			return nil
		}
		next := owner.path.Child(name)
		r.resolve(node, &ObjectValue{Path: next, TypeRef: prop.Type, Object: obj})
		owner = scope{path: next, ref: prop.Type, typ: obj}
	}
	return nil
}

func (r *resolver) resolveConfiguring(id langtree.NodeID, sc scope) {
	e := r.tree.Get(id)
	if !r.tree.Valid(e.Receiver) {
		r.fail(id, FailureUnsupportedConstruct, "configuring block without a receiver")
		r.mark(id, FailurePropagated, "")
		return
	}

	var (
		inner scope
		ok    bool
	)
	recv := r.tree.Get(e.Receiver)
	switch recv.Kind {
	case langtree.KindPropertyAccess, langtree.KindFunctionCall:
		switch v := r.resolveExpr(e.Receiver, sc).(type) {
		case nil:
			r.fail(id, FailurePropagated, "")
		case *ObjectValue:
			inner, ok = scope{path: v.Path, ref: v.TypeRef, typ: v.Object}, true
		case *InvocationValue:
			if v.Configures() {
				inner, ok = scope{path: v.Path, ref: v.Result, typ: v.Object}, true
			} else {
				r.fail(id, FailureUnsupportedConstruct, "%s() is a pure function; only configuring functions accept a block", v.Function.Name)
			}
		default:
			r.fail(id, FailureTypeMismatch, "a value of type %s cannot be configured with a block", v.Type())
		}
	case langtree.KindError:
		r.mark(e.Receiver, FailureSyntax, "")
		r.fail(id, FailurePropagated, "")
	default:
		r.resolveExpr(e.Receiver, sc)
		r.fail(id, FailureUnsupportedConstruct, "a %s cannot be configured with a block", recv.Kind)
	}

	if !ok {
		r.mark(e.Body, FailurePropagated, "")
		return
	}

	r.res.Configured = append(r.res.Configured, Configured{Node: id, Path: inner.path, TypeRef: inner.ref, Object: inner.typ})
	r.resolveBlock(e.Body, inner, false)
	r.resolve(id, &BlockValue{Path: inner.path, TypeRef: inner.ref, Object: inner.typ})
}
