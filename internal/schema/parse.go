// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// This file turns HCL type expressions (e.g. `string`, `list(Server)`,
// `Box(number)`) into TypeRefs.

package schema

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// ParseTypeString parses a type written in type expression syntax. Names in
// params are treated as type parameters rather than declared types.
func ParseTypeString(ctx context.Context, src string, params ...string) (TypeRef, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<type>", hcl.InitialPos)
	if diags.HasErrors() {
		return Any, fmt.Errorf("invalid type expression %q: %s", src, diags.Error())
	}
	return ParseTypeExpr(ctx, expr, params...)
}

// ParseTypeExpr converts an HCL type expression into a TypeRef. A nil
// expression means any.
func ParseTypeExpr(ctx context.Context, expr hcl.Expression, params ...string) (TypeRef, error) {
	scope := make(map[string]bool, len(params))
	for _, p := range params {
		scope[p] = true
	}
	return parseTypeExpr(ctx, expr, scope)
}

func parseTypeExpr(ctx context.Context, expr hcl.Expression, params map[string]bool) (TypeRef, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Type expression is nil, defaulting to any.")
		return Any, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return Any, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		name := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a keyword.", "keyword", name)
		switch name {
		case "string":
			return String, nil
		case "number":
			return Number, nil
		case "bool":
			return Bool, nil
		case "any":
			return Primitive(cty.DynamicPseudoType), nil
		case "list":
			return Any, fmt.Errorf("the list type constructor requires an element type, as in list(string)")
		}
		if params[name] {
			return TypeParam(name), nil
		}
		return Named(name), nil

	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a type constructor.", "call", v.Name)
		if v.ExpandFinal {
			return Any, fmt.Errorf("type constructor %q does not accept an expanded argument list", v.Name)
		}
		if params[v.Name] || (reservedNames[v.Name] && v.Name != "list") {
			return Any, fmt.Errorf("%q does not take type arguments", v.Name)
		}

		args := make([]TypeRef, 0, len(v.Args))
		for i, a := range v.Args {
			arg, err := parseTypeExpr(ctx, a, params)
			if err != nil {
				return Any, fmt.Errorf("in argument %d of %s: %w", i+1, v.Name, err)
			}
			args = append(args, arg)
		}

		if v.Name == "list" {
			if len(args) != 1 {
				return Any, fmt.Errorf("the list type constructor requires exactly one argument, got %d", len(args))
			}
			return ListOf(args[0]), nil
		}
		if len(args) == 0 {
			return Any, fmt.Errorf("generic type %q used with an empty argument list", v.Name)
		}
		return Named(v.Name, args...), nil

	default:
		return Any, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
