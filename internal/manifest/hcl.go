// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/schema"
)

type hclFile struct {
	TopLevel string     `hcl:"top_level,optional"`
	Types    []*hclType `hcl:"type,block"`
}

type hclType struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	TypeParams  []string       `hcl:"type_params,optional"`
	Properties  []*hclProperty `hcl:"property,block"`
	Functions   []*hclFunction `hcl:"function,block"`
}

type hclProperty struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	ReadOnly    bool           `hcl:"read_only,optional"`
	Description string         `hcl:"description,optional"`
}

type hclParam struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

type hclFunction struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	TypeParams  []string       `hcl:"type_params,optional"`
	Params      []*hclParam    `hcl:"param,block"`
	Variadic    bool           `hcl:"variadic,optional"`
	Returns     hcl.Expression `hcl:"returns,optional"`
	Semantics   string         `hcl:"semantics,optional"`
	Target      string         `hcl:"target,optional"`
}

// LoadHCL reads a single HCL manifest file.
func LoadHCL(ctx context.Context, file string) (*Manifest, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", file, diags)
	}
	return decodeHCL(ctx, file, f.Body)
}

// ParseHCL reads an HCL manifest from memory. filename is used in messages.
func ParseHCL(ctx context.Context, src []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}
	return decodeHCL(ctx, filename, f.Body)
}

func decodeHCL(ctx context.Context, file string, body hcl.Body) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx).With("file", file)

	var root hclFile
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", file, diags)
	}

	m := &Manifest{TopLevel: root.TopLevel, Files: []string{file}}
	var errs []error
	for _, ht := range root.Types {
		t, typeErrs := translateHCLType(ctx, ht)
		errs = append(errs, typeErrs...)
		if t != nil {
			m.Types = append(m.Types, t)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid HCL manifest %s: %w", file, err)
	}

	logger.Debug("Decoded HCL manifest.", "types", len(m.Types))
	return m, nil
}

func translateHCLType(ctx context.Context, ht *hclType) (*schema.Type, []error) {
	b := &typeBuilder{typeName: ht.Name}
	t := &schema.Type{
		Name:        ht.Name,
		Description: ht.Description,
		TypeParams:  ht.TypeParams,
	}

	for _, hp := range ht.Properties {
		ref, err := typeOf(ctx, hp.Type, ht.TypeParams)
		if err != nil {
			b.fail("property %q: %w", hp.Name, err)
			continue
		}
		t.Properties = append(t.Properties, &schema.Property{
			Name:        hp.Name,
			Type:        ref,
			ReadOnly:    hp.ReadOnly,
			Description: hp.Description,
		})
	}

	for _, hf := range ht.Functions {
		scope := append(append([]string(nil), ht.TypeParams...), hf.TypeParams...)
		fn := &schema.Function{
			Name:        hf.Name,
			Description: hf.Description,
			TypeParams:  hf.TypeParams,
			Variadic:    hf.Variadic,
			Semantics:   b.semantics(hf.Name, hf.Semantics),
			Target:      hf.Target,
		}
		for _, hp := range hf.Params {
			ref, err := typeOf(ctx, hp.Type, scope)
			if err != nil {
				b.fail("function %q parameter %q: %w", hf.Name, hp.Name, err)
				continue
			}
			fn.Params = append(fn.Params, schema.Param{Name: hp.Name, Type: ref})
		}
		returns, err := typeOf(ctx, hf.Returns, scope)
		if err != nil {
			b.fail("function %q return type: %w", hf.Name, err)
		}
		fn.Returns = returns
		t.Functions = append(t.Functions, fn)
	}
	return t, b.errs
}

// typeOf parses a type attribute. An absent optional attribute decodes to a
// static null expression and means any.
func typeOf(ctx context.Context, expr hcl.Expression, params []string) (schema.TypeRef, error) {
	if expr == nil {
		return schema.Any, nil
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
		return schema.Any, nil
	}
	ref, err := schema.ParseTypeExpr(ctx, expr, params...)
	if err != nil {
		return schema.Any, fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return ref, nil
}
