// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/schema"
	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	TopLevel string      `yaml:"top_level"`
	Types    []*yamlType `yaml:"types"`
}

type yamlType struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	TypeParams  []string        `yaml:"type_params"`
	Properties  []*yamlProperty `yaml:"properties"`
	Functions   []*yamlFunction `yaml:"functions"`
}

type yamlProperty struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	ReadOnly    bool   `yaml:"read_only"`
	Description string `yaml:"description"`
}

type yamlParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlFunction struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	TypeParams  []string     `yaml:"type_params"`
	Params      []*yamlParam `yaml:"params"`
	Variadic    bool         `yaml:"variadic"`
	Returns     string       `yaml:"returns"`
	Semantics   string       `yaml:"semantics"`
	Target      string       `yaml:"target"`
}

// LoadYAML reads a single YAML manifest file.
func LoadYAML(ctx context.Context, file string) (*Manifest, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML manifest: %w", err)
	}
	return ParseYAML(ctx, src, file)
}

// ParseYAML reads a YAML manifest from memory. Unknown keys are rejected.
func ParseYAML(ctx context.Context, src []byte, filename string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)

	var root yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML manifest %s: %w", filename, err)
	}

	m := &Manifest{TopLevel: root.TopLevel, Files: []string{filename}}
	var errs []error
	for i, yt := range root.Types {
		if yt == nil || yt.Name == "" {
			errs = append(errs, fmt.Errorf("types[%d]: name is required", i))
			continue
		}
		t, typeErrs := translateYAMLType(ctx, yt)
		errs = append(errs, typeErrs...)
		m.Types = append(m.Types, t)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid YAML manifest %s: %w", filename, err)
	}

	logger.Debug("Decoded YAML manifest.", "types", len(m.Types))
	return m, nil
}

func translateYAMLType(ctx context.Context, yt *yamlType) (*schema.Type, []error) {
	b := &typeBuilder{typeName: yt.Name}
	t := &schema.Type{
		Name:        yt.Name,
		Description: yt.Description,
		TypeParams:  yt.TypeParams,
	}

	for i, yp := range yt.Properties {
		if yp == nil {
			b.fail("properties[%d]: entry is empty", i)
			continue
		}
		if yp.Type == "" {
			b.fail("property %q: type is required", yp.Name)
			continue
		}
		ref, err := schema.ParseTypeString(ctx, yp.Type, yt.TypeParams...)
		if err != nil {
			b.fail("property %q: %w", yp.Name, err)
			continue
		}
		t.Properties = append(t.Properties, &schema.Property{
			Name:        yp.Name,
			Type:        ref,
			ReadOnly:    yp.ReadOnly,
			Description: yp.Description,
		})
	}

	for i, yf := range yt.Functions {
		if yf == nil {
			b.fail("functions[%d]: entry is empty", i)
			continue
		}
		scope := append(append([]string(nil), yt.TypeParams...), yf.TypeParams...)
		fn := &schema.Function{
			Name:        yf.Name,
			Description: yf.Description,
			TypeParams:  yf.TypeParams,
			Variadic:    yf.Variadic,
			Semantics:   b.semantics(yf.Name, yf.Semantics),
			Target:      yf.Target,
			Returns:     schema.Any,
		}
		for j, yp := range yf.Params {
			if yp == nil {
				b.fail("function %q params[%d]: entry is empty", yf.Name, j)
				continue
			}
			ref, err := schema.ParseTypeString(ctx, yp.Type, scope...)
			if err != nil {
				b.fail("function %q parameter %q: %w", yf.Name, yp.Name, err)
				continue
			}
			fn.Params = append(fn.Params, schema.Param{Name: yp.Name, Type: ref})
		}
		if yf.Returns != "" {
			ref, err := schema.ParseTypeString(ctx, yf.Returns, scope...)
			if err != nil {
				b.fail("function %q return type: %w", yf.Name, err)
			}
			fn.Returns = ref
		}
		t.Functions = append(t.Functions, fn)
	}
	return t, b.errs
}
