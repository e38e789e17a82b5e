// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package reflection

import (
	"encoding/json"

	ctyjson "github.com/zclconf/go-cty/cty/json"
)

type jsonObject struct {
	Type       string          `json:"type"`
	Path       string          `json:"path"`
	Properties []*jsonProperty `json:"properties"`
}

type jsonProperty struct {
	Name      string                   `json:"name,omitempty"`
	Kind      string                   `json:"kind"`
	Value     *ctyjson.SimpleJSONValue `json:"value,omitempty"`
	Object    *jsonObject              `json:"object,omitempty"`
	Elements  []*jsonObject            `json:"elements,omitempty"`
	Function  string                   `json:"function,omitempty"`
	Args      []*jsonProperty          `json:"args,omitempty"`
	Reference string                   `json:"reference,omitempty"`
}

// MarshalJSON encodes the object tree. Scalars use cty's JSON mapping.
func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSONObject(o))
}

func toJSONObject(o *Object) *jsonObject {
	out := &jsonObject{Type: o.Type, Path: o.Path.String(), Properties: []*jsonProperty{}}
	for _, p := range o.Properties {
		out.Properties = append(out.Properties, toJSONProperty(p))
	}
	return out
}

func toJSONProperty(p *Property) *jsonProperty {
	out := &jsonProperty{Name: p.Name, Kind: p.Kind.String()}
	switch p.Kind {
	case ValueScalar:
		out.Value = &ctyjson.SimpleJSONValue{Value: p.Scalar}
	case ValueObject:
		out.Object = toJSONObject(p.Object)
	case ValueSequence:
		for _, e := range p.Elements {
			out.Elements = append(out.Elements, toJSONObject(e))
		}
	case ValueInvocation:
		out.Function = p.Invocation.Function
		for _, a := range p.Invocation.Args {
			out.Args = append(out.Args, toJSONProperty(a))
		}
	case ValueReference:
		out.Reference = p.Reference
	}
	return out
}
