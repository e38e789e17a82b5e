// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

// Semantics describes what calling a function does to the object graph.
type Semantics int

const (
	// SemanticsPure computes a value without touching the receiver.
	SemanticsPure Semantics = iota
	// SemanticsAddAndConfigure appends a new element to the receiver's list
	// property named by Function.Target and configures it.
	SemanticsAddAndConfigure
	// SemanticsAccessAndConfigure configures the existing object held by the
	// receiver's property named by Function.Target.
	SemanticsAccessAndConfigure
)

var semanticsNames = [...]string{
	SemanticsPure:               "pure",
	SemanticsAddAndConfigure:    "add_and_configure",
	SemanticsAccessAndConfigure: "access_and_configure",
}

func (s Semantics) String() string {
	if int(s) < len(semanticsNames) {
		return semanticsNames[s]
	}
	return "unknown"
}

// ParseSemantics is the inverse of Semantics.String. The empty string means pure.
func ParseSemantics(s string) (Semantics, bool) {
	if s == "" {
		return SemanticsPure, true
	}
	for i, name := range semanticsNames {
		if name == s {
			return Semantics(i), true
		}
	}
	return SemanticsPure, false
}

// Type is an object type of the host model.
type Type struct {
	Name        string
	Description string
	TypeParams  []string
	Properties  []*Property
	Functions   []*Function
}

// Property is a named, typed slot of an object type.
type Property struct {
	Name        string
	Type        TypeRef
	ReadOnly    bool
	Description string
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type TypeRef
}

// Function is a callable member of an object type. When Variadic is set the
// last parameter accepts any number of arguments, including none.
type Function struct {
	Name        string
	Description string
	TypeParams  []string
	Params      []Param
	Variadic    bool
	Returns     TypeRef
	Semantics   Semantics
	Target      string
}

// Property returns the property with the given name.
func (t *Type) Property(name string) (*Property, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// FunctionsNamed returns every overload with the given name in declaration order.
func (t *Type) FunctionsNamed(name string) []*Function {
	var out []*Function
	for _, f := range t.Functions {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// PropertyNames lists property names in declaration order.
func (t *Type) PropertyNames() []string {
	names := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		names[i] = p.Name
	}
	return names
}

// FunctionNames lists distinct function names in declaration order.
func (t *Type) FunctionNames() []string {
	seen := make(map[string]bool, len(t.Functions))
	var names []string
	for _, f := range t.Functions {
		if !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}
	return names
}

// AcceptsArgs reports whether n arguments fit the parameter list.
func (f *Function) AcceptsArgs(n int) bool {
	if f.Variadic {
		return n >= len(f.Params)-1
	}
	return n == len(f.Params)
}

// ParamAt returns the parameter that receives the i-th positional argument.
func (f *Function) ParamAt(i int) (Param, bool) {
	if i < len(f.Params) {
		return f.Params[i], true
	}
	if f.Variadic && len(f.Params) > 0 {
		return f.Params[len(f.Params)-1], true
	}
	return Param{}, false
}

// Signature renders the function the way it would be documented.
func (f *Function) Signature() string {
	s := f.Name
	if len(f.TypeParams) > 0 {
		s += "["
		for i, p := range f.TypeParams {
			if i > 0 {
				s += ", "
			}
			s += p
		}
		s += "]"
	}
	s += "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name + " " + p.Type.String()
		if f.Variadic && i == len(f.Params)-1 {
			s += "..."
		}
	}
	return s + ") " + f.Returns.String()
}
