package schema

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildModel() []*Type {
	return []*Type{
		{
			Name: "Project",
			Properties: []*Property{
				{Name: "name", Type: String},
				{Name: "version", Type: String},
				{Name: "server", Type: Named("Server")},
				{Name: "dependencies", Type: ListOf(Named("Dependency"))},
				{Name: "id", Type: String, ReadOnly: true},
			},
			Functions: []*Function{
				{
					Name:      "dependency",
					Params:    []Param{{Name: "coordinates", Type: String}},
					Returns:   Named("Dependency"),
					Semantics: SemanticsAddAndConfigure,
					Target:    "dependencies",
				},
				{
					Name:      "server",
					Returns:   Named("Server"),
					Semantics: SemanticsAccessAndConfigure,
					Target:    "server",
				},
			},
		},
		{
			Name:       "Server",
			Properties: []*Property{{Name: "port", Type: Number}, {Name: "host", Type: String}},
		},
		{
			Name:       "Dependency",
			Properties: []*Property{{Name: "coordinates", Type: String}, {Name: "optional", Type: Bool}},
		},
	}
}

func TestNew_ValidModel(t *testing.T) {
	s, err := New("Project", buildModel()...)
	require.NoError(t, err)

	assert.Equal(t, "Project", s.TopLevel().Name)
	assert.Equal(t, []string{"Project", "Server", "Dependency"}, s.TypeNames())

	server, ok := s.Type("Server")
	require.True(t, ok)
	port, ok := server.Property("port")
	require.True(t, ok)
	assert.Equal(t, "number", port.Type.String())
}

func TestNew_Rejects(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func([]*Type) []*Type
		topName string
		target  error
		substr  string
	}{
		{
			name:    "missing top-level type",
			mutate:  func(ts []*Type) []*Type { return ts },
			topName: "Build",
			target:  ErrOutsideSchema,
		},
		{
			name: "property type outside the closed world",
			mutate: func(ts []*Type) []*Type {
				ts[1].Properties = append(ts[1].Properties, &Property{Name: "tls", Type: Named("TLS")})
				return ts
			},
			target: ErrOutsideSchema,
			substr: `property "tls"`,
		},
		{
			name: "generic arity",
			mutate: func(ts []*Type) []*Type {
				ts[1].Properties = append(ts[1].Properties, &Property{Name: "extra", Type: Named("Dependency", String)})
				return ts
			},
			target: ErrArityMismatch,
		},
		{
			name: "duplicate property",
			mutate: func(ts []*Type) []*Type {
				ts[1].Properties = append(ts[1].Properties, &Property{Name: "port", Type: String})
				return ts
			},
			target: ErrDuplicate,
		},
		{
			name: "unbound type parameter",
			mutate: func(ts []*Type) []*Type {
				ts[1].Properties = append(ts[1].Properties, &Property{Name: "payload", Type: TypeParam("T")})
				return ts
			},
			target: ErrUnboundParam,
		},
		{
			name: "add-and-configure target is not a list of the result",
			mutate: func(ts []*Type) []*Type {
				ts[0].Functions[0].Target = "server"
				return ts
			},
			target: ErrInvalidFunction,
		},
		{
			name: "access-and-configure target missing",
			mutate: func(ts []*Type) []*Type {
				ts[0].Functions[1].Target = "client"
				return ts
			},
			target: ErrInvalidFunction,
		},
		{
			name: "duplicate type",
			mutate: func(ts []*Type) []*Type {
				return append(ts, &Type{Name: "Server"})
			},
			target: ErrDuplicate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			top := tc.topName
			if top == "" {
				top = "Project"
			}
			_, err := New(top, tc.mutate(buildModel())...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.target), "expected %v in %v", tc.target, err)
			if tc.substr != "" {
				assert.Contains(t, err.Error(), tc.substr)
			}
		})
	}
}

func TestNew_AggregatesErrors(t *testing.T) {
	types := buildModel()
	types[1].Properties = append(types[1].Properties,
		&Property{Name: "a", Type: Named("Missing1")},
		&Property{Name: "b", Type: Named("Missing2")},
	)
	_, err := New("Project", types...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing1")
	assert.Contains(t, err.Error(), "Missing2")
}

func genericModel(t *testing.T) *Schema {
	t.Helper()
	s, err := New("Root",
		&Type{
			Name: "Root",
			Properties: []*Property{
				{Name: "box", Type: Named("Box", String)},
			},
		},
		&Type{
			Name:       "Box",
			TypeParams: []string{"T"},
			Properties: []*Property{
				{Name: "content", Type: TypeParam("T")},
				{Name: "history", Type: ListOf(TypeParam("T"))},
			},
			Functions: []*Function{
				{Name: "replace", Params: []Param{{Name: "v", Type: TypeParam("T")}}, Returns: TypeParam("T")},
				{Name: "map", TypeParams: []string{"T"}, Params: []Param{{Name: "v", Type: TypeParam("T")}}, Returns: TypeParam("T")},
			},
		},
	)
	require.NoError(t, err)
	return s
}

func TestRefContext_ResolveGeneric(t *testing.T) {
	s := genericModel(t)
	refs := NewRefContext(s)

	box, err := refs.Resolve(Named("Box", Number))
	require.NoError(t, err)
	assert.Equal(t, "Box(number)", box.Name)

	content, ok := box.Property("content")
	require.True(t, ok)
	assert.True(t, content.Type.Equal(Number))

	history, _ := box.Property("history")
	assert.Equal(t, "list(number)", history.Type.String())

	replace := box.FunctionsNamed("replace")[0]
	assert.True(t, replace.Returns.Equal(Number))

	// The function's own T shadows the type's T.
	mapFn := box.FunctionsNamed("map")[0]
	assert.True(t, mapFn.Returns.Equal(TypeParam("T")))

	// The declaration itself is untouched.
	decl, _ := s.Type("Box")
	declContent, _ := decl.Property("content")
	assert.True(t, declContent.Type.Equal(TypeParam("T")))
}

func TestRefContext_Memoized(t *testing.T) {
	refs := NewRefContext(genericModel(t))

	first, err := refs.Resolve(Named("Box", String))
	require.NoError(t, err)
	second, err := refs.Resolve(Named("Box", String))
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := refs.Resolve(Named("Box", Bool))
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestRefContext_ConcurrentResolve(t *testing.T) {
	refs := NewRefContext(genericModel(t))

	const workers = 16
	results := make([]*Type, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = refs.Resolve(Named("Box", String))
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestRefContext_Errors(t *testing.T) {
	refs := NewRefContext(genericModel(t))

	_, err := refs.Resolve(Named("Crate"))
	assert.ErrorIs(t, err, ErrOutsideSchema)

	_, err = refs.Resolve(Named("Box"))
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = refs.Resolve(String)
	assert.ErrorIs(t, err, ErrNotObjectType)

	_, err = refs.Resolve(ListOf(Named("Root")))
	assert.ErrorIs(t, err, ErrNotObjectType)

	_, err = refs.Resolve(TypeParam("T"))
	assert.ErrorIs(t, err, ErrUnboundParam)
}

func TestParseTypeString(t *testing.T) {
	testCases := []struct {
		src      string
		params   []string
		expected TypeRef
		wantErr  bool
	}{
		{src: "string", expected: String},
		{src: "number", expected: Number},
		{src: "bool", expected: Bool},
		{src: "any", expected: Any},
		{src: "Server", expected: Named("Server")},
		{src: "list(Server)", expected: ListOf(Named("Server"))},
		{src: "list(list(string))", expected: ListOf(ListOf(String))},
		{src: "Box(number)", expected: Named("Box", Number)},
		{src: "Pair(T, string)", params: []string{"T"}, expected: Named("Pair", TypeParam("T"), String)},
		{src: "T", params: []string{"T"}, expected: TypeParam("T")},
		{src: "list", wantErr: true},
		{src: "list(string, number)", wantErr: true},
		{src: "string(number)", wantErr: true},
		{src: "a.b", wantErr: true},
		{src: `"string"`, wantErr: true},
		{src: "Box()", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			ref, err := ParseTypeString(context.Background(), tc.src, tc.params...)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(ref), "expected %s, got %s", tc.expected, ref)
			assert.Equal(t, tc.src, ref.String())
		})
	}
}

func TestAssignable(t *testing.T) {
	testCases := []struct {
		name     string
		target   TypeRef
		source   TypeRef
		expected bool
	}{
		{"same primitive", String, String, true},
		{"different primitive", Number, String, false},
		{"any target", Any, Named("Server"), true},
		{"any source", Named("Server"), Any, true},
		{"same object", Named("Server"), Named("Server"), true},
		{"different object", Named("Server"), Named("Client"), false},
		{"generic args differ", Named("Box", String), Named("Box", Number), false},
		{"list element", ListOf(String), ListOf(String), true},
		{"list element mismatch", ListOf(String), ListOf(Number), false},
		{"list vs scalar", ListOf(String), String, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Assignable(tc.target, tc.source))
		})
	}
}

func TestFunction_Arity(t *testing.T) {
	fixed := &Function{Name: "f", Params: []Param{{Name: "a", Type: String}, {Name: "b", Type: Number}}}
	assert.True(t, fixed.AcceptsArgs(2))
	assert.False(t, fixed.AcceptsArgs(1))
	assert.False(t, fixed.AcceptsArgs(3))

	variadic := &Function{Name: "g", Params: []Param{{Name: "first", Type: String}, {Name: "rest", Type: Number}}, Variadic: true}
	assert.True(t, variadic.AcceptsArgs(1))
	assert.True(t, variadic.AcceptsArgs(5))
	assert.False(t, variadic.AcceptsArgs(0))

	p, ok := variadic.ParamAt(4)
	require.True(t, ok)
	assert.Equal(t, "rest", p.Name)
	assert.Equal(t, "g(first string, rest number...) any", variadic.Signature())
}
