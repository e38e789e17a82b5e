package trace

import (
	"context"
	"testing"

	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/resolution"
	"github.com/specialistvlad/dclfront/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func traceSource(t *testing.T, src string) (*resolution.Result, *Trace) {
	t.Helper()
	tree := testutil.BuildClean(t, src)
	res := resolution.Resolve(context.Background(), tree, testutil.SampleSchema(t), nil)
	return res, Build(res)
}

func literal(t *testing.T, a resolution.Assignment) cty.Value {
	t.Helper()
	lit, ok := a.Value.(*resolution.LiteralValue)
	require.True(t, ok, "expected a literal, got %T", a.Value)
	return lit.Value
}

func TestBuild_LastWriteWins(t *testing.T) {
	_, tr := traceSource(t, `server { port = 8080; port = 9090 }`)

	require.Equal(t, 1, tr.Len())
	e, ok := tr.Lookup(objpath.Root().Child("server"), "port")
	require.True(t, ok)

	assert.True(t, literal(t, e.Effective).RawEquals(cty.NumberIntVal(9090)))
	require.Len(t, e.Overridden(), 1)
	assert.True(t, literal(t, e.Overridden()[0]).RawEquals(cty.NumberIntVal(8080)))
	assert.Equal(t, Key{Owner: "server", Property: "port"}, e.Key())
}

func TestBuild_EffectiveIsACandidate(t *testing.T) {
	_, tr := traceSource(t, `
		name = "a"
		server.port = 1
		name = "b"
		server { port = 2 }
		name = "c"
	`)

	for _, e := range tr.Entries() {
		found := false
		for _, c := range e.Candidates {
			if c.Node == e.Effective.Node {
				found = true
			}
		}
		assert.True(t, found, "effective assignment of %v is not among its candidates", e.Key())
		for i := 1; i < len(e.Candidates); i++ {
			assert.Less(t, e.Candidates[i-1].Range.Start.Byte, e.Candidates[i].Range.Start.Byte)
		}
	}

	name, ok := tr.Lookup(objpath.Root(), "name")
	require.True(t, ok)
	assert.True(t, literal(t, name.Effective).RawEquals(cty.StringVal("c")))
	assert.Len(t, name.Overridden(), 2)

	port, ok := tr.Lookup(objpath.Root().Child("server"), "port")
	require.True(t, ok)
	assert.True(t, literal(t, port.Effective).RawEquals(cty.NumberIntVal(2)))
}

func TestBuild_FailedTargetsAreExcluded(t *testing.T) {
	_, tr := traceSource(t, `x.y = 1`)
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Entries())
}

func TestBuild_ImplicitAssignmentsCanBeOverridden(t *testing.T) {
	_, tr := traceSource(t, `
		dependency("g:a:1") {
		  coordinates = "g:a:2"
		}
	`)

	e, ok := tr.Lookup(objpath.Root().Element("dependencies", 0), "coordinates")
	require.True(t, ok)
	assert.False(t, e.Effective.Implicit)
	assert.True(t, literal(t, e.Effective).RawEquals(cty.StringVal("g:a:2")))
	require.Len(t, tr.Overridden(), 1)
	assert.True(t, tr.Overridden()[0].Implicit)
}

func TestBuild_EntriesInFirstAppearanceOrder(t *testing.T) {
	_, tr := traceSource(t, `
		version = "1"
		name = "a"
		version = "2"
	`)

	var keys []Key
	for _, e := range tr.Entries() {
		keys = append(keys, e.Key())
	}
	assert.Equal(t, []Key{{Owner: "", Property: "version"}, {Owner: "", Property: "name"}}, keys)
}

func TestBuild_Deterministic(t *testing.T) {
	src := `
		server { port = 1; host = "a" }
		server.port = 2
		dependency("a") { scope = "x" }
	`
	_, first := traceSource(t, src)
	for i := 0; i < 5; i++ {
		_, again := traceSource(t, src)
		require.Equal(t, first.Len(), again.Len())
		for j, e := range first.Entries() {
			other := again.Entries()[j]
			assert.Equal(t, e.Key(), other.Key())
			assert.Equal(t, e.Effective.Node, other.Effective.Node)
		}
	}
}
