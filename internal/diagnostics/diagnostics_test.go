package diagnostics

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/resolution"
	"github.com/specialistvlad/dclfront/internal/testutil"
	"github.com/specialistvlad/dclfront/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) (*langtree.Result, *resolution.Result) {
	t.Helper()
	tree := testutil.Build(t, src)
	return tree, resolution.Resolve(context.Background(), tree, testutil.SampleSchema(t), nil)
}

func TestCollect_UnresolvedWithSuggestion(t *testing.T) {
	src := `server { prot = 8080 }`
	tree, res := analyze(t, src)

	diags := Collect(tree, res)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, resolution.FailureUnresolvedReference.String(), d.Kind)
	assert.Equal(t, `Did you mean "port"?`, d.Detail)
	assert.Equal(t, "prot", src[d.Range.Start.Byte:d.Range.End.Byte])
}

func TestCollect_NoSuggestionForDistantNames(t *testing.T) {
	tree, res := analyze(t, `x.y = 1`)

	diags := Collect(tree, res)
	require.Len(t, diags, 1, "the dependent failure of y is not reported")
	assert.Empty(t, diags[0].Detail)
}

func TestCollect_UnclosedBlockStillDiagnosed(t *testing.T) {
	src := "name = \"app\"\nserver {\n  port = 8080\n  hots = \"x\""
	tree, res := analyze(t, src)

	diags := Collect(tree, res)
	require.Len(t, diags, 2)
	assert.Equal(t, KindSyntax, diags[0].Kind)
	assert.Equal(t, "Unclosed configuring block", diags[0].Message)

	typo := diags[1]
	assert.Equal(t, resolution.FailureUnresolvedReference.String(), typo.Kind)
	assert.Equal(t, "hots", src[typo.Range.Start.Byte:typo.Range.End.Byte])
	assert.Equal(t, `Did you mean "host"?`, typo.Detail)
}

func TestCollect_OrderedBySourcePosition(t *testing.T) {
	tree, res := analyze(t, `
		name = 1
		id = "abc"
		server { port = "x" }
	`)

	diags := Collect(tree, res)
	require.Len(t, diags, 3)
	for i := 1; i < len(diags); i++ {
		assert.Less(t, diags[i-1].Range.Start.Byte, diags[i].Range.Start.Byte)
	}
	assert.Equal(t, resolution.FailureReadOnly.String(), diags[1].Kind)
}

func TestCollect_SyntaxErrorsReportedOnce(t *testing.T) {
	tree, res := analyze(t, `
		server { port = }
		name = "app"
	`)

	diags := Collect(tree, res)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Equal(t, KindSyntax, d.Kind, d.String())
	}
	assert.True(t, HasErrors(diags))
}

func TestOverrides(t *testing.T) {
	_, res := analyze(t, `server { port = 8080; port = 9090 }`)

	diags := Overrides(trace.Build(res))
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, KindOverridden, diags[0].Kind)
	assert.Contains(t, diags[0].Message, `"server.port"`)
	assert.False(t, HasErrors(diags))
}

func TestToHCL(t *testing.T) {
	tree, res := analyze(t, `name = 1`)
	diags := append(Collect(tree, res), Overrides(trace.Build(res))...)

	hdiags := ToHCL(diags)
	require.Len(t, hdiags, 1)
	assert.True(t, hdiags.HasErrors())
	require.NotNil(t, hdiags[0].Subject)
	assert.Equal(t, "test.dcl", hdiags[0].Subject.Filename)
}

func TestWrite(t *testing.T) {
	src := `server { prot = 8080 }`
	tree, res := analyze(t, src)

	var buf bytes.Buffer
	err := Write(&buf, map[string][]byte{"test.dcl": []byte(src)}, Collect(tree, res), 80, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Unresolved reference")
	assert.Contains(t, out, `Did you mean "port"?`)
	assert.Contains(t, out, "test.dcl")
}

func TestNameSuggestion(t *testing.T) {
	testCases := []struct {
		given      string
		candidates []string
		want       string
	}{
		{given: "prot", candidates: []string{"host", "port", "tls"}, want: "port"},
		{given: "hots", candidates: []string{"host", "port"}, want: "host"},
		{given: "version", candidates: []string{"name", "tags"}, want: ""},
		{given: "y", candidates: nil, want: ""},
		{given: "x", candidates: []string{"id", "name"}, want: ""},
		{given: "po", candidates: []string{"port"}, want: ""},
		{given: "ix", candidates: []string{"id", "name"}, want: "id"},
	}
	for _, tc := range testCases {
		t.Run(tc.given, func(t *testing.T) {
			assert.Equal(t, tc.want, nameSuggestion(tc.given, tc.candidates))
		})
	}
}
