package analysis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/diagnostics"
	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/reflection"
	"github.com/specialistvlad/dclfront/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func doc(name, src string) Document {
	return Document{Name: name, Source: []byte(testutil.Unindent(src))}
}

func TestAnalyze_Scenarios(t *testing.T) {
	a := New(testutil.SampleSchema(t))

	t.Run("repeated assignment", func(t *testing.T) {
		r := a.Analyze(context.Background(), doc("a.dcl", `server { port = 8080; port = 9090 }`))
		require.Empty(t, r.Diagnostics)
		assert.False(t, r.HasErrors())

		server, ok := r.Object.Select(objpath.Root().Child("server"))
		require.True(t, ok)
		require.Len(t, server.Properties, 1)
		assert.True(t, server.Properties[0].Scalar.RawEquals(cty.NumberIntVal(9090)))
	})

	t.Run("missing root property", func(t *testing.T) {
		r := a.Analyze(context.Background(), doc("b.dcl", `x.y = 1`))
		require.Len(t, r.Diagnostics, 1)
		assert.True(t, r.HasErrors())
		assert.Empty(t, r.Object.Properties)
	})
}

func TestAnalyze_ReusesRefContext(t *testing.T) {
	a := New(testutil.SampleSchema(t))
	first := a.Analyze(context.Background(), doc("a.dcl", `box { content = "a" }`))
	second := a.Analyze(context.Background(), doc("b.dcl", `box { content = "b" }`))

	assert.Same(t, a.refs, first.Resolution.Refs)
	assert.Same(t, a.refs, second.Resolution.Refs)
	assert.Same(t, first.Resolution.Configured[0].Object, second.Resolution.Configured[0].Object)

	box, ok := second.Object.Property("box")
	require.True(t, ok)
	assert.Equal(t, "Box(string)", box.Object.Type)
}

func TestAnalyze_OverrideWarnings(t *testing.T) {
	src := `server { port = 8080; port = 9090 }`

	quiet := New(testutil.SampleSchema(t)).Analyze(context.Background(), doc("a.dcl", src))
	assert.Empty(t, quiet.Diagnostics)

	loud := New(testutil.SampleSchema(t), WithOverrideWarnings(true)).Analyze(context.Background(), doc("a.dcl", src))
	require.Len(t, loud.Diagnostics, 1)
	assert.Equal(t, diagnostics.KindOverridden, loud.Diagnostics[0].Kind)
	assert.False(t, loud.HasErrors())
}

func TestAnalyze_LogsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	New(testutil.SampleSchema(t)).Analyze(ctx, doc("logged.dcl", `name = "app"`))

	assert.Contains(t, buf.String(), "Document analyzed.")
	assert.Contains(t, buf.String(), "document=logged.dcl")
}

func TestAnalyzeFragments(t *testing.T) {
	a := New(testutil.SampleSchema(t))
	r := a.AnalyzeFragments(context.Background(), "script.dcl",
		[]byte("name = \"app\"\n"),
		[]byte("server { port = }\n"),
		[]byte("version = \"1.0\"\n"),
	)

	require.NotEmpty(t, r.Diagnostics)
	for _, d := range r.Diagnostics {
		assert.Equal(t, diagnostics.KindSyntax, d.Kind)
		assert.Equal(t, "script.dcl", d.Range.Filename)
		assert.GreaterOrEqual(t, d.Range.Start.Byte, len("name = \"app\"\n"), "ranges are in the composed coordinate space")
	}

	name, ok := r.Object.Property("name")
	require.True(t, ok)
	assert.True(t, name.Scalar.RawEquals(cty.StringVal("app")))
	version, ok := r.Object.Property("version")
	require.True(t, ok)
	assert.True(t, version.Scalar.RawEquals(cty.StringVal("1.0")))

	assert.Equal(t, "name = \"app\"\nserver { port = }\nversion = \"1.0\"\n", string(r.Sources["script.dcl"]))
}

func TestAnalyzeFragments_PositionsContinueAcrossFragments(t *testing.T) {
	first := "name = \"app\"\n"
	second := "version = \"1\"\nnmae = \"x\"\n"

	r := New(testutil.SampleSchema(t)).AnalyzeFragments(context.Background(), "script.dcl", []byte(first), []byte(second))
	require.Len(t, r.Diagnostics, 1)

	d := r.Diagnostics[0]
	assert.Equal(t, `Did you mean "name"?`, d.Detail)
	assert.Equal(t, 3, d.Range.Start.Line)
	assert.Equal(t, 1, d.Range.Start.Column)
	assert.Equal(t, len(first)+len("version = \"1\"\n"), d.Range.Start.Byte)
	assert.Equal(t, "nmae", string(r.Sources["script.dcl"][d.Range.Start.Byte:d.Range.End.Byte]))

	var out bytes.Buffer
	require.NoError(t, diagnostics.Write(&out, r.Sources, r.Diagnostics, 0, false))
	assert.Contains(t, out.String(), "on script.dcl line 3")
}

func TestAnalyzeFragments_NoUnreachableNodes(t *testing.T) {
	r := New(testutil.SampleSchema(t)).AnalyzeFragments(context.Background(), "script.dcl",
		[]byte("name = \"app\"\n"),
		[]byte("server { port = 1 }\n"),
	)
	require.Empty(t, r.Diagnostics)
	assert.Empty(t, r.Resolution.Failures())
}

func TestAnalyze_UnclosedBlockIsStillReflected(t *testing.T) {
	r := New(testutil.SampleSchema(t)).Analyze(context.Background(),
		Document{Name: "open.dcl", Source: []byte("name = \"app\"\nserver {\n  port = 8080\n  hots = \"x\"")})

	require.Len(t, r.Diagnostics, 2)
	assert.Equal(t, diagnostics.KindSyntax, r.Diagnostics[0].Kind)
	assert.Equal(t, `Did you mean "host"?`, r.Diagnostics[1].Detail)

	server, ok := r.Object.Select(objpath.Root().Child("server"))
	require.True(t, ok)
	port, ok := server.Property("port")
	require.True(t, ok)
	assert.True(t, port.Scalar.RawEquals(cty.NumberIntVal(8080)))
}

func TestAnalyzeAll_PreservesOrder(t *testing.T) {
	a := New(testutil.SampleSchema(t), WithWorkers(3))

	var docs []Document
	for i := 0; i < 20; i++ {
		docs = append(docs, doc(fmt.Sprintf("doc%02d.dcl", i), fmt.Sprintf(`server { port = %d }`, i)))
	}

	reports, err := a.AnalyzeAll(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, reports, len(docs))

	for i, r := range reports {
		assert.Equal(t, docs[i].Name, r.Document)
		expected := reflection.String(a.Analyze(context.Background(), docs[i]).Object)
		assert.Equal(t, expected, reflection.String(r.Object))
	}
}

func TestAnalyzeAll_Cancelled(t *testing.T) {
	a := New(testutil.SampleSchema(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := a.AnalyzeAll(ctx, []Document{doc("a.dcl", `name = "a"`), doc("b.dcl", `name = "b"`)})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, reports, 2)
	for _, r := range reports {
		require.NotNil(t, r)
		assert.True(t, r.Resolution.Partial)
	}
}

func TestReadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dcl")
	require.NoError(t, os.WriteFile(path, []byte(`name = "app"`), 0o600))

	d, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, d.Name)
	assert.Equal(t, `name = "app"`, string(d.Source))

	_, err = ReadDocument(filepath.Join(t.TempDir(), "missing.dcl"))
	require.Error(t, err)
}
