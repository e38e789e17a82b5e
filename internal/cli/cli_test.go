package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/dclfront/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelYAML = `
top_level: Project
types:
  - name: Project
    properties:
      - name: name
        type: string
      - name: server
        type: Server
  - name: Server
    properties:
      - name: host
        type: string
      - name: port
        type: number
`

type fixture struct {
	dir    string
	schema string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir()}
	f.schema = f.write(t, "model.yaml", modelYAML)
	return f
}

func (f *fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	require.Equal(t, code, exitErr.Code, exitErr.Message)
	return exitErr
}

func TestExecute_Help(t *testing.T) {
	out, _, err := execute("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "preview")
}

func TestExecute_UsageErrors(t *testing.T) {
	f := newFixture(t)
	testCases := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "unknown flag", args: []string{"check", "--no-such-flag"}, message: "unknown flag"},
		{name: "unknown command", args: []string{"compile"}, message: "unknown command"},
		{name: "missing schema", args: []string{"check", f.dir}, message: "SchemaPaths"},
		{name: "missing paths", args: []string{"check", "-s", f.schema}, message: "requires at least 1 arg"},
		{name: "bad output", args: []string{"schema", "-s", f.schema, "-o", "xml"}, message: "invalid output format"},
		{name: "schema takes no args", args: []string{"schema", "-s", f.schema, "extra"}, message: "unknown command"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(tc.args...)
			exitErr := requireExitCode(t, err, 2)
			assert.Contains(t, exitErr.Message, tc.message)
		})
	}
}

func TestCheck_Clean(t *testing.T) {
	f := newFixture(t)
	f.write(t, "main.dcl", `server { port = 8080 }`)

	_, errOut, err := execute("check", "-s", f.schema, f.dir)
	require.NoError(t, err)
	assert.Contains(t, errOut, "1 document checked, no problems found")
}

func TestCheck_Failures(t *testing.T) {
	f := newFixture(t)
	f.write(t, "main.dcl", `server { prot = 8080 }`)

	out, errOut, err := execute("check", "--schema", f.schema, f.dir)
	exitErr := requireExitCode(t, err, 1)
	assert.Equal(t, "check failed with 1 error", exitErr.Message)
	assert.Contains(t, out, `Did you mean "port"?`)
	assert.Contains(t, errOut, "1 error, 0 warnings in 1 document")
}

func TestCheck_WarnOverrides(t *testing.T) {
	f := newFixture(t)
	f.write(t, "main.dcl", `server { port = 8080; port = 9090 }`)

	out, errOut, err := execute("check", "-s", f.schema, "--warn-overrides", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, errOut, "1 warning in 1 document")
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	doc := f.write(t, "main.dcl", `
name = "app"
server { port = 8080; port = 9090 }
`)

	out, _, err := execute("preview", "-s", f.schema, doc)
	require.NoError(t, err)
	assert.Equal(t, "Project {\n  name = \"app\"\n  server {\n    port = 9090\n  }\n}\n", out)

	out, _, err = execute("preview", "-s", f.schema, "--path", "server", doc)
	require.NoError(t, err)
	assert.Equal(t, "Server {\n  port = 9090\n}\n", out)
}

func TestPreview_DocumentWithErrors(t *testing.T) {
	f := newFixture(t)
	doc := f.write(t, "main.dcl", `x.y = 1`)

	out, errOut, err := execute("preview", "-s", f.schema, doc)
	require.NoError(t, err)
	assert.Equal(t, "Project {}\n", out)
	assert.Contains(t, errOut, "document has errors")
}

func TestPreview_InvalidSelection(t *testing.T) {
	f := newFixture(t)
	doc := f.write(t, "main.dcl", `name = "app"`)

	_, _, err := execute("preview", "-s", f.schema, "--path", "server..port", doc)
	exitErr := requireExitCode(t, err, 1)
	assert.Contains(t, exitErr.Message, "invalid selection")
}

func TestSchema(t *testing.T) {
	f := newFixture(t)
	out, _, err := execute("schema", "-s", f.schema)
	require.NoError(t, err)
	assert.Equal(t, "type Project (top level)\n  name: string\n  server: Server\n\ntype Server\n  host: string\n  port: number\n", out)
}

func TestSchema_InvalidManifest(t *testing.T) {
	f := newFixture(t)
	bad := f.write(t, "bad.yaml", "top_level: Missing\n")

	_, _, err := execute("schema", "-s", bad)
	exitErr := requireExitCode(t, err, 1)
	assert.Contains(t, exitErr.Message, "startup failed")
}

func TestFormatSummary(t *testing.T) {
	testCases := []struct {
		summary app.CheckSummary
		want    string
	}{
		{summary: app.CheckSummary{Documents: 2}, want: "2 documents checked, no problems found"},
		{summary: app.CheckSummary{Documents: 1, Warnings: 2}, want: "2 warnings in 1 document"},
		{summary: app.CheckSummary{Documents: 3, Errors: 1, Warnings: 1}, want: "1 error, 1 warning in 3 documents"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Contains(t, formatSummary(&tc.summary), tc.want)
		})
	}
}
