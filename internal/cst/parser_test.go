package cst

import (
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
)

// shape renders a tree as a compact s-expression of node kinds for assertions.
func shape(n *Node) string {
	if n == nil {
		return "nil"
	}
	if len(n.Children) == 0 {
		return string(n.Kind)
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, shape(c))
	}
	return "(" + string(n.Kind) + " " + strings.Join(parts, " ") + ")"
}

func TestParse_Shapes(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "assignment",
			src:      `port = 8080`,
			expected: "(file (assign ident number))",
		},
		{
			name:     "dotted assignment target",
			src:      `server.port = 8080`,
			expected: "(file (assign (member ident ident) number))",
		},
		{
			name:     "semicolon separated block",
			src:      `server { port = 8080; port = 9090 }`,
			expected: "(file (configure ident (body (assign ident number) (assign ident number))))",
		},
		{
			name:     "call with positional and named arguments",
			src:      `dependency("lib", version = "1.0")`,
			expected: "(file (call ident (args string (named_arg ident string))))",
		},
		{
			name:     "call on receiver with block",
			src:      "project.dependency(\"lib\") {\n  scope = \"test\"\n}",
			expected: "(file (configure (call (member ident ident) (args string)) (body (assign ident string))))",
		},
		{
			name:     "negative number and parentheses",
			src:      `offset = (-3)`,
			expected: "(file (assign ident (paren number)))",
		},
		{
			name:     "arguments spanning lines",
			src:      "tags = listOf(\n  \"a\",\n  \"b\",\n)",
			expected: "(file (assign ident (call ident (args string string))))",
		},
		{
			name:     "closing parenthesis of a call on its own line",
			src:      "dependency(\n  \"g:n:1\"\n)\nname = \"x\"",
			expected: "(file (call ident (args string)) (assign ident string))",
		},
		{
			name:     "closing parenthesis of an expression on its own line",
			src:      "name = (\n  \"x\"\n)\nversion = 1",
			expected: "(file (assign ident (paren string)) (assign ident number))",
		},
		{
			name:     "comments are ignored",
			src:      "# leading\nname = \"x\" // trailing\nversion = 1",
			expected: "(file (assign ident string) (assign ident number))",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root, diags := Parse([]byte(tc.src), "test.dcl", hcl.InitialPos)
			require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())
			require.Equal(t, tc.expected, shape(root))
		})
	}
}

func TestParse_RecoversFromErrors(t *testing.T) {
	src := "a = \nb = 2\nc..d = 3\nserver {\n  port = 1\n}"
	root, diags := Parse([]byte(src), "broken.dcl", hcl.InitialPos)

	require.True(t, diags.HasErrors())
	require.Len(t, root.Children, 4)
	require.Equal(t, KindError, root.Children[0].Kind)
	require.Equal(t, KindAssign, root.Children[1].Kind)
	require.Equal(t, KindError, root.Children[2].Kind)
	require.Equal(t, KindConfigure, root.Children[3].Kind)
}

func TestParse_UnclosedBlock(t *testing.T) {
	root, diags := Parse([]byte("server {\n  port = 1\n"), "open.dcl", hcl.InitialPos)

	require.True(t, diags.HasErrors())
	require.Contains(t, diags.Error(), "Unclosed configuring block")
	require.Len(t, root.Children, 1)
	require.Equal(t, KindError, root.Children[0].Kind)
	require.Equal(t, "(file (error (configure ident (body (assign ident number)))))", shape(root))
}

func TestParse_OffsetShiftsRanges(t *testing.T) {
	root, diags := Parse([]byte("x = 1"), "fragment.dcl", hcl.Pos{Line: 5, Column: 1, Byte: 100})
	require.False(t, diags.HasErrors())

	assign := root.Child(0)
	require.Equal(t, 100, assign.Range.Start.Byte)
	require.Equal(t, 105, assign.Range.End.Byte)
	require.Equal(t, 5, assign.Range.Start.Line)
	require.Equal(t, "fragment.dcl", assign.Range.Filename)
}

func TestAdvance(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		expected hcl.Pos
	}{
		{name: "empty", src: "", expected: hcl.Pos{Line: 1, Column: 1, Byte: 0}},
		{name: "single line", src: "x = 1", expected: hcl.Pos{Line: 1, Column: 6, Byte: 5}},
		{name: "trailing newline", src: "x = 1\n", expected: hcl.Pos{Line: 2, Column: 1, Byte: 6}},
		{name: "crlf", src: "a\r\nbc", expected: hcl.Pos{Line: 2, Column: 3, Byte: 5}},
		{name: "multibyte", src: "n = \"é\"", expected: hcl.Pos{Line: 1, Column: 8, Byte: 8}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Advance(hcl.InitialPos, []byte(tc.src)))
		})
	}
}

func TestParse_StartAfterPrecedingFragment(t *testing.T) {
	first := []byte("name = \"app\"\nversion = 1\n")
	start := Advance(hcl.InitialPos, first)

	root, diags := Parse([]byte("  port = 80"), "joined.dcl", start)
	require.False(t, diags.HasErrors())

	assign := root.Child(0)
	require.Equal(t, hcl.Pos{Line: 3, Column: 3, Byte: len(first) + 2}, assign.Range.Start)
}

func TestWalk_SourceOrder(t *testing.T) {
	root, _ := Parse([]byte("a.b = c"), "walk.dcl", hcl.InitialPos)

	var kinds []Kind
	Walk(root, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	require.Equal(t, []Kind{KindFile, KindAssign, KindMember, KindIdent, KindIdent, KindIdent}, kinds)
}
