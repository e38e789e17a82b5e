// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dclfront/internal/cst"
	"github.com/specialistvlad/dclfront/internal/langtree"
)

// Unindent removes common leading whitespace from a multi-line string,
// allowing for readable, indented source snippets in Go tests.
func Unindent(s string) string {
	lines := strings.Split(s, "\n")

	// Remove leading/trailing empty lines that are common with multi-line literals
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Build parses src (after unindenting it) and builds its language tree.
// Parse diagnostics are prepended to the builder's failures.
func Build(t *testing.T, src string) *langtree.Result {
	t.Helper()
	text := []byte(Unindent(src))
	root, diags := cst.Parse(text, "test.dcl", hcl.InitialPos)
	res := langtree.Build(root, text, 0, "test.dcl")
	res.Failures = append(diags, res.Failures...)
	return res
}

// BuildClean is Build that fails the test on any parse-level failure.
func BuildClean(t *testing.T, src string) *langtree.Result {
	t.Helper()
	res := Build(t, src)
	if res.Failures.HasErrors() {
		t.Fatalf("unexpected parse failures: %s", res.Failures.Error())
	}
	return res
}
