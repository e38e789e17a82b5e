// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package reflection

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

const indentUnit = "  "

// Render writes a stable text form of obj. Two renders of equal trees are
// byte-identical.
func Render(w io.Writer, obj *Object) error {
	bw := bufio.NewWriter(w)
	writeObject(bw, obj, obj.Type, 0)
	return bw.Flush()
}

// String renders obj into a string.
func String(obj *Object) string {
	var sb strings.Builder
	_ = Render(&sb, obj)
	return sb.String()
}

// Diff compares the renders of a and b line by line. It returns "" when
// they are equal.
func Diff(a, b *Object) string {
	return cmp.Diff(lines(a), lines(b))
}

func lines(obj *Object) []string {
	if obj == nil {
		return nil
	}
	return strings.Split(strings.TrimRight(String(obj), "\n"), "\n")
}

func writeObject(w *bufio.Writer, obj *Object, header string, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	if len(obj.Properties) == 0 {
		fmt.Fprintf(w, "%s%s {}\n", indent, header)
		return
	}
	fmt.Fprintf(w, "%s%s {\n", indent, header)
	for _, p := range obj.Properties {
		writeProperty(w, p, depth+1)
	}
	fmt.Fprintf(w, "%s}\n", indent)
}

func writeProperty(w *bufio.Writer, p *Property, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch p.Kind {
	case ValueObject:
		writeObject(w, p.Object, p.Name, depth)
	case ValueSequence:
		fmt.Fprintf(w, "%s%s = [\n", indent, p.Name)
		for _, e := range p.Elements {
			writeObject(w, e, e.Type, depth+1)
		}
		fmt.Fprintf(w, "%s]\n", indent)
	default:
		fmt.Fprintf(w, "%s%s = %s\n", indent, p.Name, inline(p))
	}
}

// inline formats scalars, references and invocations on one line.
func inline(p *Property) string {
	switch p.Kind {
	case ValueScalar:
		return strings.TrimSpace(string(hclwrite.TokensForValue(p.Scalar).Bytes()))
	case ValueReference:
		return p.Reference
	case ValueInvocation:
		args := make([]string, len(p.Invocation.Args))
		for i, a := range p.Invocation.Args {
			args[i] = inline(a)
		}
		return p.Invocation.Function + "(" + strings.Join(args, ", ") + ")"
	case ValueObject:
		return p.Object.Type + " {...}"
	case ValueSequence:
		return fmt.Sprintf("[%d elements]", len(p.Elements))
	}
	return "?"
}
