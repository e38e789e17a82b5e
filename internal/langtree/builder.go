// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package langtree

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/dclfront/internal/cst"
	"github.com/zclconf/go-cty/cty"
)

// buildFunc maps one concrete syntax node to an element and returns its ID.
type buildFunc func(b *builder, n *cst.Node) NodeID

// nodeKindTable is the only place that knows about the concrete grammar.
// Supporting another parser means replacing this table.
var nodeKindTable map[cst.Kind]buildFunc

func init() {
	nodeKindTable = map[cst.Kind]buildFunc{
		cst.KindFile:      (*builder).buildBlock,
		cst.KindBody:      (*builder).buildBlock,
		cst.KindAssign:    (*builder).buildAssignment,
		cst.KindConfigure: (*builder).buildConfiguringBlock,
		cst.KindIdent:     (*builder).buildIdent,
		cst.KindMember:    (*builder).buildMember,
		cst.KindCall:      (*builder).buildCall,
		cst.KindString:    (*builder).buildString,
		cst.KindNumber:    (*builder).buildNumber,
		cst.KindParen:     (*builder).buildParen,
		cst.KindError:     (*builder).buildSyntaxError,
	}
}

type builder struct {
	src      []byte
	offset   int
	source   SourceID
	elements []Element
	diags    hcl.Diagnostics
}

// Build converts a concrete syntax tree into a language tree. src is the text
// the CST was parsed from and offset is the byte position of src inside the
// composed coordinate space used by the CST's ranges.
func Build(root *cst.Node, src []byte, offset int, source SourceID) *Result {
	b := &builder{src: src, offset: offset, source: source}

	var rootID NodeID
	if root == nil {
		rootID = b.reserve(KindBlock, hcl.Range{})
	} else {
		rootID = b.build(root)
		if b.elements[rootID].Kind != KindBlock {
			// A fragment consisting of a single expression still needs a block root.
			inner := rootID
			rootID = b.reserve(KindBlock, root.Range)
			b.elements[rootID].Statements = []NodeID{inner}
		}
	}

	return &Result{
		Tree:     &Tree{elements: b.elements},
		Root:     rootID,
		Failures: b.diags,
	}
}

// reserve allocates an element before its children so IDs follow pre-order.
func (b *builder) reserve(kind Kind, r hcl.Range) NodeID {
	b.elements = append(b.elements, Element{
		Kind:     kind,
		Range:    r,
		Source:   b.source,
		Receiver: NoNode,
		Target:   NoNode,
		Value:    NoNode,
		Body:     NoNode,
	})
	return NodeID(len(b.elements) - 1)
}

func (b *builder) build(n *cst.Node) NodeID {
	if n == nil {
		return b.invalid(hcl.Range{}, "Missing construct", "An expected part of this statement is missing.")
	}
	fn, ok := nodeKindTable[n.Kind]
	if !ok {
		return b.invalid(n.Range, "Unsupported construct", fmt.Sprintf("Constructs of kind %q are not part of the language.", n.Kind))
	}
	return fn(b, n)
}

func (b *builder) invalid(r hcl.Range, summary, detail string) NodeID {
	b.diags = append(b.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  r.Ptr(),
	})
	return b.reserve(KindError, r)
}

func (b *builder) text(r hcl.Range) (string, bool) {
	start, end := r.Start.Byte-b.offset, r.End.Byte-b.offset
	if start < 0 || end > len(b.src) || start > end {
		return "", false
	}
	return string(b.src[start:end]), true
}

func (b *builder) buildBlock(n *cst.Node) NodeID {
	id := b.reserve(KindBlock, n.Range)
	stmts := make([]NodeID, 0, len(n.Children))
	for _, c := range n.Children {
		stmts = append(stmts, b.build(c))
	}
	b.elements[id].Statements = stmts
	return id
}

func (b *builder) buildAssignment(n *cst.Node) NodeID {
	if len(n.Children) != 2 {
		return b.invalid(n.Range, "Malformed assignment", "An assignment needs exactly one target and one value.")
	}
	id := b.reserve(KindAssignment, n.Range)
	target := b.build(n.Children[0])
	value := b.build(n.Children[1])
	b.elements[id].Target = target
	b.elements[id].Value = value
	return id
}

func (b *builder) buildConfiguringBlock(n *cst.Node) NodeID {
	if len(n.Children) != 2 || n.Children[1].Kind != cst.KindBody {
		return b.invalid(n.Range, "Malformed configuring block", "A configuring block needs a receiver followed by a body.")
	}
	id := b.reserve(KindConfiguringBlock, n.Range)
	receiver := b.build(n.Children[0])
	body := b.build(n.Children[1])
	b.elements[id].Receiver = receiver
	b.elements[id].Body = body
	return id
}

func (b *builder) buildIdent(n *cst.Node) NodeID {
	name, ok := b.text(n.Range)
	if !ok {
		return b.invalid(n.Range, "Invalid source range", "The identifier lies outside of the provided source text.")
	}
	switch name {
	case "true":
		return b.literal(n.Range, cty.True)
	case "false":
		return b.literal(n.Range, cty.False)
	case "null":
		return b.literal(n.Range, cty.NullVal(cty.DynamicPseudoType))
	}
	id := b.reserve(KindPropertyAccess, n.Range)
	b.elements[id].Name = name
	return id
}

func (b *builder) buildMember(n *cst.Node) NodeID {
	nameNode := n.Child(1)
	if len(n.Children) != 2 || nameNode.Kind != cst.KindIdent {
		return b.invalid(n.Range, "Malformed property access", "A property access needs a receiver and a property name.")
	}
	name, ok := b.text(nameNode.Range)
	if !ok {
		return b.invalid(n.Range, "Invalid source range", "The property name lies outside of the provided source text.")
	}
	id := b.reserve(KindPropertyAccess, n.Range)
	receiver := b.build(n.Children[0])
	b.elements[id].Receiver = receiver
	b.elements[id].Name = name
	return id
}

func (b *builder) buildCall(n *cst.Node) NodeID {
	callee, args := n.Child(0), n.Child(1)
	if callee == nil || args == nil || args.Kind != cst.KindArgs {
		return b.invalid(n.Range, "Malformed function call", "A function call needs a callee and an argument list.")
	}

	var nameRange hcl.Range
	var receiverNode *cst.Node
	switch callee.Kind {
	case cst.KindIdent:
		nameRange = callee.Range
	case cst.KindMember:
		if len(callee.Children) != 2 {
			return b.invalid(n.Range, "Malformed function call", "The callee of a method call needs a receiver and a name.")
		}
		receiverNode = callee.Child(0)
		nameRange = callee.Child(1).Range
	default:
		return b.invalid(n.Range, "Unsupported construct", "Only named functions can be called; the callee must be a name or a property of a receiver.")
	}
	name, ok := b.text(nameRange)
	if !ok {
		return b.invalid(n.Range, "Invalid source range", "The function name lies outside of the provided source text.")
	}

	id := b.reserve(KindFunctionCall, n.Range)
	b.elements[id].Name = name
	if receiverNode != nil {
		receiver := b.build(receiverNode)
		b.elements[id].Receiver = receiver
	}

	argIDs := make([]NodeID, 0, len(args.Children))
	for _, a := range args.Children {
		argIDs = append(argIDs, b.buildArgument(a))
	}
	b.elements[id].Arguments = argIDs
	return id
}

func (b *builder) buildArgument(n *cst.Node) NodeID {
	id := b.reserve(KindArgument, n.Range)
	if n.Kind == cst.KindNamedArg {
		nameNode, valueNode := n.Child(0), n.Child(1)
		if nameNode != nil {
			b.elements[id].Name, _ = b.text(nameNode.Range)
		}
		value := b.build(valueNode)
		b.elements[id].Value = value
		return id
	}
	value := b.build(n)
	b.elements[id].Value = value
	return id
}

func (b *builder) buildString(n *cst.Node) NodeID {
	raw, ok := b.text(n.Range)
	if !ok {
		return b.invalid(n.Range, "Invalid source range", "The string literal lies outside of the provided source text.")
	}
	valueExpr, diags := hclsyntax.ParseExpression([]byte(raw), n.Range.Filename, n.Range.Start)
	if diags.HasErrors() {
		b.diags = append(b.diags, diags...)
		return b.reserve(KindError, n.Range)
	}
	if tmpl, isTemplate := valueExpr.(*hclsyntax.TemplateExpr); isTemplate && !tmpl.IsStringLiteral() {
		return b.invalid(n.Range, "Unsupported construct", "String templates with interpolation are not allowed; use a plain string literal.")
	}

	val, diags := valueExpr.Value(nil)
	if diags.HasErrors() {
		return b.invalid(n.Range, "Unsupported construct", "String literal could not be evaluated statically.")
	}
	return b.literal(n.Range, val)
}

func (b *builder) buildNumber(n *cst.Node) NodeID {
	raw, ok := b.text(n.Range)
	if !ok {
		return b.invalid(n.Range, "Invalid source range", "The number literal lies outside of the provided source text.")
	}
	val, err := cty.ParseNumberVal(strings.Join(strings.Fields(raw), ""))
	if err != nil {
		return b.invalid(n.Range, "Invalid number literal", fmt.Sprintf("%q is not a valid number: %s.", raw, err))
	}
	return b.literal(n.Range, val)
}

func (b *builder) buildParen(n *cst.Node) NodeID {
	if len(n.Children) != 1 {
		return b.invalid(n.Range, "Malformed expression", "Parentheses must contain exactly one expression.")
	}
	return b.build(n.Children[0])
}

// buildSyntaxError keeps the damaged span as a node and builds whatever the
// parser recovered inside it, such as the statements of an unclosed body.
// The parser already reported the problem, so no second diagnostic is
// recorded here.
func (b *builder) buildSyntaxError(n *cst.Node) NodeID {
	id := b.reserve(KindError, n.Range)
	var recovered []NodeID
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if _, known := nodeKindTable[c.Kind]; !known {
			continue
		}
		recovered = append(recovered, b.build(c))
	}
	b.elements[id].Statements = recovered
	return id
}

func (b *builder) literal(r hcl.Range, v cty.Value) NodeID {
	id := b.reserve(KindLiteral, r)
	b.elements[id].Literal = v
	return id
}
