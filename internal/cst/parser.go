// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cst

import (
	"fmt"

	"github.com/apparentlymart/go-textseg/v15/textseg"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Parse tokenizes src and builds a concrete syntax tree rooted at a KindFile
// node. start is the position of src's first byte inside a larger composed
// source (hcl.InitialPos for a standalone document); every range in the
// result is expressed in that shared coordinate space.
//
// The returned tree is never nil, even when diagnostics contain errors.
func Parse(src []byte, filename string, start hcl.Pos) (*Node, hcl.Diagnostics) {
	raw, lexDiags := hclsyntax.LexConfig(src, filename, start)

	toks, diags := filterTokens(raw, lexDiags)
	p := &parser{toks: toks, diags: diags}

	root := &Node{Kind: KindFile}
	root.Children = p.parseStatements(hclsyntax.TokenEOF)

	eof := p.toks[len(p.toks)-1]
	root.Range = hcl.Range{Filename: filename, Start: start, End: eof.Range.End}
	return root, p.diags
}

// Advance returns the position just past src when src starts at start.
// Columns count grapheme clusters, the same way the HCL scanner does.
func Advance(start hcl.Pos, src []byte) hcl.Pos {
	pos := start
	for len(src) > 0 {
		adv, seq, _ := textseg.ScanGraphemeClusters(src, true)
		if adv == 0 {
			break
		}
		pos.Byte += adv
		if len(seq) > 0 && (seq[0] == '\n' || (len(seq) > 1 && seq[0] == '\r' && seq[1] == '\n')) {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		src = src[adv:]
	}
	return pos
}

// filterTokens removes the tokens the statement grammar does not care about.
// Comments are dropped, except that a line comment's absorbed newline becomes
// a real newline token. Semicolons are statement separators here, so the
// scanner's complaints about them (and about tab indentation) are discarded.
func filterTokens(raw hclsyntax.Tokens, lexDiags hcl.Diagnostics) ([]hclsyntax.Token, hcl.Diagnostics) {
	tolerated := make(map[hcl.Pos]bool)
	out := make([]hclsyntax.Token, 0, len(raw))

	for _, tok := range raw {
		switch tok.Type {
		case hclsyntax.TokenComment:
			if n := len(tok.Bytes); n > 0 && tok.Bytes[n-1] == '\n' {
				out = append(out, hclsyntax.Token{Type: hclsyntax.TokenNewline, Bytes: tok.Bytes[n-1:], Range: tok.Range})
			}
			continue
		case hclsyntax.TokenTabs:
			tolerated[tok.Range.Start] = true
			continue
		case hclsyntax.TokenSemicolon:
			tolerated[tok.Range.Start] = true
		}
		out = append(out, tok)
	}

	if len(out) == 0 || out[len(out)-1].Type != hclsyntax.TokenEOF {
		var r hcl.Range
		if len(raw) > 0 {
			r = raw[len(raw)-1].Range
		}
		out = append(out, hclsyntax.Token{Type: hclsyntax.TokenEOF, Range: r})
	}

	var diags hcl.Diagnostics
	for _, d := range lexDiags {
		if d.Subject != nil && tolerated[d.Subject.Start] {
			continue
		}
		diags = append(diags, d)
	}
	return out, diags
}

type parser struct {
	toks       []hclsyntax.Token
	pos        int
	parenDepth int
	diags      hcl.Diagnostics
}

// peekAt returns the token n positions ahead. Newlines are insignificant
// inside parentheses and are skipped there.
func (p *parser) peekAt(n int) hclsyntax.Token {
	i := p.pos
	for {
		for p.parenDepth > 0 && i < len(p.toks)-1 && p.toks[i].Type == hclsyntax.TokenNewline {
			i++
		}
		if n == 0 || i >= len(p.toks)-1 {
			return p.toks[i]
		}
		i++
		n--
	}
}

func (p *parser) peek() hclsyntax.Token {
	return p.peekAt(0)
}

func (p *parser) next() hclsyntax.Token {
	for p.parenDepth > 0 && p.pos < len(p.toks)-1 && p.toks[p.pos].Type == hclsyntax.TokenNewline {
		p.pos++
	}
	tok := p.toks[p.pos]
	if tok.Type != hclsyntax.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(r hcl.Range, summary, format string, args ...any) {
	p.diags = append(p.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  r.Ptr(),
	})
}

func isSeparator(t hclsyntax.TokenType) bool {
	return t == hclsyntax.TokenNewline || t == hclsyntax.TokenSemicolon
}

// parseStatements parses statements until the end token (or EOF) is the next
// token. The end token itself is not consumed.
func (p *parser) parseStatements(end hclsyntax.TokenType) []*Node {
	var stmts []*Node
	for {
		for isSeparator(p.peek().Type) {
			p.next()
		}
		tok := p.peek()
		if tok.Type == end || tok.Type == hclsyntax.TokenEOF {
			return stmts
		}

		stmt, ok := p.parseStatement()
		if !ok {
			stmt = p.recover(stmt, end)
		} else if t := p.peek().Type; !isSeparator(t) && t != end && t != hclsyntax.TokenEOF {
			p.errorf(p.peek().Range, "Missing statement separator", "A statement must end with a newline or ';' before the next one starts.")
			stmt = p.recover(stmt, end)
		}
		stmts = append(stmts, stmt)
	}
}

// recover skips tokens up to the next statement boundary and wraps whatever
// was parsed so far in a KindError node covering the skipped region.
func (p *parser) recover(partial *Node, end hclsyntax.TokenType) *Node {
	p.parenDepth = 0
	errNode := &Node{Kind: KindError}
	if partial != nil {
		errNode.Range = partial.Range
		errNode.Children = []*Node{partial}
	} else {
		errNode.Range = p.peek().Range
	}

	depth := 0
	for {
		tok := p.peek()
		switch {
		case tok.Type == hclsyntax.TokenEOF:
			return errNode
		case depth == 0 && (isSeparator(tok.Type) || tok.Type == end):
			return errNode
		case tok.Type == hclsyntax.TokenOBrace:
			depth++
		case tok.Type == hclsyntax.TokenCBrace:
			if depth == 0 {
				// A stray closing brace at this level is part of the damage.
				p.next()
				errNode.Range = hcl.RangeBetween(errNode.Range, tok.Range)
				return errNode
			}
			depth--
		}
		p.next()
		errNode.Range = hcl.RangeBetween(errNode.Range, tok.Range)
	}
}

func (p *parser) parseStatement() (*Node, bool) {
	target, ok := p.parseExpr()
	if !ok {
		return target, false
	}

	switch p.peek().Type {
	case hclsyntax.TokenEqual:
		p.next()
		value, ok := p.parseExpr()
		n := &Node{Kind: KindAssign, Children: []*Node{target, value}}
		n.Range = target.Range
		if value != nil {
			n.Range = hcl.RangeBetween(target.Range, value.Range)
		}
		if !ok {
			return n, false
		}
		if p.peek().Type == hclsyntax.TokenOBrace {
			p.errorf(p.peek().Range, "Unexpected block", "A configuring block cannot follow an assignment.")
			return n, false
		}
		return n, true

	case hclsyntax.TokenOBrace:
		body, ok := p.parseBody()
		n := &Node{Kind: KindConfigure, Range: hcl.RangeBetween(target.Range, body.Range), Children: []*Node{target, body}}
		return n, ok
	}
	return target, true
}

func (p *parser) parseBody() (*Node, bool) {
	open := p.next()
	body := &Node{Kind: KindBody, Range: open.Range}
	body.Children = p.parseStatements(hclsyntax.TokenCBrace)

	closing := p.peek()
	if closing.Type != hclsyntax.TokenCBrace {
		p.errorf(open.Range, "Unclosed configuring block", "There is no closing brace for this block before the end of the file.")
		body.Range = hcl.RangeBetween(open.Range, closing.Range)
		return body, false
	}
	p.next()
	body.Range = hcl.RangeBetween(open.Range, closing.Range)
	return body, true
}

func (p *parser) parseExpr() (*Node, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return expr, false
	}

	for p.peek().Type == hclsyntax.TokenDot {
		dot := p.next()
		nameTok := p.peek()
		if nameTok.Type != hclsyntax.TokenIdent {
			p.errorf(nameTok.Range, "Invalid property access", "A property name is required after '.'.")
			return &Node{Kind: KindError, Range: hcl.RangeBetween(expr.Range, dot.Range), Children: []*Node{expr}}, false
		}
		p.next()
		ident := &Node{Kind: KindIdent, Range: nameTok.Range}
		expr = &Node{Kind: KindMember, Range: hcl.RangeBetween(expr.Range, nameTok.Range), Children: []*Node{expr, ident}}

		if p.peek().Type == hclsyntax.TokenOParen {
			expr, ok = p.parseCall(expr)
			if !ok {
				return expr, false
			}
		}
	}
	return expr, true
}

func (p *parser) parsePrimary() (*Node, bool) {
	tok := p.peek()
	switch tok.Type {
	case hclsyntax.TokenIdent:
		p.next()
		ident := &Node{Kind: KindIdent, Range: tok.Range}
		if p.peek().Type == hclsyntax.TokenOParen {
			return p.parseCall(ident)
		}
		return ident, true

	case hclsyntax.TokenNumberLit:
		p.next()
		return &Node{Kind: KindNumber, Range: tok.Range}, true

	case hclsyntax.TokenMinus:
		p.next()
		num := p.peek()
		if num.Type != hclsyntax.TokenNumberLit {
			p.errorf(tok.Range, "Invalid expression", "A '-' sign is only allowed in front of a number.")
			return &Node{Kind: KindError, Range: tok.Range}, false
		}
		p.next()
		return &Node{Kind: KindNumber, Range: hcl.RangeBetween(tok.Range, num.Range)}, true

	case hclsyntax.TokenOQuote, hclsyntax.TokenOHeredoc:
		return p.parseString()

	case hclsyntax.TokenOParen:
		p.next()
		p.parenDepth++
		inner, ok := p.parseExpr()
		if !ok {
			p.parenDepth--
			return p.errorNode(tok.Range, inner), false
		}
		closing := p.peek()
		if closing.Type != hclsyntax.TokenCParen {
			p.parenDepth--
			p.errorf(closing.Range, "Missing closing parenthesis", "Expected ')' to close the expression opened here.")
			return p.errorNode(tok.Range, inner), false
		}
		// The depth drops only after ')' is consumed, so newlines in front of it are still skipped.
		p.next()
		p.parenDepth--
		return &Node{Kind: KindParen, Range: hcl.RangeBetween(tok.Range, closing.Range), Children: []*Node{inner}}, true
	}

	p.errorf(tok.Range, "Invalid expression", "Expected a name, a literal or a call, got %s.", describe(tok))
	if tok.Type != hclsyntax.TokenEOF && !isSeparator(tok.Type) && tok.Type != hclsyntax.TokenCBrace {
		p.next()
	}
	return &Node{Kind: KindError, Range: tok.Range}, false
}

func (p *parser) parseString() (*Node, bool) {
	open := p.next()
	closeType := hclsyntax.TokenCQuote
	if open.Type == hclsyntax.TokenOHeredoc {
		closeType = hclsyntax.TokenCHeredoc
	}

	r := open.Range
	for {
		tok := p.peek()
		switch tok.Type {
		case closeType:
			p.next()
			return &Node{Kind: KindString, Range: hcl.RangeBetween(r, tok.Range)}, true
		case hclsyntax.TokenEOF, hclsyntax.TokenQuotedNewline:
			p.errorf(open.Range, "Unterminated string", "The string literal opened here is never closed.")
			return &Node{Kind: KindError, Range: r}, false
		}
		p.next()
		r = hcl.RangeBetween(r, tok.Range)
	}
}

func (p *parser) parseCall(callee *Node) (*Node, bool) {
	open := p.next()
	p.parenDepth++
	args := &Node{Kind: KindArgs, Range: open.Range}

	fail := func(inner *Node) (*Node, bool) {
		p.parenDepth--
		if inner != nil {
			args.Children = append(args.Children, inner)
		}
		call := &Node{Kind: KindCall, Range: hcl.RangeBetween(callee.Range, args.Range), Children: []*Node{callee, args}}
		return &Node{Kind: KindError, Range: call.Range, Children: []*Node{call}}, false
	}

	for p.peek().Type != hclsyntax.TokenCParen {
		var arg *Node
		if p.peek().Type == hclsyntax.TokenIdent && p.peekAt(1).Type == hclsyntax.TokenEqual {
			nameTok := p.next()
			p.next()
			value, ok := p.parseExpr()
			arg = &Node{Kind: KindNamedArg, Range: nameTok.Range, Children: []*Node{{Kind: KindIdent, Range: nameTok.Range}, value}}
			if value != nil {
				arg.Range = hcl.RangeBetween(nameTok.Range, value.Range)
			}
			if !ok {
				return fail(arg)
			}
		} else {
			value, ok := p.parseExpr()
			if !ok {
				return fail(value)
			}
			arg = value
		}
		args.Children = append(args.Children, arg)
		args.Range = hcl.RangeBetween(args.Range, arg.Range)

		if p.peek().Type == hclsyntax.TokenComma {
			p.next()
			continue
		}
		if p.peek().Type != hclsyntax.TokenCParen {
			p.errorf(p.peek().Range, "Missing argument separator", "Arguments must be separated by ','.")
			return fail(nil)
		}
	}

	closing := p.next()
	p.parenDepth--
	args.Range = hcl.RangeBetween(open.Range, closing.Range)
	return &Node{Kind: KindCall, Range: hcl.RangeBetween(callee.Range, closing.Range), Children: []*Node{callee, args}}, true
}

func (p *parser) errorNode(r hcl.Range, inner *Node) *Node {
	n := &Node{Kind: KindError, Range: r}
	if inner != nil {
		n.Range = hcl.RangeBetween(r, inner.Range)
		n.Children = []*Node{inner}
	}
	return n
}

func describe(tok hclsyntax.Token) string {
	switch tok.Type {
	case hclsyntax.TokenEOF:
		return "end of file"
	case hclsyntax.TokenNewline:
		return "newline"
	}
	return fmt.Sprintf("%q", string(tok.Bytes))
}
