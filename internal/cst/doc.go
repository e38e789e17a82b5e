// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package cst produces the generic concrete syntax tree consumed by the
// language tree builder.
//
// The tree is deliberately grammar-shaped and untyped: every node exposes only
// its kind, its children and its source span. Nothing downstream depends on
// how the tree was produced, so the grammar can be replaced without touching
// anything but the builder's node-kind mapping table.
//
// Tokens come from the HCL native-syntax scanner (hclsyntax.LexConfig). The
// statement grammar on top of it is smaller and more permissive than HCL
// itself: assignment targets may be dotted paths, blocks may be opened on any
// expression and statements may be separated by newlines or semicolons.
//
//	file      := stmt* EOF
//	stmt      := expr ( '=' expr )? block?
//	block     := '{' stmt* '}'
//	expr      := primary ( '.' IDENT call? )*
//	primary   := IDENT call? | STRING | NUMBER | '-' NUMBER | '(' expr ')'
//	call      := '(' ( arg ( ',' arg )* ','? )? ')'
//	arg       := ( IDENT '=' )? expr
//
// Syntax errors never abort the parse. The parser records a diagnostic, emits
// a KindError node covering the damaged region and resumes at the next
// statement boundary, so an incomplete document still yields a tree.
package cst
