// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package langtree builds the language-level abstract syntax tree of a
// declarative document from a generic concrete syntax tree.
//
// # Representation
//
// Nodes live in a flat arena (Tree) and reference their children by NodeID.
// There are no parent pointers: every consumer walks the tree forward from
// the root. IDs are assigned in pre-order, so comparing two IDs inside one
// tree also compares their position in a depth-first source-order walk.
//
// # Failure tolerance
//
// The builder never panics on questionable input. Any construct it cannot map
// becomes a KindError element carrying the original span, and a diagnostic is
// recorded on the Result. A syntax error keeps what the parser recovered
// inside it, so an unclosed block still contributes its statements.
// Downstream stages therefore always receive a tree,
// which is what lets an editor show semantic feedback for the parts of a
// document that are still well formed.
//
// # Composition
//
// Fragments parsed at different offsets (for example included files) can be
// merged with Compose into one tree whose nodes keep their own SourceID.
package langtree
