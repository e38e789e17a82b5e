// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package resolution binds a language tree to a schema.
//
// Resolve walks the tree top-down starting from the schema's top-level type
// and records exactly one Outcome per node: either a Resolved value or a
// Failed marker carrying a FailureKind. Failures are data. A bad reference in
// one statement never stops resolution of its siblings, and nodes that
// cannot be resolved because something they depend on failed receive a
// FailurePropagated marker so the original problem is reported only once.
//
// Besides per-node outcomes, the Result records the side effects a document
// describes: property assignments, elements added to container properties
// and objects opened by configuring blocks. Later stages (trace, reflection)
// consume those records; none of them is ever applied to a real object.
package resolution
