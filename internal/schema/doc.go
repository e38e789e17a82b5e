// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package schema describes the host model a document may reference: which
// types exist, which properties and functions each of them exposes, and how
// symbolic type references resolve to concrete types.
//
// A Schema is closed-world. New checks that every named type referenced from
// a property, a parameter or a return type is itself declared, so a schema
// that passes construction never produces "missing type" surprises during
// document analysis. Both Schema and RefContext are immutable after
// construction (the RefContext cache aside) and safe for concurrent use.
package schema
