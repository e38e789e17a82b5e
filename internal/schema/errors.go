// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import "errors"

var (
	// ErrOutsideSchema reports a reference to a type the schema does not declare.
	ErrOutsideSchema = errors.New("type is outside of the schema")
	// ErrNotObjectType reports an attempt to resolve a primitive or list as an object type.
	ErrNotObjectType = errors.New("not an object type")
	// ErrArityMismatch reports a generic type used with the wrong number of type arguments.
	ErrArityMismatch = errors.New("wrong number of type arguments")
	// ErrUnboundParam reports a type parameter used outside of its declaring scope.
	ErrUnboundParam = errors.New("unbound type parameter")
	// ErrDuplicate reports a name declared twice in the same scope.
	ErrDuplicate = errors.New("duplicate declaration")
	// ErrInvalidFunction reports an inconsistent function declaration.
	ErrInvalidFunction = errors.New("invalid function declaration")
)
