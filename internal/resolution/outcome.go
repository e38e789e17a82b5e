// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolution

import (
	"fmt"

	"github.com/specialistvlad/dclfront/internal/langtree"
)

// FailureKind classifies why a node could not be resolved.
type FailureKind int

const (
	FailureUnresolvedReference FailureKind = iota
	FailureTypeMismatch
	FailureAmbiguousOverload
	FailureNotAccessChain
	FailureDuplicateKey
	FailureUnsupportedConstruct
	FailureOutsideSchema
	FailureReadOnly
	// FailurePropagated marks a node that depends on another failed node.
	FailurePropagated
	// FailureCancelled marks a node skipped because the analysis was cancelled.
	FailureCancelled
	// FailureSyntax marks a node the parser could not make sense of. The
	// parse diagnostic already describes it.
	FailureSyntax
)

var failureKindNames = [...]string{
	FailureUnresolvedReference:  "unresolved reference",
	FailureTypeMismatch:         "type mismatch",
	FailureAmbiguousOverload:    "ambiguous overload",
	FailureNotAccessChain:       "not a pure access chain",
	FailureDuplicateKey:         "duplicate key",
	FailureUnsupportedConstruct: "unsupported construct",
	FailureOutsideSchema:        "type outside schema",
	FailureReadOnly:             "read-only property",
	FailurePropagated:           "propagated",
	FailureCancelled:            "cancelled",
	FailureSyntax:               "syntax error",
}

func (k FailureKind) String() string {
	if int(k) < len(failureKindNames) {
		return failureKindNames[k]
	}
	return "unknown"
}

// Reportable reports whether failures of this kind describe a problem at
// their own node rather than an echo of a problem reported elsewhere.
func (k FailureKind) Reportable() bool {
	switch k {
	case FailurePropagated, FailureCancelled, FailureSyntax:
		return false
	}
	return true
}

// Outcome is the resolution result of a single node. It is either *Resolved
// or *Failed.
type Outcome interface {
	Origin() langtree.NodeID
	isOutcome()
}

// Resolved is a successfully resolved node.
type Resolved struct {
	Node  langtree.NodeID
	Value Value
}

func (r *Resolved) Origin() langtree.NodeID { return r.Node }
func (*Resolved) isOutcome()                {}

// Failed is a node that could not be resolved.
type Failed struct {
	Node    langtree.NodeID
	Kind    FailureKind
	Message string
	// Name is the identifier that failed to resolve, if any.
	Name string
	// Candidates are the names that were available where Name was looked up.
	Candidates []string
}

func (f *Failed) Origin() langtree.NodeID { return f.Node }
func (*Failed) isOutcome()                {}

func (f *Failed) Error() string {
	if f.Message == "" {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}
