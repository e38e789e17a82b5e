// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package diagnostics turns parse failures and resolution failures into an
// ordered list of user-facing diagnostics.
package diagnostics

import (
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/resolution"
	"github.com/specialistvlad/dclfront/internal/trace"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// KindSyntax and KindOverridden label diagnostics that do not come from a
// resolution failure.
const (
	KindSyntax     = "syntax error"
	KindOverridden = "overridden assignment"
)

// Diagnostic is a single problem found in a document.
type Diagnostic struct {
	Range    hcl.Range
	Severity Severity
	Message  string
	Detail   string
	// Kind is the failure kind name, or one of the Kind constants.
	Kind string
	Node langtree.NodeID
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Range, d.Severity, d.Message)
}

// Collect gathers the failures of a document in source order: parse
// failures of tree, then every reportable failure of res. Failures that only
// follow from another failure are left out.
func Collect(tree *langtree.Result, res *resolution.Result) []Diagnostic {
	var out []Diagnostic
	if tree != nil {
		for _, d := range tree.Failures {
			out = append(out, fromHCL(d))
		}
	}
	if res != nil {
		for _, f := range res.Failures() {
			if !f.Kind.Reportable() {
				continue
			}
			out = append(out, fromFailure(res.Tree, f))
		}
	}
	Sort(out)
	return out
}

// Overrides reports every assignment that was overridden by a later write
// to the same property. They are warnings: the document is valid, but the
// earlier write has no effect.
func Overrides(tr *trace.Trace) []Diagnostic {
	var out []Diagnostic
	for _, e := range tr.Entries() {
		for _, a := range e.Overridden() {
			out = append(out, Diagnostic{
				Range:    a.Range,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("Assignment to %q has no effect", qualified(e.Owner.String(), e.Property.Name)),
				Detail:   fmt.Sprintf("It is overridden at %s.", e.Effective.Range),
				Kind:     KindOverridden,
				Node:     a.Node,
			})
		}
	}
	Sort(out)
	return out
}

// Sort orders diagnostics by position, errors before warnings at the same
// position.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Range.Filename != b.Range.Filename {
			return a.Range.Filename < b.Range.Filename
		}
		if a.Range.Start.Byte != b.Range.Start.Byte {
			return a.Range.Start.Byte < b.Range.Start.Byte
		}
		return a.Severity < b.Severity
	})
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ToHCL converts diagnostics to their HCL form.
func ToHCL(diags []Diagnostic) hcl.Diagnostics {
	out := make(hcl.Diagnostics, 0, len(diags))
	for _, d := range diags {
		sev := hcl.DiagError
		if d.Severity == SeverityWarning {
			sev = hcl.DiagWarning
		}
		out = append(out, &hcl.Diagnostic{
			Severity: sev,
			Summary:  d.Message,
			Detail:   d.Detail,
			Subject:  d.Range.Ptr(),
		})
	}
	return out
}

// Write renders diagnostics with source snippets. sources maps file names
// to their text; files missing from it are printed without snippets.
func Write(w io.Writer, sources map[string][]byte, diags []Diagnostic, width uint, color bool) error {
	files := make(map[string]*hcl.File, len(sources))
	for name, src := range sources {
		files[name] = &hcl.File{Bytes: src}
	}
	return hcl.NewDiagnosticTextWriter(w, files, width, color).WriteDiagnostics(ToHCL(diags))
}

func fromHCL(d *hcl.Diagnostic) Diagnostic {
	out := Diagnostic{
		Message: d.Summary,
		Detail:  d.Detail,
		Kind:    KindSyntax,
		Node:    langtree.NoNode,
	}
	if d.Severity == hcl.DiagWarning {
		out.Severity = SeverityWarning
	}
	if d.Subject != nil {
		out.Range = *d.Subject
	}
	return out
}

func fromFailure(tree *langtree.Tree, f *resolution.Failed) Diagnostic {
	out := Diagnostic{
		Severity: SeverityError,
		Message:  message(f),
		Kind:     f.Kind.String(),
		Node:     f.Node,
	}
	if tree != nil && tree.Valid(f.Node) {
		out.Range = tree.Get(f.Node).Range
	}
	if f.Kind == resolution.FailureUnresolvedReference && f.Name != "" {
		if s := nameSuggestion(f.Name, f.Candidates); s != "" {
			out.Detail = fmt.Sprintf("Did you mean %q?", s)
		}
	}
	return out
}

var summaries = map[resolution.FailureKind]string{
	resolution.FailureUnresolvedReference:  "Unresolved reference",
	resolution.FailureTypeMismatch:         "Type mismatch",
	resolution.FailureAmbiguousOverload:    "Ambiguous function call",
	resolution.FailureNotAccessChain:       "Invalid assignment target",
	resolution.FailureDuplicateKey:         "Duplicate argument",
	resolution.FailureUnsupportedConstruct: "Unsupported construct",
	resolution.FailureOutsideSchema:        "Type outside schema",
	resolution.FailureReadOnly:             "Read-only property",
}

func message(f *resolution.Failed) string {
	summary, ok := summaries[f.Kind]
	if !ok {
		summary = f.Kind.String()
	}
	if f.Message == "" {
		return summary
	}
	return summary + ": " + f.Message
}

func qualified(owner, property string) string {
	if owner == "" {
		return property
	}
	return owner + "." + property
}
